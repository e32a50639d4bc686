package corrections

import (
	"errors"
	"fmt"
)

const base = "n8n-nodes-base."

func defaultRules() []Rule {
	return []Rule{
		{
			MatchType:       base + "function",
			ReplacementType: base + "code",
			Rationale:       "the Function node was replaced by the Code node",
			Synthesize:      codeFromFunction("runOnceForAllItems"),
		},
		{
			MatchType:       base + "functionItem",
			ReplacementType: base + "code",
			Rationale:       "the Function Item node was replaced by the Code node in per-item mode",
			Synthesize:      codeFromFunction("runOnceForEachItem"),
		},
		{
			MatchType:       base + "cron",
			ReplacementType: base + "scheduleTrigger",
			Rationale:       "the Cron node was replaced by the Schedule Trigger",
			Synthesize:      scheduleFromCron,
		},
		{
			MatchType:       base + "interval",
			ReplacementType: base + "scheduleTrigger",
			Rationale:       "the Interval node was replaced by the Schedule Trigger",
			Synthesize:      scheduleFromInterval,
		},
		MappedRule(base+"start", base+"manualTrigger",
			"the Start node was replaced by the Manual Trigger", nil, nil),
		{
			MatchType:       base + "googleCloudVision",
			ReplacementType: base + "httpRequest",
			Rationale:       "no native vision node; call the Cloud Vision REST API instead",
			Synthesize:      visionRequest,
		},
		MappedRule(base+"readBinaryFile", base+"readWriteFile",
			"Read Binary File was merged into Read/Write Files from Disk",
			map[string]string{"filePath": "fileSelector"},
			map[string]any{"operation": "read"}),
		MappedRule(base+"writeBinaryFile", base+"readWriteFile",
			"Write Binary File was merged into Read/Write Files from Disk",
			map[string]string{"fileName": "fileName", "dataPropertyName": "dataPropertyName"},
			map[string]any{"operation": "write"}),
		{
			MatchType:       base + "spreadsheetFile",
			ReplacementType: base + "convertToFile",
			Rationale:       "Spreadsheet File was split; writing is handled by Convert to File",
			Synthesize:      convertFromSpreadsheet,
		},
	}
}

func codeFromFunction(mode string) SynthesizeFunc {
	return func(old map[string]any) (map[string]any, error) {
		code, _ := old["functionCode"].(string)
		if code == "" {
			code = "return items;"
			if mode == "runOnceForEachItem" {
				code = "return item;"
			}
		}

		return map[string]any{
			"mode":     mode,
			"language": "javaScript",
			"jsCode":   code,
		}, nil
	}
}

var cronModes = map[string]map[string]any{
	"everyMinute": {"field": "minutes", "minutesInterval": float64(1)},
	"everyHour":   {"field": "hours", "hoursInterval": float64(1)},
	"everyDay":    {"field": "days", "daysInterval": float64(1)},
	"everyWeek":   {"field": "weeks", "weeksInterval": float64(1)},
	"everyMonth":  {"field": "months", "monthsInterval": float64(1)},
}

func scheduleFromCron(old map[string]any) (map[string]any, error) {
	intervals := make([]any, 0)

	if triggerTimes, ok := old["triggerTimes"].(map[string]any); ok {
		items, _ := triggerTimes["item"].([]any)
		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("unexpected trigger time %T", raw)
			}

			mode, _ := item["mode"].(string)
			if mode == "custom" {
				expression, _ := item["cronExpression"].(string)
				if err := ParseCron(expression); err != nil {
					return nil, err
				}

				intervals = append(intervals, map[string]any{"field": "cronExpression", "expression": expression})

				continue
			}

			template, known := cronModes[mode]
			if !known {
				return nil, fmt.Errorf("unsupported cron mode %q", mode)
			}

			interval := make(map[string]any, len(template)+2)
			for k, v := range template {
				interval[k] = v
			}

			if hour, ok := item["hour"]; ok {
				interval["triggerAtHour"] = hour
			}

			if minute, ok := item["minute"]; ok {
				interval["triggerAtMinute"] = minute
			}

			intervals = append(intervals, interval)
		}
	}

	if len(intervals) == 0 {
		intervals = append(intervals, map[string]any{"field": "days", "daysInterval": float64(1)})
	}

	return map[string]any{"rule": map[string]any{"interval": intervals}}, nil
}

func scheduleFromInterval(old map[string]any) (map[string]any, error) {
	unit, _ := old["unit"].(string)
	if unit == "" {
		unit = "seconds"
	}

	switch unit {
	case "seconds", "minutes", "hours":
	default:
		return nil, fmt.Errorf("unsupported interval unit %q", unit)
	}

	amount := float64(1)
	if value, ok := old["interval"].(float64); ok && value > 0 {
		amount = value
	}

	return map[string]any{
		"rule": map[string]any{
			"interval": []any{map[string]any{"field": unit, unit + "Interval": amount}},
		},
	}, nil
}

func visionRequest(old map[string]any) (map[string]any, error) {
	image, _ := old["imageUrl"].(string)
	if image == "" {
		image, _ = old["imageUri"].(string)
	}

	if image == "" {
		return nil, errors.New("no image source to carry over")
	}

	feature, _ := old["feature"].(string)
	if feature == "" {
		feature = "LABEL_DETECTION"
	}

	body := map[string]any{
		"requests": []any{map[string]any{
			"image":    map[string]any{"source": map[string]any{"imageUri": image}},
			"features": []any{map[string]any{"type": feature}},
		}},
	}

	return map[string]any{
		"method":         "POST",
		"url":            "https://vision.googleapis.com/v1/images:annotate",
		"authentication": "predefinedCredentialType",
		"sendBody":       true,
		"specifyBody":    "json",
		"jsonBody":       body,
	}, nil
}

func convertFromSpreadsheet(old map[string]any) (map[string]any, error) {
	if operation, _ := old["operation"].(string); operation == "fromFile" {
		return nil, errors.New("reading spreadsheets maps to Extract from File, not Convert to File")
	}

	format, _ := old["fileFormat"].(string)
	if format == "" {
		format = "csv"
	}

	params := map[string]any{"operation": format}
	if property, ok := old["binaryPropertyName"]; ok {
		params["binaryPropertyName"] = property
	}

	return params, nil
}
