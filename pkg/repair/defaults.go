package repair

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dukex/flowmender/pkg/catalog"
	"github.com/dukex/flowmender/pkg/models"
)

// PlaceholderURL is filled into HTTP request nodes that have no URL.
const PlaceholderURL = "https://example.com"

type parameterDefault struct {
	nodeType  string
	parameter string
	value     func(node *models.WorkflowNode) any
}

func constant(value any) func(*models.WorkflowNode) any {
	return func(*models.WorkflowNode) any { return value }
}

// parameterDefaults is deliberately short: only commonly missing required parameters with a
// safe conservative value.
var parameterDefaults = []parameterDefault{
	{catalog.BaseNamespace + "httpRequest", "method", constant("GET")},
	{catalog.BaseNamespace + "httpRequest", "url", constant(PlaceholderURL)},
	{catalog.BaseNamespace + "webhook", "httpMethod", constant("GET")},
	{catalog.BaseNamespace + "webhook", "path", func(node *models.WorkflowNode) any { return node.ID }},
	{catalog.BaseNamespace + "scheduleTrigger", "rule", func(*models.WorkflowNode) any {
		return map[string]any{"interval": []any{map[string]any{"field": "days"}}}
	}},
}

// stringIdentifiers lists identifier parameters that must be strings but are often written
// as numbers.
var stringIdentifiers = []struct {
	nodeType  string
	parameter string
}{
	{catalog.BaseNamespace + "telegram", "chatId"},
	{catalog.BaseNamespace + "discord", "channelId"},
	{catalog.BaseNamespace + "discord", "guildId"},
	{catalog.BaseNamespace + "googleSheets", "sheetId"},
}

// fillDefaults applies the parameter defaults and identifier coercions to nodes of the listed
// types. It is not a general coercion system.
func (r *repairRun) fillDefaults() {
	for _, node := range r.graph.Nodes {
		if node == nil {
			continue
		}

		for _, def := range parameterDefaults {
			if def.nodeType != node.Type {
				continue
			}

			if _, present := node.Parameter(def.parameter); present {
				continue
			}

			value := def.value(node)
			if models.IsBlank(value) {
				continue
			}

			if node.Parameters == nil {
				node.Parameters = make(map[string]any)
			}

			node.Parameters[def.parameter] = value
			r.record(models.PhaseParameter, node.ID, "set default %s for %s", def.parameter, node.Type)
		}

		for _, ident := range stringIdentifiers {
			if ident.nodeType != node.Type {
				continue
			}

			value, present := node.Parameter(ident.parameter)
			if !present {
				continue
			}

			text, ok := numberString(value)
			if !ok {
				continue
			}

			node.Parameters[ident.parameter] = text
			r.record(models.PhaseParameter, node.ID, "converted %s to string %q", ident.parameter, text)
		}
	}
}

// numberString formats any value the validator treats as a number.
func numberString(value any) (string, bool) {
	if models.TypeOf(value) != models.PrimitiveNumber {
		return "", false
	}

	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case json.Number:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
