package validation

import (
	"fmt"

	"github.com/dukex/flowmender/pkg/catalog"
	"github.com/dukex/flowmender/pkg/corrections"
	"github.com/dukex/flowmender/pkg/models"
)

const scheduleTrigger = catalog.BaseNamespace + "scheduleTrigger"

// schedules checks the cron intervals of schedule triggers. A cron expression the scheduler
// cannot parse keeps the trigger from ever firing, so it is an error.
func (p *pass) schedules() {
	for _, node := range p.nodes() {
		if node.Type != scheduleTrigger {
			continue
		}

		rule, _ := node.Parameters["rule"].(map[string]any)
		intervals, _ := rule["interval"].([]any)

		for index, raw := range intervals {
			interval, ok := raw.(map[string]any)
			if !ok || interval["field"] != "cronExpression" {
				continue
			}

			value := interval["expression"]
			if models.IsExpression(value) {
				continue
			}

			expression, _ := value.(string)
			if err := corrections.ParseCron(expression); err != nil {
				p.report.Add(issue(models.CategoryParameter, models.SeverityError, node.ID,
					fmt.Sprintf("schedule interval #%d: %v", index+1, err)))
			}
		}
	}
}
