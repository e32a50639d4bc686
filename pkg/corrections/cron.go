package corrections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ErrInvalidCron indicates a cron expression that the scheduler could not run.
var ErrInvalidCron = errors.New("invalid cron expression")

// Schedule triggers accept five fields, an optional leading seconds field and descriptors
// such as @daily.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCron checks a cron expression.
func ParseCron(expression string) error {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return fmt.Errorf("%w: expression is empty", ErrInvalidCron)
	}

	if _, err := cronParser.Parse(expression); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidCron, expression, err)
	}

	return nil
}
