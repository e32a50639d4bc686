// Package corrections provides the rules that remap unsupported node types to supported ones.
package corrections

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/mohae/deepcopy"
)

var (
	// ErrInvalidRule indicates a rule is missing a field or maps a type onto itself.
	ErrInvalidRule = errors.New("invalid correction rule")

	// ErrSynthesisFailed indicates a rule could not build the replacement parameters.
	ErrSynthesisFailed = errors.New("parameter synthesis failed")
)

// SynthesizeFunc builds replacement parameters from the parameters of the unsupported node.
// It must not retain or mutate its input.
type SynthesizeFunc func(old map[string]any) (map[string]any, error)

// Rule remaps an unregistered or deprecated node type to a supported replacement.
type Rule struct {
	MatchType       string
	ReplacementType string
	Rationale       string
	Synthesize      SynthesizeFunc
}

// Validate checks that the rule is well-formed.
func (r Rule) Validate() error {
	switch {
	case r.MatchType == "" || r.ReplacementType == "":
		return fmt.Errorf("%w: match and replacement types are required", ErrInvalidRule)
	case r.MatchType == r.ReplacementType:
		return fmt.Errorf("%w: %s maps onto itself", ErrInvalidRule, r.MatchType)
	case r.Synthesize == nil:
		return fmt.Errorf("%w: %s has no synthesis function", ErrInvalidRule, r.MatchType)
	}

	return nil
}

// Apply runs the synthesis function on a deep copy of old. Errors and panics are reported as
// ErrSynthesisFailed so a single broken rule never aborts a repair pass.
func (r Rule) Apply(old map[string]any) (params map[string]any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			params = nil
			err = fmt.Errorf("%w: %s: %v", ErrSynthesisFailed, r.MatchType, recovered)
		}
	}()

	input, _ := deepcopy.Copy(old).(map[string]any)
	if input == nil {
		input = map[string]any{}
	}

	params, err = r.Synthesize(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSynthesisFailed, r.MatchType, err)
	}

	if params == nil {
		params = map[string]any{}
	}

	return params, nil
}

// MappedRule builds a declarative rule: keys listed in renames are carried over under their
// new names, everything else is dropped, then defaults fill whatever is still unset.
func MappedRule(matchType, replacementType, rationale string, renames map[string]string, defaults map[string]any) Rule {
	return Rule{
		MatchType:       matchType,
		ReplacementType: replacementType,
		Rationale:       rationale,
		Synthesize: func(old map[string]any) (map[string]any, error) {
			params := make(map[string]any, len(renames)+len(defaults))

			for from, to := range renames {
				if value, ok := old[from]; ok {
					params[to] = value
				}
			}

			if len(defaults) == 0 {
				return params, nil
			}

			fill, _ := deepcopy.Copy(defaults).(map[string]any)
			if err := mergo.Merge(&params, fill); err != nil {
				return nil, err
			}

			return params, nil
		},
	}
}
