package validation

import (
	"fmt"

	"github.com/dukex/flowmender/pkg/models"
)

// nodeTypes reports every node whose type is not registered.
func (p *pass) nodeTypes() {
	for _, node := range p.nodes() {
		if node.Type == "" || p.registry.Types.IsValid(node.Type) {
			continue
		}

		message := fmt.Sprintf("unknown node type %q", node.Type)

		if rule, ok := p.registry.Corrections.Lookup(node.Type); ok {
			message += fmt.Sprintf("; can be auto-corrected to %q (%s)", rule.ReplacementType, rule.Rationale)
		} else {
			message += fmt.Sprintf("; did you mean %q?", p.registry.Types.SuggestSimilar(node.Type))
		}

		p.report.Add(issue(models.CategoryNodeType, models.SeverityError, node.ID, message))
	}
}

// parameters checks required parameters, declared types and the enumerated operation of
// every node whose type has a contract. Incomplete configuration is a warning; an
// unsupported operation prevents execution and is an error.
func (p *pass) parameters() {
	for _, node := range p.nodes() {
		contract, ok := p.registry.Types.LookupContract(node.Type)
		if !ok {
			continue
		}

		for _, name := range contract.RequiredParameters {
			if _, present := node.Parameter(name); !present {
				p.report.Add(issue(models.CategoryParameter, models.SeverityWarning, node.ID,
					fmt.Sprintf("missing required parameter %q", name)))
			}
		}

		for _, name := range models.SortedKeys(contract.ParameterTypes) {
			value, present := node.Parameter(name)
			if !present {
				continue
			}

			want := contract.ParameterTypes[name]
			if !want.Matches(value) {
				p.report.Add(issue(models.CategoryParameter, models.SeverityWarning, node.ID,
					fmt.Sprintf("parameter %q should be %s, got %s", name, want, models.TypeOf(value))))
			}
		}

		if len(contract.SupportedOperations) == 0 {
			continue
		}

		key := contract.OperationKey()

		value, present := node.Parameter(key)
		if !present || models.IsExpression(value) {
			continue
		}

		op, isString := value.(string)
		if !isString || !contract.SupportsOperation(op) {
			p.report.Add(issue(models.CategoryParameter, models.SeverityError, node.ID,
				fmt.Sprintf("%s %v is not supported by %s (supported: %v)", key, value, node.Type, contract.SupportedOperations)))
		}
	}
}
