package validation

import (
	"fmt"
	"slices"

	"github.com/dukex/flowmender/pkg/models"
)

// credentials checks the credentials a node's contract requires and every credential the node
// carries for which a contract is registered. Each credential type is reported at most once.
func (p *pass) credentials() {
	for _, node := range p.nodes() {
		var required []string
		if contract, ok := p.registry.Types.LookupContract(node.Type); ok {
			required = contract.RequiredCredentialTypes
		}

		checked := append([]string(nil), required...)

		for _, credentialType := range models.SortedKeys(node.Credentials) {
			if !slices.Contains(checked, credentialType) {
				checked = append(checked, credentialType)
			}
		}

		for _, credentialType := range checked {
			p.credential(node, credentialType, slices.Contains(required, credentialType))
		}
	}
}

func (p *pass) credential(node *models.WorkflowNode, credentialType string, required bool) {
	state := p.registry.Resolver.Resolve(node, credentialType)

	if !state.Present {
		if required {
			p.report.Add(issue(models.CategoryCredential, models.SeverityWarning, node.ID,
				fmt.Sprintf("missing required credential %q", credentialType)))
		}

		return
	}

	if state.External {
		return
	}

	contract, ok := p.registry.Credentials.Lookup(credentialType)
	if !ok {
		return
	}

	if err := contract.Validate(credentialType, state.Fields); err != nil {
		p.report.Add(issue(models.CategoryCredential, models.SeverityWarning, node.ID, err.Error()))
	}
}
