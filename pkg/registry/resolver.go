package registry

import "github.com/dukex/flowmender/pkg/models"

// CredentialState describes what a node provides for one credential type.
type CredentialState struct {
	Present bool
	// External is set when the credential is managed out-of-band; its fields are not checked.
	External bool
	Fields   map[string]any
}

// CredentialResolver decides whether a node provides a credential.
type CredentialResolver interface {
	Resolve(node *models.WorkflowNode, credentialType string) CredentialState
}

// InlineResolver expects credential fields stored directly on the node.
type InlineResolver struct{}

// Resolve implements CredentialResolver.
func (InlineResolver) Resolve(node *models.WorkflowNode, credentialType string) CredentialState {
	fields, ok := node.Credentials[credentialType]
	if !ok {
		return CredentialState{}
	}

	if fields == nil {
		fields = map[string]any{}
	}

	return CredentialState{Present: true, Fields: fields}
}

// ReferenceResolver accepts n8n-style credential references (`{"id": ..., "name": ...}`)
// as managed out-of-band, and falls back to inline fields otherwise.
type ReferenceResolver struct{}

// Resolve implements CredentialResolver.
func (ReferenceResolver) Resolve(node *models.WorkflowNode, credentialType string) CredentialState {
	state := InlineResolver{}.Resolve(node, credentialType)
	if !state.Present {
		return state
	}

	if id, ok := state.Fields["id"]; ok && !models.IsBlank(id) {
		state.External = true
	}

	return state
}
