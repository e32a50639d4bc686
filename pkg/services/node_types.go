package services

import (
	"context"
	"fmt"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
)

// NodeTypeInfo describes one registered node type.
type NodeTypeInfo struct {
	Type     string                   `json:"type"`
	Category string                   `json:"category"`
	Contract *models.NodeTypeContract `json:"contract,omitempty"`
}

// CorrectionInfo describes a remap offered for an unsupported node type.
type CorrectionInfo struct {
	MatchType       string `json:"matchType"`
	ReplacementType string `json:"replacementType"`
	Rationale       string `json:"rationale"`
}

// NodeTypes answers catalog queries.
type NodeTypes struct {
	registry *registry.Registry
}

// NewNodeTypes creates a new node type service.
func NewNodeTypes(reg *registry.Registry) *NodeTypes {
	return &NodeTypes{
		registry: reg,
	}
}

// List returns every registered type, optionally restricted to one category.
func (n *NodeTypes) List(_ context.Context, category string) ([]NodeTypeInfo, error) {
	if !n.registry.Ready() {
		return nil, ErrContextNotReady
	}

	types := make([]NodeTypeInfo, 0)

	for nodeType := range n.registry.Types.AllTypes() {
		typeCategory, ok := n.registry.Types.CategoryOf(nodeType)
		if !ok || (category != "" && typeCategory != category) {
			continue
		}

		types = append(types, NodeTypeInfo{Type: nodeType, Category: typeCategory})
	}

	return types, nil
}

// Get returns a registered type together with its contract, if it has one.
func (n *NodeTypes) Get(_ context.Context, nodeType string) (*NodeTypeInfo, error) {
	if !n.registry.Ready() {
		return nil, ErrContextNotReady
	}

	if nodeType == "" {
		return nil, NewValidationError("get_node_type", "empty_type", "node type is required", ErrInvalidRequest)
	}

	category, ok := n.registry.Types.CategoryOf(nodeType)
	if !ok {
		return nil, &ServiceError{
			Op:      "get_node_type",
			Code:    "node_type_not_found",
			Message: fmt.Sprintf("node type %q is not registered", nodeType),
			Err:     ErrNodeTypeNotFound,
		}
	}

	info := &NodeTypeInfo{Type: nodeType, Category: category}

	if contract, ok := n.registry.Types.LookupContract(nodeType); ok {
		info.Contract = contract
	}

	return info, nil
}

// Corrections lists the registered correction rules ordered by matched type.
func (n *NodeTypes) Corrections(_ context.Context) ([]CorrectionInfo, error) {
	if !n.registry.Ready() {
		return nil, ErrContextNotReady
	}

	rules := n.registry.Corrections.Rules()
	out := make([]CorrectionInfo, 0, len(rules))

	for _, rule := range rules {
		out = append(out, CorrectionInfo{
			MatchType:       rule.MatchType,
			ReplacementType: rule.ReplacementType,
			Rationale:       rule.Rationale,
		})
	}

	return out, nil
}
