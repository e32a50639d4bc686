// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"log/slog"

	"github.com/dukex/flowmender/pkg/corrections"
	"github.com/dukex/flowmender/pkg/credentials"
	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/google/uuid"
)

// Node types of the small registry returned by NewTestRegistry.
const (
	TypeTrigger     = "test.trigger"
	TypeAction      = "genericHttpRequest"
	TypeService     = "test.serviceX"
	TypeLegacy      = "legacyVision"
	CredentialTypeX = "serviceX"
)

// NewTestRegistry creates a small, self-contained validation context.
func NewTestRegistry() *registry.Registry {
	reg := registry.NewRegistry(slog.Default())

	reg.AddContract(TypeTrigger, models.NodeTypeContract{Category: "trigger", EntryPoint: true})
	reg.AddContract(TypeAction, models.NodeTypeContract{
		Category:            "action",
		RequiredParameters:  []string{"method", "url"},
		ParameterTypes:      map[string]models.PrimitiveType{"method": models.PrimitiveString, "url": models.PrimitiveString, "timeout": models.PrimitiveNumber},
		SupportedOperations: []string{"GET", "POST"},
		OperationParameter:  "method",
	})
	reg.AddContract(TypeService, models.NodeTypeContract{
		Category:                "action",
		RequiredCredentialTypes: []string{CredentialTypeX},
	})
	reg.AddCredentialContract(CredentialTypeX, credentials.Contract{RequiredFields: []string{"apiKey"}})

	// well-formed rule
	_ = reg.AddCorrectionRule(corrections.MappedRule(TypeLegacy, TypeAction,
		"vision calls go through the generic HTTP node",
		map[string]string{"endpoint": "url"},
		map[string]any{"method": "POST", "url": "https://vision.example.com/annotate"},
	))

	return reg
}

// CreateTestNode creates a test WorkflowNode with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:         uuid.New().String(),
		Name:       "Test Node",
		Type:       TypeAction,
		Position:   []float64{100, 200},
		Parameters: map[string]any{"method": "GET", "url": "https://api.example.com"},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithTriggerNode configures the node as a trigger node.
func WithTriggerNode() func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = TypeTrigger
		n.Name = "Trigger"
		n.Parameters = map[string]any{}
	}
}

// WithID sets the node id.
func WithID(id string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ID = id
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Name = name
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = nodeType
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Position = []float64{x, y}
	}
}

// WithRawPosition sets the position slice as is, including malformed values.
func WithRawPosition(position []float64) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Position = position
	}
}

// WithParameters sets the node parameters.
func WithParameters(params map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Parameters = params
	}
}

// WithCredential attaches credential fields for a credential type.
func WithCredential(credentialType string, fields map[string]any) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		if n.Credentials == nil {
			n.Credentials = make(map[string]map[string]any)
		}

		n.Credentials[credentialType] = fields
	}
}

// CreateTestGraph creates a graph holding the given nodes and no connections.
func CreateTestGraph(nodes ...*models.WorkflowNode) *models.WorkflowGraph {
	return &models.WorkflowGraph{
		Name:        "Test Workflow",
		Nodes:       nodes,
		Connections: models.Connections{},
	}
}

// Connect adds a `main` connection from source to target on input index 0.
func Connect(graph *models.WorkflowGraph, source, target string) {
	ConnectPort(graph, source, "main", models.ConnectionTarget{Node: target, Type: "main", Index: IntPtr(0)})
}

// ConnectPort adds an arbitrary connection target under a source output port.
func ConnectPort(graph *models.WorkflowGraph, source, port string, target models.ConnectionTarget) {
	if graph.Connections == nil {
		graph.Connections = models.Connections{}
	}

	if graph.Connections[source] == nil {
		graph.Connections[source] = make(map[string][]models.ConnectionTarget)
	}

	graph.Connections[source][port] = append(graph.Connections[source][port], target)
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}

// ValidTwoNodeGraph returns a trigger wired to a fully configured action.
func ValidTwoNodeGraph() *models.WorkflowGraph {
	trigger := CreateTestNode(WithTriggerNode(), WithID("trigger"), WithPosition(250, 300))
	action := CreateTestNode(WithID("action"), WithName("Call API"), WithPosition(500, 300))

	graph := CreateTestGraph(trigger, action)
	Connect(graph, trigger.ID, action.ID)

	return graph
}
