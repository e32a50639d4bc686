// Package models defines the core domain models for workflow graph validation and repair.
package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// WorkflowGraph represents an automation pipeline: typed nodes wired by named connections.
type WorkflowGraph struct {
	Name        string          `json:"name"                  validate:"required"`
	Nodes       []*WorkflowNode `json:"nodes"                 validate:"required,min=1"`
	Connections Connections     `json:"connections"`
	Settings    map[string]any  `json:"settings,omitempty"`
	Meta        map[string]any  `json:"meta,omitempty"`
}

// NodeByID returns the first node carrying the given id.
func (g *WorkflowGraph) NodeByID(id string) (*WorkflowNode, bool) {
	for _, node := range g.Nodes {
		if node != nil && node.ID == id {
			return node, true
		}
	}

	return nil, false
}

// NodeIDs returns the set of node ids present in the graph.
func (g *WorkflowGraph) NodeIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(g.Nodes))

	for _, node := range g.Nodes {
		if node != nil && node.ID != "" {
			ids[node.ID] = struct{}{}
		}
	}

	return ids
}

// ConnectionCount returns the number of connection targets in the graph.
func (g *WorkflowGraph) ConnectionCount() int {
	count := 0

	for _, ports := range g.Connections {
		for _, targets := range ports {
			count += len(targets)
		}
	}

	return count
}

// Edge is a flattened view of a single connection.
type Edge struct {
	Source     string
	OutputPort string
	Target     ConnectionTarget
}

// Edges flattens the connection map in a deterministic order (sorted source ids, then sorted
// output ports, then declaration order of the targets).
func (g *WorkflowGraph) Edges() []Edge {
	edges := make([]Edge, 0, g.ConnectionCount())

	for _, source := range SortedKeys(g.Connections) {
		ports := g.Connections[source]
		for _, port := range SortedKeys(ports) {
			for _, target := range ports[port] {
				edges = append(edges, Edge{Source: source, OutputPort: port, Target: target})
			}
		}
	}

	return edges
}

// Connections maps a source node id to its output ports and their targets.
type Connections map[string]map[string][]ConnectionTarget

// ConnectionTarget is one end of a directed edge.
type ConnectionTarget struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index *int   `json:"index,omitempty"`
}

// UnmarshalJSON accepts both the flat form `[{node,type,index}]` and the nested
// n8n form `[[{node,type,index}], ...]` for every output port.
func (c *Connections) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Connections, len(raw))

	for source, ports := range raw {
		out[source] = make(map[string][]ConnectionTarget, len(ports))

		for port, payload := range ports {
			targets, err := decodeTargets(payload)
			if err != nil {
				return err
			}

			out[source][port] = targets
		}
	}

	*c = out

	return nil
}

func decodeTargets(payload json.RawMessage) ([]ConnectionTarget, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "null" || trimmed == "" {
		return []ConnectionTarget{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}

	targets := make([]ConnectionTarget, 0, len(items))

	for _, item := range items {
		if strings.HasPrefix(strings.TrimSpace(string(item)), "[") {
			var slot []ConnectionTarget
			if err := json.Unmarshal(item, &slot); err != nil {
				return nil, err
			}

			targets = append(targets, slot...)

			continue
		}

		var target ConnectionTarget
		if err := json.Unmarshal(item, &target); err != nil {
			return nil, err
		}

		targets = append(targets, target)
	}

	return targets, nil
}

// SortedKeys returns the keys of a string-keyed map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
