// Package models defines core node models for workflow graphs.
package models

import "math"

// WorkflowNode represents a node instance in a workflow graph.
type WorkflowNode struct {
	ID          string                    `json:"id"                    validate:"required"`
	Name        string                    `json:"name"                  validate:"required"`
	Type        string                    `json:"type"                  validate:"required"`
	TypeVersion float64                   `json:"typeVersion,omitempty"`
	Position    []float64                 `json:"position"              validate:"len=2,dive,finite"`
	Parameters  map[string]any            `json:"parameters,omitempty"`
	Credentials map[string]map[string]any `json:"credentials,omitempty"`
	Disabled    bool                      `json:"disabled,omitempty"`
}

// Point is a comparable 2D position, used as a map key for collision checks.
type Point struct {
	X float64
	Y float64
}

// Point returns the node position as a Point. ok is false when the position is malformed.
func (n *WorkflowNode) Point() (Point, bool) {
	if len(n.Position) != 2 {
		return Point{}, false
	}

	x, y := n.Position[0], n.Position[1]
	if !IsFinite(x) || !IsFinite(y) {
		return Point{}, false
	}

	return Point{X: x, Y: y}, true
}

// SetPoint replaces the node position.
func (n *WorkflowNode) SetPoint(p Point) {
	n.Position = []float64{p.X, p.Y}
}

// Parameter returns a parameter value and whether it is present (non-blank).
func (n *WorkflowNode) Parameter(name string) (any, bool) {
	if n.Parameters == nil {
		return nil, false
	}

	value, ok := n.Parameters[name]
	if !ok || IsBlank(value) {
		return nil, false
	}

	return value, true
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsBlank reports whether a parameter value counts as missing: nil or an empty string.
func IsBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
