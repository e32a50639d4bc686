package models

import (
	"encoding/json"
	"strings"
)

// PrimitiveType is the declared runtime type of a node parameter.
type PrimitiveType string

const (
	PrimitiveString  PrimitiveType = "string"
	PrimitiveNumber  PrimitiveType = "number"
	PrimitiveBoolean PrimitiveType = "boolean"
	PrimitiveObject  PrimitiveType = "object"
	PrimitiveArray   PrimitiveType = "array"
	PrimitiveAny     PrimitiveType = "any"
)

// DefaultOperationParameter is the parameter holding a node's operation when a contract
// does not name another one.
const DefaultOperationParameter = "operation"

// NodeTypeContract declares the shape of valid configuration for a node type.
type NodeTypeContract struct {
	Category                string                   `json:"category"                          yaml:"category"`
	RequiredParameters      []string                 `json:"requiredParameters,omitempty"      yaml:"requiredParameters"`
	ParameterTypes          map[string]PrimitiveType `json:"parameterTypes,omitempty"          yaml:"parameterTypes"`
	SupportedOperations     []string                 `json:"supportedOperations,omitempty"     yaml:"supportedOperations"`
	OperationParameter      string                   `json:"operationParameter,omitempty"      yaml:"operationParameter"`
	RequiredCredentialTypes []string                 `json:"requiredCredentialTypes,omitempty" yaml:"requiredCredentialTypes"`
	// EntryPoint marks no-input types (triggers) that may legitimately have no incoming edge.
	EntryPoint bool `json:"entryPoint,omitempty" yaml:"entryPoint"`
	// Detached marks annotation types (sticky notes) that never take part in connections.
	Detached bool `json:"detached,omitempty" yaml:"detached"`
}

// OperationKey returns the parameter name that carries the operation value.
func (c *NodeTypeContract) OperationKey() string {
	if c.OperationParameter != "" {
		return c.OperationParameter
	}

	return DefaultOperationParameter
}

// SupportsOperation reports whether op is allowed. Contracts without an enumerated set allow everything.
func (c *NodeTypeContract) SupportsOperation(op string) bool {
	if len(c.SupportedOperations) == 0 {
		return true
	}

	for _, supported := range c.SupportedOperations {
		if supported == op {
			return true
		}
	}

	return false
}

// IsExpression reports whether a value is an n8n expression, resolved only at run time.
func IsExpression(value any) bool {
	s, ok := value.(string)

	return ok && strings.HasPrefix(s, "=")
}

// TypeOf returns the primitive type of a decoded parameter value.
func TypeOf(value any) PrimitiveType {
	switch value.(type) {
	case string:
		return PrimitiveString
	case bool:
		return PrimitiveBoolean
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return PrimitiveNumber
	case map[string]any:
		return PrimitiveObject
	case []any, []string, []map[string]any:
		return PrimitiveArray
	default:
		return PrimitiveAny
	}
}

// Matches reports whether value satisfies the declared primitive type.
func (p PrimitiveType) Matches(value any) bool {
	if p == PrimitiveAny || p == "" || IsExpression(value) {
		return true
	}

	return TypeOf(value) == p
}
