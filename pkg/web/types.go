// Package web provides HTTP request and response types for the validation API.
package web

import (
	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/services"
)

// ValidateOptions are the options accepted in a validation request body. Unset fields fall
// back to the query string, then to false.
type ValidateOptions struct {
	StrictMode  *bool `json:"strictMode,omitempty"`
	AutoCorrect *bool `json:"autoCorrect,omitempty"`
}

// ValidateRequest is the wrapped form of a validation request body. A bare workflow graph is
// accepted as well.
type ValidateRequest struct {
	Workflow *models.WorkflowGraph `json:"workflow" validate:"required"`
	Options  ValidateOptions       `json:"options"`
}

// ValidateResponse is the report of a validation request, plus the repaired workflow when
// auto-correct was requested.
type ValidateResponse struct {
	*models.ValidationReport

	Workflow *models.WorkflowGraph `json:"workflow,omitempty"`
}

// NodeTypesResponse lists registered node types.
type NodeTypesResponse struct {
	NodeTypes []services.NodeTypeInfo `json:"nodeTypes"`
	Total     int                     `json:"total"`
}

// CorrectionsResponse lists the registered correction rules.
type CorrectionsResponse struct {
	Corrections []services.CorrectionInfo `json:"corrections"`
	Total       int                       `json:"total"`
}
