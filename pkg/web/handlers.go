// Package web provides HTTP handlers for workflow validation and catalog queries.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	logger            *slog.Logger
	validationService *services.Validation
	nodeTypeService   *services.NodeTypes
	validator         *validator.Validate
}

func NewAPIHandlers(
	logger *slog.Logger,
	validationService *services.Validation,
	nodeTypeService *services.NodeTypes,
	validator *validator.Validate,
) *APIHandlers {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandlers{
		logger:            logger,
		validationService: validationService,
		nodeTypeService:   nodeTypeService,
		validator:         validator,
	}
}

// ValidateWorkflow validates (and optionally repairs) the posted workflow. The response is
// 200 whenever a report could be produced, valid or not.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	req, err := h.parseValidateRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	opts, err := resolveOptions(c, req.Options)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.validationService.ValidateAndRepair(c.Context(), req.Workflow, opts)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.logger.DebugContext(c.Context(), "Validation request served",
		"workflow", req.Workflow.Name,
		"valid", result.Report.IsValid,
		"corrections", result.CorrectionCount,
	)

	response := ValidateResponse{ValidationReport: result.Report}
	if opts.AutoCorrect {
		response.Workflow = req.Workflow
	}

	return c.JSON(response)
}

// parseValidateRequest accepts either `{"workflow": ..., "options": ...}` or a bare graph.
func (h *APIHandlers) parseValidateRequest(c fiber.Ctx) (*ValidateRequest, error) {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || body[0] != '{' {
		return nil, errors.New("invalid JSON format: expected a workflow object")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, errors.New("invalid JSON format")
	}

	req := &ValidateRequest{}

	if _, wrapped := probe["workflow"]; wrapped {
		if err := json.Unmarshal(body, req); err != nil {
			return nil, errors.New("invalid JSON format: " + err.Error())
		}

		// Only the envelope is checked here; graph shape problems belong in the report.
		if err := h.validator.StructFiltered(req, envelopeOnly); err != nil {
			return nil, err
		}

		return req, nil
	}

	var graph models.WorkflowGraph
	if err := json.Unmarshal(body, &graph); err != nil {
		return nil, errors.New("invalid JSON format: " + err.Error())
	}

	req.Workflow = &graph

	return req, nil
}

// envelopeOnly skips every field nested below the request's own fields.
func envelopeOnly(ns []byte) bool {
	return bytes.Count(ns, []byte(".")) > 1
}

func resolveOptions(c fiber.Ctx, body ValidateOptions) (services.Options, error) {
	strict, err := queryBool(c, "strict", body.StrictMode)
	if err != nil {
		return services.Options{}, err
	}

	autoCorrect, err := queryBool(c, "auto_correct", body.AutoCorrect)
	if err != nil {
		return services.Options{}, err
	}

	return services.Options{StrictMode: strict, AutoCorrect: autoCorrect}, nil
}

func queryBool(c fiber.Ctx, key string, fallback *bool) (bool, error) {
	if raw := c.Query(key); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return false, errors.New(key + " must be a boolean")
		}

		return value, nil
	}

	if fallback != nil {
		return *fallback, nil
	}

	return false, nil
}

func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	types, err := h.nodeTypeService.List(c.Context(), c.Query("category"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NodeTypesResponse{NodeTypes: types, Total: len(types)})
}

// GetNodeType serves a single type. Type ids may contain slashes, so the route is a wildcard.
func (h *APIHandlers) GetNodeType(c fiber.Ctx) error {
	nodeType, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return badRequest(c, "Invalid node type")
	}

	info, err := h.nodeTypeService.Get(c.Context(), nodeType)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(info)
}

func (h *APIHandlers) GetCorrections(c fiber.Ctx) error {
	rules, err := h.nodeTypeService.Corrections(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(CorrectionsResponse{Corrections: rules, Total: len(rules)})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	contextCheck, ok := h.validationService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "flowmender is unhealthy"
	httpStatus := http.StatusServiceUnavailable

	if ok {
		status = "healthy"
		message = "flowmender is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry": contextCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
