// Package validation checks workflow graphs against node type, parameter, connection and
// credential contracts.
package validation

import (
	"log/slog"
	"reflect"
	"strings"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/go-playground/validator/v10"
)

// Options tune a validation run.
type Options struct {
	// StrictMode promotes every warning to an error.
	StrictMode bool
}

// GraphValidator validates graphs against a registry. It keeps no per-graph state, so one
// instance can serve concurrent calls on distinct graphs.
type GraphValidator struct {
	logger   *slog.Logger
	registry *registry.Registry
	validate *validator.Validate
}

// NewGraphValidator creates a validator bound to a registry.
func NewGraphValidator(log *slog.Logger, reg *registry.Registry) *GraphValidator {
	if log == nil {
		log = slog.Default()
	}

	return &GraphValidator{
		logger:   log,
		registry: reg,
		validate: newStructValidator(),
	}
}

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	// registering a fresh tag on a new instance cannot fail
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		return models.IsFinite(fl.Field().Float())
	})

	return v
}

// Validate runs every pass over the graph and returns a report. Data-shape problems never
// cause a panic or an error return; they are reported as issues.
func (v *GraphValidator) Validate(graph *models.WorkflowGraph, opts Options) *models.ValidationReport {
	report := models.NewValidationReport()

	if graph == nil {
		report.Add(schemaError("", "workflow graph is nil"))
		report.Finalize(0, 0)

		return report
	}

	if !v.registry.Ready() {
		report.Add(schemaError("", "validation context is not initialized"))
		report.Finalize(0, 0)

		return report
	}

	run := &pass{
		registry: v.registry,
		graph:    graph,
		report:   report,
		validate: v.validate,
	}

	run.structure()
	run.nodeTypes()
	run.parameters()
	run.schedules()
	run.connections()
	run.credentials()

	if opts.StrictMode {
		report.PromoteWarnings()
	}

	report.Finalize(len(graph.Nodes), graph.ConnectionCount())

	v.logger.Debug("Validated workflow graph",
		"workflow", graph.Name,
		"errors", report.Summary.TotalErrors,
		"warnings", report.Summary.TotalWarnings,
		"strict", opts.StrictMode,
	)

	return report
}

// pass carries the state of one Validate call.
type pass struct {
	registry *registry.Registry
	graph    *models.WorkflowGraph
	report   *models.ValidationReport
	validate *validator.Validate
}

// nodes yields the non-nil nodes in declaration order.
func (p *pass) nodes() []*models.WorkflowNode {
	nodes := make([]*models.WorkflowNode, 0, len(p.graph.Nodes))

	for _, node := range p.graph.Nodes {
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	return nodes
}

func schemaError(nodeID, message string) models.ValidationIssue {
	return models.ValidationIssue{
		Category: models.CategorySchema,
		Severity: models.SeverityError,
		NodeID:   nodeID,
		Message:  message,
	}
}

func issue(category models.IssueCategory, severity models.Severity, nodeID, message string) models.ValidationIssue {
	return models.ValidationIssue{
		Category: category,
		Severity: severity,
		NodeID:   nodeID,
		Message:  message,
	}
}
