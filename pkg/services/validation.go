package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/flowmender/pkg/metrics"
	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/otelhelper"
	"github.com/dukex/flowmender/pkg/registry"
	"github.com/dukex/flowmender/pkg/repair"
	"github.com/dukex/flowmender/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Options selects what a validation request does.
type Options struct {
	StrictMode  bool `json:"strictMode"`
	AutoCorrect bool `json:"autoCorrect"`
}

// Result holds the authoritative report of a run and the number of corrections applied.
type Result struct {
	Report          *models.ValidationReport
	CorrectionCount int
}

// Validation runs validate, repair and re-validate against a single registry.
type Validation struct {
	logger    *slog.Logger
	registry  *registry.Registry
	validator *validation.GraphValidator
	engine    *repair.Engine
	tracer    trace.Tracer
}

// NewValidation creates a new validation service. A nil tracer falls back to the global
// tracer provider.
func NewValidation(log *slog.Logger, reg *registry.Registry, tracer trace.Tracer) *Validation {
	if log == nil {
		log = slog.Default()
	}

	if tracer == nil {
		tracer = otel.Tracer("flowmender")
	}

	return &Validation{
		logger:    log,
		registry:  reg,
		validator: validation.NewGraphValidator(log.With("component", "validator"), reg),
		engine:    repair.NewEngine(log.With("component", "repair"), reg),
		tracer:    tracer,
	}
}

// HealthCheck reports whether the validation context is ready.
func (v *Validation) HealthCheck(_ context.Context) (string, bool) {
	if !v.registry.Ready() {
		return "Validation context not initialized", false
	}

	return "Validation context is ready", true
}

// Validate checks the graph without changing it.
func (v *Validation) Validate(ctx context.Context, graph *models.WorkflowGraph, strict bool) (*Result, error) {
	return v.ValidateAndRepair(ctx, graph, Options{StrictMode: strict})
}

// ValidateAndRepair validates the graph and, when AutoCorrect is set, repairs it in place and
// validates it again. The report of the last pass is authoritative. Errors are returned only
// when ctx is done; problems with the graph itself are always reported as issues.
func (v *Validation) ValidateAndRepair(ctx context.Context, graph *models.WorkflowGraph, opts Options) (*Result, error) {
	start := time.Now()

	ctx, span := otelhelper.StartSpan(ctx, v.tracer, "validation.validate_and_repair",
		attribute.Bool(otelhelper.StrictModeKey, opts.StrictMode),
		attribute.Bool(otelhelper.AutoCorrectKey, opts.AutoCorrect),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("validation aborted: %w", err)
	}

	if graph != nil {
		span.SetAttributes(
			attribute.String(otelhelper.WorkflowNameKey, graph.Name),
			attribute.Int(otelhelper.NodeCountKey, len(graph.Nodes)),
			attribute.Int(otelhelper.ConnectionCountKey, graph.ConnectionCount()),
		)
	}

	validateOpts := validation.Options{StrictMode: opts.StrictMode}
	report := v.validator.Validate(graph, validateOpts)

	var applied []models.Correction

	if opts.AutoCorrect && graph != nil {
		if err := ctx.Err(); err != nil {
			otelhelper.SetError(span, err)

			return nil, fmt.Errorf("validation aborted before repair: %w", err)
		}

		applied = v.engine.Apply(graph)
		if len(applied) > 0 {
			span.AddEvent("graph_repaired", trace.WithAttributes(attribute.Int(otelhelper.CorrectionCountKey, len(applied))))
			report = v.validator.Validate(graph, validateOpts)
		}

		report.Corrections = len(applied)
		report.AppliedCorrections = applied
		metrics.RecordCorrections(applied)
	}

	if !report.IsValid {
		otelhelper.SetInvalid(span, report.Summary.TotalErrors, report.Summary.TotalWarnings)
	}

	metrics.RecordReport(report, opts.StrictMode, time.Since(start))

	v.logger.Info("Validated workflow",
		"valid", report.IsValid,
		"errors", report.Summary.TotalErrors,
		"warnings", report.Summary.TotalWarnings,
		"corrections", len(applied),
	)

	return &Result{
		Report:          report,
		CorrectionCount: len(applied),
	}, nil
}
