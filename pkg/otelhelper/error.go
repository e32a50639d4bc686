package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError records err on the span and marks the span as failed.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.AddEvent("error_occurred", trace.WithAttributes(
		attrs...,
	))
}

// SetInvalid marks a span whose run finished with a report that holds errors. The run itself
// succeeded, so the span status stays unset.
func SetInvalid(span trace.Span, errorCount, warningCount int) {
	span.SetAttributes(
		attribute.Int(ErrorCountKey, errorCount),
		attribute.Int(WarningCountKey, warningCount),
	)
	span.AddEvent("workflow_invalid")
}
