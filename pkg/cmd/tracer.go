package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/dukex/flowmender/pkg/otelhelper"
	"go.opentelemetry.io/otel/trace"
)

// NewTracer starts OTLP tracing when an exporter endpoint is configured in the environment.
// Without one it returns a nil tracer, which the services replace with the global no-op
// provider, and a shutdown function that does nothing.
//
// nolint:ireturn // Returning interface is intentional for OpenTelemetry tracing
func NewTracer(ctx context.Context, log *slog.Logger, serviceName string) (trace.Tracer, otelhelper.ShutdownFunc) {
	noop := func(context.Context) error { return nil }

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
		return nil, noop
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		log.Warn("Tracing disabled", "error", err)

		return nil, noop
	}

	log.Info("Tracing enabled", "service", serviceName)

	return tracer, shutdown
}
