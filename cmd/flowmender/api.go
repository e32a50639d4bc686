// Package main provides the flowmender command line and API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/flowmender/pkg/registry"
	"github.com/dukex/flowmender/pkg/services"
	"github.com/dukex/flowmender/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger   *slog.Logger
	registry *registry.Registry
	tracer   trace.Tracer
	validate *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	registry *registry.Registry,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:   logger,
		registry: registry,
		tracer:   tracer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	validationService := services.NewValidation(a.logger, a.registry, a.tracer)
	nodeTypeService := services.NewNodeTypes(a.registry)

	handlers := web.NewAPIHandlers(a.logger.With("component", "web"), validationService, nodeTypeService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, handlers.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("flowmender API")
	})

	app.Post("/workflows/validate", handlers.ValidateWorkflow)
	app.Get("/node-types", handlers.GetNodeTypes)
	app.Get("/node-types/*", handlers.GetNodeType)
	app.Get("/corrections", handlers.GetCorrections)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
