// Package main provides the Scoutflow API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/scoutflow/scoutflow/pkg/eventbus"
	"github.com/scoutflow/scoutflow/pkg/otelhelper"
	"github.com/scoutflow/scoutflow/pkg/persistence"
	"github.com/scoutflow/scoutflow/pkg/services"
	"github.com/scoutflow/scoutflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.persistence)
	runService := services.NewRun(a.persistence)

	handlers := web.NewAPIHandlers(workflowService, runService, a.validate, a.eventBus, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	if a.tracer != nil {
		app.Use(a.traceRequests)
	}

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Scoutflow API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Get("/:id/runs", handlers.GetWorkflowRuns)
	w.Post("/:id/runs", handlers.RecordWorkflowRun)

	app.Get("/runs/:id", handlers.GetRun)
	app.Get("/health", handlers.HealthCheck)

	return app
}

// traceRequests wraps every request in a span and records handler failures.
func (a *API) traceRequests(c fiber.Ctx) error {
	ctx, span := otelhelper.StartSpan(c.Context(), a.tracer, c.Method()+" "+c.Path(),
		attribute.String("http.method", c.Method()),
		attribute.String("http.target", c.Path()),
	)
	defer span.End()

	c.SetContext(ctx)

	err := c.Next()
	if err != nil {
		otelhelper.SetError(span, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", c.Response().StatusCode()))

	return err
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
