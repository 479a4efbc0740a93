// Package main provides the Pipegraph API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/arewm/pipegraph/pkg/services"
	"github.com/arewm/pipegraph/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger       *slog.Logger
	graphService *services.Graph
	validate     *validator.Validate
}

func NewAPI(logger *slog.Logger, graphService *services.Graph) *API {
	return &API{
		logger:       logger,
		graphService: graphService,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.graphService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Pipegraph API")
	})

	v1 := app.Group("/v1")
	v1.Post("/graph", handlers.BuildGraph)

	runs := v1.Group("/namespaces/:namespace/pipeline-runs")
	runs.Get("/", handlers.ListRuns)
	runs.Get("/:name/graph", handlers.GetRunGraph)
	runs.Put("/:name/snapshot", handlers.PutSnapshot)
	runs.Delete("/:name", handlers.DeleteRun)
	runs.Get("/:name/task-runs/:taskRunName/display", handlers.GetTaskRunDisplay)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
