package web

import (
	"net/http"
	"time"

	"github.com/arewm/pipegraph/pkg/services"
	"github.com/arewm/pipegraph/pkg/store"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	graphService *services.Graph
	validator    *validator.Validate
}

func NewAPIHandlers(graphService *services.Graph, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		graphService: graphService,
		validator:    validator,
	}
}

// BuildGraph computes a graph model directly from the request payload
// without touching the snapshot store.
func (h *APIHandlers) BuildGraph(c fiber.Ctx) error {
	var req BuildGraphRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	model, err := h.graphService.BuildGraph(c.Context(), services.BuildGraphRequest{
		PipelineRun:  req.PipelineRun,
		TaskRuns:     req.TaskRuns,
		PipelineSpec: req.PipelineSpec,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(model)
}

// GetRunGraph returns the graph model of a stored pipeline run.
func (h *APIHandlers) GetRunGraph(c fiber.Ctx) error {
	namespace, name := c.Params("namespace"), c.Params("name")
	if namespace == "" || name == "" {
		return badRequest(c, "Namespace and pipeline run name are required")
	}

	model, err := h.graphService.GraphForRun(c.Context(), namespace, name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(model)
}

// PutSnapshot stores or replaces a pipeline run snapshot.
func (h *APIHandlers) PutSnapshot(c fiber.Ctx) error {
	if err := validateSnapshotPayload(c.Body()); err != nil {
		return badRequest(c, err.Error())
	}

	var req SnapshotRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	namespace, name := c.Params("namespace"), c.Params("name")
	if req.PipelineRun.Namespace == "" {
		req.PipelineRun.Namespace = namespace
	}

	if req.PipelineRun.Namespace != namespace || req.PipelineRun.Name != name {
		return badRequest(c, "Snapshot payload does not match the request path")
	}

	err := h.graphService.SaveSnapshot(c.Context(), &store.Snapshot{
		PipelineRun: req.PipelineRun,
		TaskRuns:    req.TaskRuns,
		Revision:    req.Revision,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteRun removes a stored pipeline run snapshot.
func (h *APIHandlers) DeleteRun(c fiber.Ctx) error {
	namespace, name := c.Params("namespace"), c.Params("name")

	err := h.graphService.DeleteSnapshot(c.Context(), namespace, name)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListRuns summarizes the stored pipeline runs of a namespace.
func (h *APIHandlers) ListRuns(c fiber.Ctx) error {
	namespace := c.Params("namespace")

	summaries, err := h.graphService.ListRuns(c.Context(), namespace)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"runs":  summaries,
		"count": len(summaries),
	})
}

// GetTaskRunDisplay resolves the display identity of one task run.
func (h *APIHandlers) GetTaskRunDisplay(c fiber.Ctx) error {
	namespace, name := c.Params("namespace"), c.Params("name")
	taskRunName := c.Params("taskRunName")

	if taskRunName == "" {
		return badRequest(c, "Task run name is required")
	}

	display, err := h.graphService.TaskRunDisplay(c.Context(), namespace, name, taskRunName)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(display)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	storeCheck, ok := h.graphService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Pipegraph API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "Pipegraph API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"store": storeCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
