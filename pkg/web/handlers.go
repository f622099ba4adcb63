package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/scoutflow/scoutflow/pkg/draft"
	"github.com/scoutflow/scoutflow/pkg/eventbus"
	"github.com/scoutflow/scoutflow/pkg/events"
	"github.com/scoutflow/scoutflow/pkg/models"
	"github.com/scoutflow/scoutflow/pkg/persistence"
	"github.com/scoutflow/scoutflow/pkg/services"
)

type APIHandlers struct {
	workflowService *services.Workflow
	runService      *services.Run
	validator       *validator.Validate
	eventBus        eventbus.EventPublisher
	logger          *slog.Logger
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	runService *services.Run,
	validator *validator.Validate,
	eventBus eventbus.EventPublisher,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		runService:      runService,
		validator:       validator,
		eventBus:        eventBus,
		logger:          logger,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	workflow, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	form := req.ToDraft()
	if err := draft.Validate(form); err != nil {
		if validationErr, ok := asDraftError(err); ok {
			return draftError(c, validationErr)
		}

		return badRequest(c, err.Error())
	}

	form = draft.PrepareForSubmission(form)

	created, err := h.workflowService.Create(c.Context(), toWorkflow(form))
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publish(c, "workflow-"+formatID(created.ID), events.WorkflowCreated{
		BaseEvent:               events.NewBaseEvent(events.WorkflowCreatedEvent, created.ID),
		Title:                   created.Title,
		TargetCompaniesCategory: created.TargetCompaniesCategory,
		StageCount:              len(created.Data.Stages),
	})

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	var req UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.workflowService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	form := req.apply(draft.FromWorkflow(*existing))
	if err := draft.Validate(form); err != nil {
		if validationErr, ok := asDraftError(err); ok {
			return draftError(c, validationErr)
		}

		return badRequest(c, err.Error())
	}

	form = draft.PrepareForSubmission(form)

	updated, err := h.workflowService.Update(c.Context(), id, toWorkflow(form))
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publish(c, "workflow-"+formatID(updated.ID), events.WorkflowUpdated{
		BaseEvent:  events.NewBaseEvent(events.WorkflowUpdatedEvent, updated.ID),
		Title:      updated.Title,
		StageCount: len(updated.Data.Stages),
	})

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	if err := h.workflowService.Delete(c.Context(), id); err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	h.publish(c, "workflow-"+formatID(id), events.WorkflowDeleted{
		BaseEvent: events.NewBaseEvent(events.WorkflowDeletedEvent, id),
	})

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetWorkflowRuns(c fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	runs, err := h.runService.ListByWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(runs)
}

// RecordWorkflowRun ingests a run report from the execution engine. The raw
// payload is checked against the ingest schema before decoding so malformed
// engine output is rejected with the offending fields named.
func (h *APIHandlers) RecordWorkflowRun(c fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Workflow ID must be an integer")
	}

	body := c.Body()
	if err := validateRunPayload(body); err != nil {
		return badRequest(c, err.Error())
	}

	var run models.WorkflowRun
	if err := json.Unmarshal(body, &run); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	run.ID = 0
	run.WorkflowID = id

	recorded, err := h.runService.Record(c.Context(), &run)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publish(c, "workflow-"+formatID(id), events.RunRecorded{
		BaseEvent: events.NewBaseEvent(events.RunRecordedEvent, id),
		RunID:     recorded.ID,
		Status:    recorded.Status,
		Progress:  recorded.Progress(),
	})

	return c.Status(fiber.StatusCreated).JSON(recorded)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id, err := parseID(c.Params("id"))
	if err != nil {
		return badRequest(c, "Run ID must be an integer")
	}

	run, err := h.runService.FetchByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Scoutflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Scoutflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

// publish sends a lifecycle event. Delivery is best effort; a bus failure is
// logged and never fails the request that triggered it.
func (h *APIHandlers) publish(c fiber.Ctx, key string, event eventbus.Event) {
	if h.eventBus == nil {
		return
	}

	if err := h.eventBus.Publish(c.Context(), key, event); err != nil {
		h.logger.Warn("Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
