package services

import (
	"context"
	"fmt"

	"github.com/scoutflow/scoutflow/pkg/models"
	"github.com/scoutflow/scoutflow/pkg/persistence"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow implements workflow definition management on top of a persistence
// backend.
type Workflow struct {
	persistence persistence.Persistence
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(persistence persistence.Persistence) *Workflow {
	return &Workflow{persistence: persistence}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := w.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all workflow definitions.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.WorkflowRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id int64) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, persistence.NewWorkflowError("FetchByID", id, ErrWorkflowNotFound)
	}

	return workflow, nil
}

// Create validates and persists a new workflow definition.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if err := w.checkInvariants("Create", workflow); err != nil {
		return nil, err
	}

	workflow.ID = 0 // the persistence layer assigns IDs

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	return workflow, nil
}

// Update replaces an existing workflow definition. The edit round trip always
// submits the full definition; stages are never persisted individually.
func (w *Workflow) Update(ctx context.Context, id int64, workflow *models.Workflow) (*models.Workflow, error) {
	if err := w.checkInvariants("Update", workflow); err != nil {
		return nil, err
	}

	existing, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return nil, persistence.NewWorkflowError("Update", id, ErrWorkflowNotFound)
	}

	workflow.ID = id

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	return workflow, nil
}

// Delete removes a workflow by its ID.
func (w *Workflow) Delete(ctx context.Context, id int64) error {
	existing, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing == nil {
		return persistence.NewWorkflowError("Delete", id, ErrWorkflowNotFound)
	}

	if err := w.persistence.WorkflowRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	return nil
}

// checkInvariants enforces the entity-level rules the form validator cannot
// see: category membership, frequency canonicality and stage ID uniqueness.
func (w *Workflow) checkInvariants(op string, workflow *models.Workflow) error {
	if workflow == nil {
		return NewValidationError(op, "workflow is required", ErrWorkflowNil)
	}

	if !models.ValidCategory(workflow.TargetCompaniesCategory) {
		return NewValidationError(op,
			fmt.Sprintf("unknown category %q", workflow.TargetCompaniesCategory),
			ErrInvalidCategory)
	}

	if !workflow.ScheduleFrequency.Valid() {
		return NewValidationError(op,
			fmt.Sprintf("unknown schedule frequency %d", workflow.ScheduleFrequency),
			ErrInvalidFrequency)
	}

	seen := make(map[int64]struct{}, len(workflow.Data.Stages))

	for _, stage := range workflow.Data.Stages {
		if _, dup := seen[stage.ID]; dup {
			return NewValidationError(op,
				fmt.Sprintf("stage ID %d appears twice", stage.ID),
				ErrDuplicateStageID)
		}

		seen[stage.ID] = struct{}{}
	}

	return nil
}
