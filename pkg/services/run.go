package services

import (
	"context"
	"fmt"

	"github.com/scoutflow/scoutflow/pkg/models"
	"github.com/scoutflow/scoutflow/pkg/persistence"
)

// ErrRunNotFound is returned when a workflow run is not found.
var ErrRunNotFound = persistence.ErrRunNotFound

// Run serves workflow run history. Runs are produced by the external
// execution engine and ingested through Record; the console never mutates
// their content.
type Run struct {
	persistence persistence.Persistence
}

// NewRun creates a new run service.
func NewRun(persistence persistence.Persistence) *Run {
	return &Run{persistence: persistence}
}

// ListByWorkflow returns the run history of one workflow. The workflow must
// exist.
func (r *Run) ListByWorkflow(ctx context.Context, workflowID int64) ([]*models.WorkflowRun, error) {
	workflow, err := r.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, persistence.NewWorkflowError("ListByWorkflow", workflowID, ErrWorkflowNotFound)
	}

	runs, err := r.persistence.RunRepository().ListByWorkflow(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// FetchByID retrieves a run by its ID.
func (r *Run) FetchByID(ctx context.Context, id int64) (*models.WorkflowRun, error) {
	run, err := r.persistence.RunRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if run == nil {
		return nil, persistence.NewRunError("FetchByID", id, ErrRunNotFound)
	}

	return run, nil
}

// Record ingests a run report from the execution engine, enforcing the run
// accounting invariants and the existence of the parent workflow.
func (r *Run) Record(ctx context.Context, run *models.WorkflowRun) (*models.WorkflowRun, error) {
	if run == nil {
		return nil, NewValidationError("Record", "run is required", ErrRunNil)
	}

	if err := run.Validate(); err != nil {
		return nil, NewValidationError("Record", err.Error(), err)
	}

	workflow, err := r.persistence.WorkflowRepository().GetByID(ctx, run.WorkflowID)
	if err != nil {
		return nil, err
	}

	if workflow == nil {
		return nil, persistence.NewWorkflowError("Record", run.WorkflowID, ErrWorkflowNotFound)
	}

	if err := r.persistence.RunRepository().Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	return run, nil
}
