// Package persistence provides the storage abstraction for workflows and
// workflow runs.
package persistence

import (
	"context"

	"github.com/scoutflow/scoutflow/pkg/models"
)

// WorkflowRepository stores workflow definitions. Save assigns an ID when the
// workflow has none; GetByID returns (nil, nil) when the workflow is absent.
type WorkflowRepository interface {
	List(ctx context.Context) ([]*models.Workflow, error)
	GetByID(ctx context.Context, id int64) (*models.Workflow, error)
	Save(ctx context.Context, workflow *models.Workflow) error
	Delete(ctx context.Context, id int64) error
}

// RunRepository stores workflow run records ingested from the execution
// engine. Runs are append-mostly: Save either inserts a new record or
// replaces an in-progress one wholesale. ListByWorkflow returns runs newest
// first.
type RunRepository interface {
	ListByWorkflow(ctx context.Context, workflowID int64) ([]*models.WorkflowRun, error)
	GetByID(ctx context.Context, id int64) (*models.WorkflowRun, error)
	Save(ctx context.Context, run *models.WorkflowRun) error
}

// Persistence bundles the repositories behind one backend.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	RunRepository() RunRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
