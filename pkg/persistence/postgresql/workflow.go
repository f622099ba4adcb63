package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/scoutflow/scoutflow/pkg/models"
)

// WorkflowRepository handles workflow rows in the workflows table.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new PostgreSQL workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , title
  , target_companies_category
  , is_scheduled
  , schedule_frequency
  , is_sandbox
  , data
`

// List returns all workflows ordered by ID.
func (r *WorkflowRepository) List(ctx context.Context) ([]*models.Workflow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+workflowColumns+"FROM workflows ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	return workflows, nil
}

// GetByID returns one workflow, or (nil, nil) when absent.
func (r *WorkflowRepository) GetByID(ctx context.Context, id int64) (*models.Workflow, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT"+workflowColumns+"FROM workflows WHERE id = $1", id)

	workflow, err := scanWorkflow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	return workflow, nil
}

// Save inserts a new workflow (ID 0) or replaces an existing row wholesale.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	dataJSON, err := json.Marshal(workflow.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow data: %w", err)
	}

	if workflow.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO workflows
				(title, target_companies_category, is_scheduled, schedule_frequency, is_sandbox, data)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`,
			workflow.Title,
			workflow.TargetCompaniesCategory,
			workflow.IsScheduled.Bool(),
			int64(workflow.ScheduleFrequency),
			workflow.IsSandbox.Bool(),
			dataJSON,
		).Scan(&workflow.ID)
		if err != nil {
			return fmt.Errorf("failed to insert workflow: %w", err)
		}

		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE workflows SET
			title = $2,
			target_companies_category = $3,
			is_scheduled = $4,
			schedule_frequency = $5,
			is_sandbox = $6,
			data = $7,
			updated_at = NOW()
		WHERE id = $1
	`,
		workflow.ID,
		workflow.Title,
		workflow.TargetCompaniesCategory,
		workflow.IsScheduled.Bool(),
		int64(workflow.ScheduleFrequency),
		workflow.IsSandbox.Bool(),
		dataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update workflow %d: %w", workflow.ID, err)
	}

	return nil
}

// Delete removes a workflow row; runs cascade at the schema level.
func (r *WorkflowRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete workflow %d: %w", id, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	var (
		workflow  models.Workflow
		scheduled bool
		sandbox   bool
		frequency int64
		dataJSON  []byte
	)

	err := row.Scan(
		&workflow.ID,
		&workflow.Title,
		&workflow.TargetCompaniesCategory,
		&scheduled,
		&frequency,
		&sandbox,
		&dataJSON,
	)
	if err != nil {
		return nil, err
	}

	workflow.IsScheduled = models.FlexBool(scheduled)
	workflow.IsSandbox = models.FlexBool(sandbox)
	workflow.ScheduleFrequency = models.ScheduleFrequency(frequency)

	if err := json.Unmarshal(dataJSON, &workflow.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow data: %w", err)
	}

	return &workflow, nil
}
