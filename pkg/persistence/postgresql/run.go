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

// RunRepository handles workflow run rows in the workflow_runs table.
type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunRepository creates a new PostgreSQL run repository.
func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{db: db, logger: logger}
}

const runColumns = `
	id
  , workflow_id
  , target_companies_category
  , status
  , data
  , started_at
  , completed_at
`

// ListByWorkflow returns all runs of one workflow, newest first.
func (r *RunRepository) ListByWorkflow(ctx context.Context, workflowID int64) ([]*models.WorkflowRun, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+runColumns+"FROM workflow_runs WHERE workflow_id = $1 ORDER BY started_at DESC",
		workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	runs := make([]*models.WorkflowRun, 0)

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetByID returns one run, or (nil, nil) when absent.
func (r *RunRepository) GetByID(ctx context.Context, id int64) (*models.WorkflowRun, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT"+runColumns+"FROM workflow_runs WHERE id = $1", id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return run, nil
}

// Save inserts a new run (ID 0) or replaces an in-progress record wholesale.
func (r *RunRepository) Save(ctx context.Context, run *models.WorkflowRun) error {
	dataJSON, err := json.Marshal(run.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal run data: %w", err)
	}

	if run.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO workflow_runs
				(workflow_id, target_companies_category, status, data, started_at, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`,
			run.WorkflowID,
			run.TargetCompaniesCategory,
			string(run.Status),
			dataJSON,
			run.StartedAt,
			run.CompletedAt,
		).Scan(&run.ID)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE workflow_runs SET
			status = $2,
			data = $3,
			completed_at = $4
		WHERE id = $1
	`,
		run.ID,
		string(run.Status),
		dataJSON,
		run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update run %d: %w", run.ID, err)
	}

	return nil
}

func scanRun(row rowScanner) (*models.WorkflowRun, error) {
	var (
		run         models.WorkflowRun
		status      string
		dataJSON    []byte
		completedAt sql.NullTime
	)

	err := row.Scan(
		&run.ID,
		&run.WorkflowID,
		&run.TargetCompaniesCategory,
		&status,
		&dataJSON,
		&run.StartedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Status = models.RunStatus(status)

	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}

	if err := json.Unmarshal(dataJSON, &run.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run data: %w", err)
	}

	return &run, nil
}
