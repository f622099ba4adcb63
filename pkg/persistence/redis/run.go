package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/scoutflow/scoutflow/pkg/models"
)

// RunRepository stores workflow runs as JSON strings with a per-workflow set
// index.
type RunRepository struct {
	client *redis.Client
}

// NewRunRepository creates a new Redis run repository.
func NewRunRepository(client *redis.Client) *RunRepository {
	return &RunRepository{client: client}
}

// ListByWorkflow returns all runs of one workflow, newest first. Run IDs come
// from a sequence, so descending ID order is descending ingest order.
func (r *RunRepository) ListByWorkflow(ctx context.Context, workflowID int64) ([]*models.WorkflowRun, error) {
	members, err := r.client.SMembers(ctx, runIndexKeyPrefix+formatID(workflowID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run index: %w", err)
	}

	ids, err := parseIDs(members)
	if err != nil {
		return nil, fmt.Errorf("corrupt run index: %w", err)
	}

	runs := make([]*models.WorkflowRun, 0, len(ids))

	for i := len(ids) - 1; i >= 0; i-- {
		run, err := r.GetByID(ctx, ids[i])
		if err != nil {
			return nil, err
		}

		if run != nil {
			runs = append(runs, run)
		}
	}

	return runs, nil
}

// GetByID loads one run, returning (nil, nil) when absent.
func (r *RunRepository) GetByID(ctx context.Context, id int64) (*models.WorkflowRun, error) {
	body, err := r.client.Get(ctx, runKeyPrefix+formatID(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read run %d: %w", id, err)
	}

	var run models.WorkflowRun

	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %d: %w", id, err)
	}

	return &run, nil
}

// Save stores a run, allocating an ID from the sequence when needed.
func (r *RunRepository) Save(ctx context.Context, run *models.WorkflowRun) error {
	if run.ID == 0 {
		id, err := r.client.Incr(ctx, runSeqKey).Result()
		if err != nil {
			return fmt.Errorf("failed to allocate run ID: %w", err)
		}

		run.ID = id
	}

	body, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run %d: %w", run.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, runKeyPrefix+formatID(run.ID), body, 0)
	pipe.SAdd(ctx, runIndexKeyPrefix+formatID(run.WorkflowID), formatID(run.ID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run %d: %w", run.ID, err)
	}

	return nil
}
