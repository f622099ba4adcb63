package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	redis "github.com/redis/go-redis/v9"
	"github.com/scoutflow/scoutflow/pkg/models"
)

// WorkflowRepository stores workflows as JSON strings with a set index for
// listing and an INCR counter for ID allocation.
type WorkflowRepository struct {
	client *redis.Client
}

// NewWorkflowRepository creates a new Redis workflow repository.
func NewWorkflowRepository(client *redis.Client) *WorkflowRepository {
	return &WorkflowRepository{client: client}
}

// List returns all workflows ordered by ID.
func (r *WorkflowRepository) List(ctx context.Context) ([]*models.Workflow, error) {
	members, err := r.client.SMembers(ctx, workflowIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow index: %w", err)
	}

	ids, err := parseIDs(members)
	if err != nil {
		return nil, fmt.Errorf("corrupt workflow index: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(ids))

	for _, id := range ids {
		workflow, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if workflow != nil {
			workflows = append(workflows, workflow)
		}
	}

	return workflows, nil
}

// GetByID loads one workflow, returning (nil, nil) when absent.
func (r *WorkflowRepository) GetByID(ctx context.Context, id int64) (*models.Workflow, error) {
	body, err := r.client.Get(ctx, workflowKeyPrefix+formatID(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read workflow %d: %w", id, err)
	}

	var workflow models.Workflow

	if err := json.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %d: %w", id, err)
	}

	return &workflow, nil
}

// Save stores a workflow, allocating an ID from the sequence when needed.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.Workflow) error {
	if workflow.ID == 0 {
		id, err := r.client.Incr(ctx, workflowSeqKey).Result()
		if err != nil {
			return fmt.Errorf("failed to allocate workflow ID: %w", err)
		}

		workflow.ID = id
	}

	body, err := json.Marshal(workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %d: %w", workflow.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, workflowKeyPrefix+formatID(workflow.ID), body, 0)
	pipe.SAdd(ctx, workflowIndexKey, formatID(workflow.ID))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save workflow %d: %w", workflow.ID, err)
	}

	return nil
}

// Delete removes a workflow, its index entry, and every run recorded against
// it, matching the cascade the SQL backend gets from its foreign key. Absent
// workflows are a no-op.
func (r *WorkflowRepository) Delete(ctx context.Context, id int64) error {
	runIDs, err := r.client.SMembers(ctx, runIndexKeyPrefix+formatID(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to read run index for workflow %d: %w", id, err)
	}

	pipe := r.client.TxPipeline()

	for _, runID := range runIDs {
		pipe.Del(ctx, runKeyPrefix+runID)
	}

	pipe.Del(ctx, runIndexKeyPrefix+formatID(id))
	pipe.Del(ctx, workflowKeyPrefix+formatID(id))
	pipe.SRem(ctx, workflowIndexKey, formatID(id))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete workflow %d: %w", id, err)
	}

	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseIDs(members []string) ([]int64, error) {
	ids := make([]int64, 0, len(members))

	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}
