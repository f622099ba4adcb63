// Package redis provides Redis persistence for workflows and runs. Records
// are JSON documents in string keys with set-based indexes, suitable for
// small deployments that already run Redis for other reasons.
package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/scoutflow/scoutflow/pkg/persistence"
)

const (
	workflowKeyPrefix = "scoutflow:workflows:"
	workflowIndexKey  = "scoutflow:workflows"
	workflowSeqKey    = "scoutflow:seq:workflow"

	runKeyPrefix      = "scoutflow:runs:"
	runIndexKeyPrefix = "scoutflow:workflow_runs:"
	runSeqKey         = "scoutflow:seq:run"
)

// Persistence implements persistence.Persistence on a Redis server.
type Persistence struct {
	client       *redis.Client
	workflowRepo *WorkflowRepository
	runRepo      *RunRepository
}

// NewPersistence connects to the Redis server addressed by redisURL
// (redis://[user:pass@]host:port/db).
func NewPersistence(redisURL string) (*Persistence, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	return &Persistence{
		client:       client,
		workflowRepo: NewWorkflowRepository(client),
		runRepo:      NewRunRepository(client),
	}, nil
}

// WorkflowRepository returns the workflow repository.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

// RunRepository returns the run repository.
func (p *Persistence) RunRepository() persistence.RunRepository {
	return p.runRepo
}

// HealthCheck pings the server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

// Close closes the client connection pool.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}
