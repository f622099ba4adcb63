package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/scoutflow/scoutflow/pkg/models"
)

// RunRepository stores each workflow run as <root>/runs/<id>.json.
type RunRepository struct {
	root string

	mu sync.Mutex // guards ID allocation and file writes
}

// NewRunRepository creates a new file-backed run repository.
func NewRunRepository(root string) *RunRepository {
	return &RunRepository{root: root}
}

func (r *RunRepository) dir() string {
	return path.Join(r.root, "runs")
}

// ListByWorkflow returns all runs of one workflow, newest first. Run IDs are
// allocated sequentially, so descending ID order is descending ingest order.
func (r *RunRepository) ListByWorkflow(ctx context.Context, workflowID int64) ([]*models.WorkflowRun, error) {
	ids, err := listIDs(r.dir())
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}

	runs := make([]*models.WorkflowRun, 0)

	for i := len(ids) - 1; i >= 0; i-- {
		run, err := r.GetByID(ctx, ids[i])
		if err != nil {
			return nil, err
		}

		if run != nil && run.WorkflowID == workflowID {
			runs = append(runs, run)
		}
	}

	return runs, nil
}

// GetByID loads one run, returning (nil, nil) when it does not exist.
func (r *RunRepository) GetByID(_ context.Context, id int64) (*models.WorkflowRun, error) {
	filePath := filepath.Clean(path.Join(r.dir(), formatID(id)+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
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

// Save writes a run to disk, allocating the next ID when it has none. As with
// workflows, the mutex covers both the directory scan and the write so a
// concurrent Save cannot observe the directory without the new ID and
// re-allocate it.
func (r *RunRepository) Save(_ context.Context, run *models.WorkflowRun) error {
	if err := os.MkdirAll(r.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == 0 {
		id, err := nextID(r.dir())
		if err != nil {
			return fmt.Errorf("failed to allocate run ID: %w", err)
		}

		run.ID = id
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run %d: %w", run.ID, err)
	}

	filePath := path.Join(r.dir(), formatID(run.ID)+".json")

	return os.WriteFile(filePath, data, 0600)
}
