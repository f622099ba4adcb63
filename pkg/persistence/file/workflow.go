package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/scoutflow/scoutflow/pkg/models"
)

// WorkflowRepository stores each workflow as <root>/workflows/<id>.json.
type WorkflowRepository struct {
	root string

	mu sync.Mutex // guards ID allocation and file writes
}

// NewWorkflowRepository creates a new file-backed workflow repository.
func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (r *WorkflowRepository) dir() string {
	return path.Join(r.root, "workflows")
}

// List returns all workflows ordered by ID.
func (r *WorkflowRepository) List(ctx context.Context) ([]*models.Workflow, error) {
	ids, err := listIDs(r.dir())
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
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

// GetByID loads one workflow, returning (nil, nil) when it does not exist.
func (r *WorkflowRepository) GetByID(_ context.Context, id int64) (*models.Workflow, error) {
	filePath := filepath.Clean(path.Join(r.dir(), formatID(id)+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
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

// Save writes a workflow to disk, allocating the next ID when it has none.
// The mutex stays held until the file carrying a freshly allocated ID is on
// disk; nextID scans the directory, so releasing earlier would let a
// concurrent Save re-allocate the same ID and overwrite the record.
func (r *WorkflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	if err := os.MkdirAll(r.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if workflow.ID == 0 {
		id, err := nextID(r.dir())
		if err != nil {
			return fmt.Errorf("failed to allocate workflow ID: %w", err)
		}

		workflow.ID = id
	}

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %d: %w", workflow.ID, err)
	}

	filePath := path.Join(r.dir(), formatID(workflow.ID)+".json")

	return os.WriteFile(filePath, data, 0600)
}

// Delete removes a workflow file and every run recorded against it, matching
// the cascade the SQL backend gets from its foreign key. Deleting an absent
// workflow is a no-op.
func (r *WorkflowRepository) Delete(_ context.Context, id int64) error {
	err := os.Remove(path.Join(r.dir(), formatID(id)+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete workflow %d: %w", id, err)
	}

	return r.deleteRuns(id)
}

// deleteRuns removes the run files belonging to one workflow.
func (r *WorkflowRepository) deleteRuns(workflowID int64) error {
	runsDir := path.Join(r.root, "runs")

	ids, err := listIDs(runsDir)
	if err != nil {
		return fmt.Errorf("failed to list run files: %w", err)
	}

	for _, id := range ids {
		filePath := filepath.Clean(path.Join(runsDir, formatID(id)+".json"))

		body, err := os.ReadFile(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return fmt.Errorf("failed to read run %d: %w", id, err)
		}

		var run models.WorkflowRun

		if err := json.Unmarshal(body, &run); err != nil {
			return fmt.Errorf("failed to unmarshal run %d: %w", id, err)
		}

		if run.WorkflowID != workflowID {
			continue
		}

		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete run %d: %w", id, err)
		}
	}

	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// listIDs returns the numeric IDs of all JSON documents in dir, sorted.
func listIDs(dir string) ([]int64, error) {
	files, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(files))

	for _, file := range files {
		id, err := strconv.ParseInt(file[:len(file)-len(".json")], 10, 64)
		if err != nil {
			continue // not one of ours
		}

		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

// nextID allocates monotonically above the largest ID on disk.
func nextID(dir string) (int64, error) {
	ids, err := listIDs(dir)
	if err != nil {
		return 0, err
	}

	var max int64

	for _, id := range ids {
		if id > max {
			max = id
		}
	}

	return max + 1, nil
}
