// Package file provides file-based persistence for workflows and runs. It is
// meant for local development and tests; every record is one JSON document on
// disk.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/scoutflow/scoutflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of a directory tree:
// <root>/workflows/<id>.json and <root>/runs/<id>.json.
type Persistence struct {
	root         string
	workflowRepo *WorkflowRepository
	runRepo      *RunRepository
}

// NewPersistence creates a file persistence rooted at the given directory.
// A file:// prefix on root is tolerated and stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.TrimPrefix(root, "file://")

	return &Persistence{
		root:         cleanRoot,
		workflowRepo: NewWorkflowRepository(cleanRoot),
		runRepo:      NewRunRepository(cleanRoot),
	}
}

// WorkflowRepository returns the workflow repository.
func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return p.workflowRepo
}

// RunRepository returns the run repository.
func (p *Persistence) RunRepository() persistence.RunRepository {
	return p.runRepo
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close is a no-op for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}
