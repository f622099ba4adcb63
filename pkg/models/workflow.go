// Package models defines the core domain models for company-evaluation workflows.
package models

// WorkflowStage is one ordered phase of a workflow. Each stage asks a set of
// free-text questions against a target company and passes or fails it against
// the threshold.
type WorkflowStage struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"      validate:"required"`
	Queries   []string `json:"queries"   validate:"required,min=1,dive,required"`
	Threshold float64  `json:"threshold" validate:"gte=0,lte=1"`
}

// WorkflowData holds the ordered stage list of a workflow. Slice order is
// evaluation order; stage IDs are unique within one workflow once persisted.
type WorkflowData struct {
	Stages []WorkflowStage `json:"stages"`
}

// Workflow is a named, schedulable multi-stage evaluation definition targeting
// one company category. IsScheduled and IsSandbox are FlexBool so that loosely
// typed backends ("true"/"false" strings) normalize to native booleans at the
// decode boundary.
type Workflow struct {
	ID                      int64             `json:"id"`
	Title                   string            `json:"title"                     validate:"required"`
	TargetCompaniesCategory string            `json:"target_companies_category" validate:"required"`
	IsScheduled             FlexBool          `json:"is_scheduled"`
	ScheduleFrequency       ScheduleFrequency `json:"schedule_frequency"`
	IsSandbox               FlexBool          `json:"is_sandbox"`
	Data                    WorkflowData      `json:"data"`
}

// Clone returns a deep copy of the workflow, safe to mutate independently.
func (w Workflow) Clone() Workflow {
	out := w
	out.Data.Stages = make([]WorkflowStage, len(w.Data.Stages))

	for i, stage := range w.Data.Stages {
		copied := stage
		copied.Queries = append([]string(nil), stage.Queries...)
		out.Data.Stages[i] = copied
	}

	return out
}

// StageByID returns the stage with the given ID, or nil if absent.
func (w *Workflow) StageByID(id int64) *WorkflowStage {
	for i := range w.Data.Stages {
		if w.Data.Stages[i].ID == id {
			return &w.Data.Stages[i]
		}
	}

	return nil
}
