// Package draft implements the editable form representation of a workflow:
// the stage-collection editor, the ordered submission validator and the
// normalization that turns a draft into a wire-ready payload. All operations
// are pure; the caller owns the draft value and every operation returns a new
// one, so edit surfaces can diff and undo freely.
package draft

import "github.com/scoutflow/scoutflow/pkg/models"

// StageDraft is a stage under edit. ID is nil until submission time for
// stages created in the editor; the normalizer assigns it. Existing stages
// keep their persisted ID through the whole edit round trip.
type StageDraft struct {
	ID        *int64   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Queries   []string `json:"queries"`
	Threshold float64  `json:"threshold"`
}

// StageData is the stages container of a draft, mirroring the wire shape.
type StageData struct {
	Stages []StageDraft `json:"stages"`
}

// FormData is an in-progress, not-yet-submitted copy of a workflow's
// editable fields.
type FormData struct {
	Title                   string                   `json:"title"`
	TargetCompaniesCategory string                   `json:"target_companies_category"`
	IsScheduled             bool                     `json:"is_scheduled"`
	ScheduleFrequency       models.ScheduleFrequency `json:"schedule_frequency"`
	IsSandbox               bool                     `json:"is_sandbox"`
	Data                    StageData                `json:"data"`
}

// NewFormData returns the empty draft a create form starts from.
func NewFormData() FormData {
	return FormData{
		ScheduleFrequency: models.FrequencyDaily,
		Data:              StageData{Stages: []StageDraft{}},
	}
}

// FromWorkflow builds an edit draft from a persisted workflow. Stage and
// query slices are deep-copied so editing never reaches back into the source.
func FromWorkflow(workflow models.Workflow) FormData {
	stages := make([]StageDraft, len(workflow.Data.Stages))

	for i, stage := range workflow.Data.Stages {
		id := stage.ID
		stages[i] = StageDraft{
			ID:        &id,
			Name:      stage.Name,
			Queries:   append([]string(nil), stage.Queries...),
			Threshold: stage.Threshold,
		}
	}

	return FormData{
		Title:                   workflow.Title,
		TargetCompaniesCategory: workflow.TargetCompaniesCategory,
		IsScheduled:             workflow.IsScheduled.Bool(),
		ScheduleFrequency:       workflow.ScheduleFrequency,
		IsSandbox:               workflow.IsSandbox.Bool(),
		Data:                    StageData{Stages: stages},
	}
}

// ToWorkflowData converts a fully normalized draft into the canonical stage
// list. Callers must run PrepareForSubmission first so every stage has an ID.
func (f FormData) ToWorkflowData() models.WorkflowData {
	stages := make([]models.WorkflowStage, len(f.Data.Stages))

	for i, stage := range f.Data.Stages {
		var id int64
		if stage.ID != nil {
			id = *stage.ID
		}

		stages[i] = models.WorkflowStage{
			ID:        id,
			Name:      stage.Name,
			Queries:   append([]string(nil), stage.Queries...),
			Threshold: stage.Threshold,
		}
	}

	return models.WorkflowData{Stages: stages}
}

// cloneStages deep-copies a stage slice; the editor operations build every
// result on top of this so inputs are never aliased.
func cloneStages(stages []StageDraft) []StageDraft {
	out := make([]StageDraft, len(stages))

	for i, stage := range stages {
		copied := stage
		copied.Queries = append([]string(nil), stage.Queries...)

		if stage.ID != nil {
			id := *stage.ID
			copied.ID = &id
		}

		out[i] = copied
	}

	return out
}
