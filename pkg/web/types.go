// Package web provides the HTTP handlers and REST types of the console API.
package web

import (
	"github.com/scoutflow/scoutflow/pkg/draft"
	"github.com/scoutflow/scoutflow/pkg/models"
)

// StageRequest is one evaluation stage in a workflow payload. ID is absent for
// stages created in the editor; the draft normalizer assigns it.
type StageRequest struct {
	ID        *int64   `json:"id,omitempty"`
	Name      string   `json:"name"`
	Queries   []string `json:"queries"`
	Threshold float64  `json:"threshold" validate:"gte=0,lte=1"`
}

// StageRequestData mirrors the nested data object of the wire format.
type StageRequestData struct {
	Stages []StageRequest `json:"stages" validate:"dive"`
}

// CreateWorkflowRequest is the request body for creating a workflow. The
// boolean fields tolerate the string forms some engine integrations still
// send; FlexBool folds them to native booleans at the decode boundary.
type CreateWorkflowRequest struct {
	Title                   string                   `json:"title"                     validate:"required"`
	TargetCompaniesCategory string                   `json:"target_companies_category" validate:"required"`
	IsScheduled             models.FlexBool          `json:"is_scheduled"`
	ScheduleFrequency       models.ScheduleFrequency `json:"schedule_frequency"`
	IsSandbox               models.FlexBool          `json:"is_sandbox"`
	Data                    StageRequestData         `json:"data"`
}

// UpdateWorkflowRequest is the request body for updating a workflow. All
// fields are optional; absent fields keep their persisted value. When data is
// present the stage list is replaced wholesale, never merged stage by stage.
type UpdateWorkflowRequest struct {
	Title                   *string                   `json:"title,omitempty"`
	TargetCompaniesCategory *string                   `json:"target_companies_category,omitempty"`
	IsScheduled             *models.FlexBool          `json:"is_scheduled,omitempty"`
	ScheduleFrequency       *models.ScheduleFrequency `json:"schedule_frequency,omitempty"`
	IsSandbox               *models.FlexBool          `json:"is_sandbox,omitempty"`
	Data                    *StageRequestData         `json:"data,omitempty"`
}

// ToDraft converts the request into the editable form representation so the
// ordered submission rules run exactly as they do in the editor.
func (r CreateWorkflowRequest) ToDraft() draft.FormData {
	frequency := r.ScheduleFrequency
	if frequency == 0 {
		// absent frequency falls back to the editor default
		frequency = models.FrequencyDaily
	}

	return draft.FormData{
		Title:                   r.Title,
		TargetCompaniesCategory: r.TargetCompaniesCategory,
		IsScheduled:             bool(r.IsScheduled),
		ScheduleFrequency:       frequency,
		IsSandbox:               bool(r.IsSandbox),
		Data:                    draft.StageData{Stages: toStageDrafts(r.Data.Stages)},
	}
}

func toStageDrafts(stages []StageRequest) []draft.StageDraft {
	out := make([]draft.StageDraft, len(stages))

	for i, stage := range stages {
		var id *int64
		if stage.ID != nil {
			v := *stage.ID
			id = &v
		}

		out[i] = draft.StageDraft{
			ID:        id,
			Name:      stage.Name,
			Queries:   append([]string(nil), stage.Queries...),
			Threshold: stage.Threshold,
		}
	}

	return out
}

// apply merges the partial update onto an edit draft of the existing workflow.
func (r UpdateWorkflowRequest) apply(form draft.FormData) draft.FormData {
	if r.Title != nil {
		form.Title = *r.Title
	}

	if r.TargetCompaniesCategory != nil {
		form.TargetCompaniesCategory = *r.TargetCompaniesCategory
	}

	if r.IsScheduled != nil {
		form.IsScheduled = bool(*r.IsScheduled)
	}

	if r.ScheduleFrequency != nil {
		form.ScheduleFrequency = *r.ScheduleFrequency
	}

	if r.IsSandbox != nil {
		form.IsSandbox = bool(*r.IsSandbox)
	}

	if r.Data != nil {
		form.Data = draft.StageData{Stages: toStageDrafts(r.Data.Stages)}
	}

	return form
}

// toWorkflow builds the persistable entity from a normalized draft.
func toWorkflow(form draft.FormData) *models.Workflow {
	return &models.Workflow{
		Title:                   form.Title,
		TargetCompaniesCategory: form.TargetCompaniesCategory,
		IsScheduled:             models.FlexBool(form.IsScheduled),
		ScheduleFrequency:       form.ScheduleFrequency,
		IsSandbox:               models.FlexBool(form.IsSandbox),
		Data:                    form.ToWorkflowData(),
	}
}
