package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRun() *WorkflowRun {
	return &WorkflowRun{
		ID:                      1,
		WorkflowID:              10,
		TargetCompaniesCategory: "Technology",
		Status:                  RunStatusInProgress,
		Data: RunData{
			TotalCompanies:     40,
			ProcessedCompanies: 10,
			SuccessfulCompanies: []CompanyRef{
				{ID: 1, Name: "Acme"},
			},
			UnsuccessfulCompanies: []CompanyRef{
				{ID: 2, Name: "Globex"},
			},
		},
		StartedAt: time.Now().UTC(),
	}
}

func TestWorkflowRun_Progress(t *testing.T) {
	run := validRun()
	assert.Equal(t, 25, run.Progress())

	run.Data.ProcessedCompanies = 13
	assert.Equal(t, 33, run.Progress()) // 32.5 rounds up
}

func TestWorkflowRun_ProgressZeroTotal(t *testing.T) {
	run := validRun()
	run.Data.TotalCompanies = 0
	run.Data.ProcessedCompanies = 0

	assert.Equal(t, 0, run.Progress())
}

func TestWorkflowRun_Validate(t *testing.T) {
	assert.NoError(t, validRun().Validate())
}

func TestWorkflowRun_ValidateProcessedExceedsTotal(t *testing.T) {
	run := validRun()
	run.Data.ProcessedCompanies = 41

	err := run.Validate()
	assert.ErrorIs(t, err, ErrRunCountsInconsistent)
}

func TestWorkflowRun_ValidateOutcomesExceedProcessed(t *testing.T) {
	run := validRun()
	run.Data.ProcessedCompanies = 1

	err := run.Validate()
	assert.ErrorIs(t, err, ErrRunCountsInconsistent)
}

func TestWorkflowRun_ValidateStatus(t *testing.T) {
	run := validRun()
	run.Status = "Queued"

	err := run.Validate()
	assert.ErrorIs(t, err, ErrInvalidRunStatus)
}

func TestWorkflow_Clone(t *testing.T) {
	original := Workflow{
		ID:    3,
		Title: "Qualify SaaS leads",
		Data: WorkflowData{Stages: []WorkflowStage{
			{ID: 1, Name: "Qualify", Queries: []string{"Is it funded?"}, Threshold: 0.7},
		}},
	}

	clone := original.Clone()
	clone.Data.Stages[0].Queries[0] = "mutated"
	clone.Data.Stages[0].Name = "mutated"

	assert.Equal(t, "Is it funded?", original.Data.Stages[0].Queries[0])
	assert.Equal(t, "Qualify", original.Data.Stages[0].Name)
}
