package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutflow/scoutflow/pkg/models"
	"github.com/scoutflow/scoutflow/pkg/services"
)

func newRunService(t *testing.T) (*services.Run, *services.Workflow) {
	t.Helper()

	workflows, persistence := newWorkflowService(t)

	return services.NewRun(persistence), workflows
}

func sampleRun(workflowID int64) *models.WorkflowRun {
	return &models.WorkflowRun{
		WorkflowID:              workflowID,
		TargetCompaniesCategory: "SaaS Startups",
		Status:                  models.RunStatusInProgress,
		Data: models.RunData{
			TotalCompanies:     10,
			ProcessedCompanies: 4,
			SuccessfulCompanies: []models.CompanyRef{
				{ID: 1, Name: "Acme"},
				{ID: 2, Name: "Globex"},
				{ID: 3, Name: "Initech"},
			},
			UnsuccessfulCompanies: []models.CompanyRef{
				{ID: 4, Name: "Umbrella"},
			},
		},
	}
}

func TestRunRecordAndList(t *testing.T) {
	runs, workflows := newRunService(t)
	ctx := context.Background()

	workflow, err := workflows.Create(ctx, sampleWorkflow("Lead Scoring"))
	require.NoError(t, err)

	recorded, err := runs.Record(ctx, sampleRun(workflow.ID))
	require.NoError(t, err)
	assert.NotZero(t, recorded.ID)

	history, err := runs.ListByWorkflow(ctx, workflow.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, recorded.ID, history[0].ID)
	assert.Equal(t, 40, history[0].Progress())
}

func TestRunRecordUnknownWorkflow(t *testing.T) {
	runs, _ := newRunService(t)

	_, err := runs.Record(context.Background(), sampleRun(42))
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrWorkflowNotFound)
}

func TestRunRecordInvalidStatus(t *testing.T) {
	runs, workflows := newRunService(t)
	ctx := context.Background()

	workflow, err := workflows.Create(ctx, sampleWorkflow("Lead Scoring"))
	require.NoError(t, err)

	run := sampleRun(workflow.ID)
	run.Status = "Paused"

	_, err = runs.Record(ctx, run)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidRunStatus)
}

func TestRunRecordInconsistentCounts(t *testing.T) {
	runs, workflows := newRunService(t)
	ctx := context.Background()

	workflow, err := workflows.Create(ctx, sampleWorkflow("Lead Scoring"))
	require.NoError(t, err)

	run := sampleRun(workflow.ID)
	run.Data.ProcessedCompanies = 11 // exceeds total

	_, err = runs.Record(ctx, run)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRunCountsInconsistent)
}

func TestRunRecordNil(t *testing.T) {
	runs, _ := newRunService(t)

	_, err := runs.Record(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrRunNil)
}

func TestRunFetchByID(t *testing.T) {
	runs, workflows := newRunService(t)
	ctx := context.Background()

	workflow, err := workflows.Create(ctx, sampleWorkflow("Lead Scoring"))
	require.NoError(t, err)

	recorded, err := runs.Record(ctx, sampleRun(workflow.ID))
	require.NoError(t, err)

	fetched, err := runs.FetchByID(ctx, recorded.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.ID, fetched.WorkflowID)

	_, err = runs.FetchByID(ctx, recorded.ID+100)
	assert.ErrorIs(t, err, services.ErrRunNotFound)
}

func TestRunListUnknownWorkflow(t *testing.T) {
	runs, _ := newRunService(t)

	_, err := runs.ListByWorkflow(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrWorkflowNotFound)
}
