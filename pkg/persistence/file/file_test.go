package file_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/scoutflow/scoutflow/pkg/models"
	"github.com/scoutflow/scoutflow/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorkflow(title string) *models.Workflow {
	return &models.Workflow{
		Title:                   title,
		TargetCompaniesCategory: "Technology",
		IsScheduled:             true,
		ScheduleFrequency:       models.FrequencyWeekly,
		Data: models.WorkflowData{Stages: []models.WorkflowStage{
			{ID: 1, Name: "Qualify", Queries: []string{"Is it funded?"}, Threshold: 0.7},
		}},
	}
}

func TestWorkflowRepository_SaveAssignsSequentialIDs(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.WorkflowRepository()

	first := testWorkflow("First")
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := testWorkflow("Second")
	require.NoError(t, repo.Save(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}

func TestWorkflowRepository_ConcurrentSaveAllocatesDistinctIDs(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.WorkflowRepository()

	const workers = 50

	ids := make(chan int64, workers)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			workflow := testWorkflow("Concurrent")
			if err := repo.Save(ctx, workflow); err != nil {
				t.Error(err)

				return
			}

			ids <- workflow.ID
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "ID %d allocated more than once", id)
		seen[id] = true
	}

	assert.Len(t, seen, workers)

	workflows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, workflows, workers)
}

func TestWorkflowRepository_RoundTrip(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.WorkflowRepository()

	workflow := testWorkflow("Lead Scoring")
	require.NoError(t, repo.Save(ctx, workflow))

	loaded, err := repo.GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Lead Scoring", loaded.Title)
	assert.True(t, loaded.IsScheduled.Bool())
	assert.Equal(t, models.FrequencyWeekly, loaded.ScheduleFrequency)
	require.Len(t, loaded.Data.Stages, 1)
	assert.Equal(t, []string{"Is it funded?"}, loaded.Data.Stages[0].Queries)
}

func TestWorkflowRepository_GetByIDMissing(t *testing.T) {
	p := file.NewPersistence(t.TempDir())

	loaded, err := p.WorkflowRepository().GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestWorkflowRepository_List(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.WorkflowRepository()

	require.NoError(t, repo.Save(ctx, testWorkflow("A")))
	require.NoError(t, repo.Save(ctx, testWorkflow("B")))

	workflows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, "A", workflows[0].Title)
	assert.Equal(t, "B", workflows[1].Title)
}

func TestWorkflowRepository_Delete(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.WorkflowRepository()

	workflow := testWorkflow("Doomed")
	require.NoError(t, repo.Save(ctx, workflow))
	require.NoError(t, repo.Delete(ctx, workflow.ID))

	loaded, err := repo.GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// deleting again is a no-op
	assert.NoError(t, repo.Delete(ctx, workflow.ID))
}

func TestWorkflowRepository_DeleteRemovesRuns(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()

	doomed := testWorkflow("Doomed")
	require.NoError(t, p.WorkflowRepository().Save(ctx, doomed))

	survivor := testWorkflow("Survivor")
	require.NoError(t, p.WorkflowRepository().Save(ctx, survivor))

	for _, workflowID := range []int64{doomed.ID, doomed.ID, survivor.ID} {
		run := &models.WorkflowRun{
			WorkflowID:              workflowID,
			TargetCompaniesCategory: "Technology",
			Status:                  models.RunStatusCompleted,
			Data:                    models.RunData{TotalCompanies: 5, ProcessedCompanies: 5},
			StartedAt:               time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		}
		require.NoError(t, p.RunRepository().Save(ctx, run))
	}

	require.NoError(t, p.WorkflowRepository().Delete(ctx, doomed.ID))

	runs, err := p.RunRepository().ListByWorkflow(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, runs)

	runs, err = p.RunRepository().ListByWorkflow(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunRepository_SaveAndListByWorkflow(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	ctx := context.Background()
	repo := p.RunRepository()

	started := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	for _, workflowID := range []int64{1, 1, 2} {
		run := &models.WorkflowRun{
			WorkflowID:              workflowID,
			TargetCompaniesCategory: "Retail",
			Status:                  models.RunStatusInProgress,
			Data:                    models.RunData{TotalCompanies: 10, ProcessedCompanies: 4},
			StartedAt:               started,
		}
		require.NoError(t, repo.Save(ctx, run))
		assert.NotZero(t, run.ID)
	}

	runs, err := repo.ListByWorkflow(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 40, runs[0].Progress())

	runs, err = repo.ListByWorkflow(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestPersistence_HealthCheck(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, file.NewPersistence(dir).HealthCheck(context.Background()))
	assert.Error(t, file.NewPersistence(dir+"/missing").HealthCheck(context.Background()))
}
