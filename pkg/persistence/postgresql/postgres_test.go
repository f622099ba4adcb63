package postgresql_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/scoutflow/scoutflow/pkg/models"
	"github.com/scoutflow/scoutflow/pkg/persistence/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var postgresContainer *postgres.PostgresContainer

func dropDB(ctx context.Context, t *testing.T, databaseURL string) {
	t.Helper()

	db, err := sql.Open("postgres", databaseURL)
	require.NoError(t, err)

	for _, table := range []string{"workflow_runs", "workflows", "schema_migrations"} {
		_, err = db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE")
		require.NoError(t, err)
	}

	require.NoError(t, db.Close())
}

func setupTestDB(t *testing.T) (*postgresql.Persistence, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	if postgresContainer == nil || !postgresContainer.IsRunning() {
		var err error

		postgresContainer, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("scoutflow_test"),
			postgres.WithUsername("scoutflow"),
			postgres.WithPassword("scoutflow"),
			postgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
	}

	databaseURL, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	dropDB(ctx, t, databaseURL)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		dropDB(ctx, t, databaseURL)
		require.NoError(t, p.Close(ctx))
		cancel()
	})

	return p, ctx
}

func TestPersistence_HealthCheck(t *testing.T) {
	p, ctx := setupTestDB(t)

	assert.NoError(t, p.HealthCheck(ctx))
}

func TestWorkflowRepository_SaveAndGet(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.WorkflowRepository()

	workflow := &models.Workflow{
		Title:                   "Lead Scoring",
		TargetCompaniesCategory: "SaaS Startups",
		IsScheduled:             true,
		ScheduleFrequency:       models.FrequencyDaily,
		Data: models.WorkflowData{Stages: []models.WorkflowStage{
			{ID: 1, Name: "Qualify", Queries: []string{"Is it funded?"}, Threshold: 0.7},
		}},
	}

	require.NoError(t, repo.Save(ctx, workflow))
	require.NotZero(t, workflow.ID)

	loaded, err := repo.GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Lead Scoring", loaded.Title)
	assert.True(t, loaded.IsScheduled.Bool())
	assert.Equal(t, models.FrequencyDaily, loaded.ScheduleFrequency)
	require.Len(t, loaded.Data.Stages, 1)
	assert.InDelta(t, 0.7, loaded.Data.Stages[0].Threshold, 0)
}

func TestWorkflowRepository_UpdateReplacesStageList(t *testing.T) {
	p, ctx := setupTestDB(t)
	repo := p.WorkflowRepository()

	workflow := &models.Workflow{
		Title:                   "Initial",
		TargetCompaniesCategory: "Enterprise",
		ScheduleFrequency:       models.FrequencyDaily,
	}
	require.NoError(t, repo.Save(ctx, workflow))

	workflow.Title = "Updated"
	workflow.Data.Stages = []models.WorkflowStage{
		{ID: 1, Name: "Screen", Queries: []string{"Public company?"}, Threshold: 0.5},
		{ID: 2, Name: "Score", Queries: []string{"Growing headcount?"}, Threshold: 0.6},
	}
	require.NoError(t, repo.Save(ctx, workflow))

	loaded, err := repo.GetByID(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", loaded.Title)
	assert.Len(t, loaded.Data.Stages, 2)
}

func TestWorkflowRepository_GetMissing(t *testing.T) {
	p, ctx := setupTestDB(t)

	loaded, err := p.WorkflowRepository().GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRunRepository_DeleteCascades(t *testing.T) {
	p, ctx := setupTestDB(t)

	workflow := &models.Workflow{
		Title:                   "Parent",
		TargetCompaniesCategory: "Retail",
		ScheduleFrequency:       models.FrequencyDaily,
	}
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	run := &models.WorkflowRun{
		WorkflowID:              workflow.ID,
		TargetCompaniesCategory: "Retail",
		Status:                  models.RunStatusCompleted,
		Data:                    models.RunData{TotalCompanies: 5, ProcessedCompanies: 5},
		StartedAt:               time.Now().UTC(),
	}
	require.NoError(t, p.RunRepository().Save(ctx, run))

	require.NoError(t, p.WorkflowRepository().Delete(ctx, workflow.ID))

	runs, err := p.RunRepository().ListByWorkflow(ctx, workflow.ID)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	p, ctx := setupTestDB(t)

	workflow := &models.Workflow{
		Title:                   "Parent",
		TargetCompaniesCategory: "Technology",
		ScheduleFrequency:       models.FrequencyDaily,
	}
	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))

	base := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	for i := range 3 {
		run := &models.WorkflowRun{
			WorkflowID:              workflow.ID,
			TargetCompaniesCategory: "Technology",
			Status:                  models.RunStatusCompleted,
			Data:                    models.RunData{TotalCompanies: 1, ProcessedCompanies: 1},
			StartedAt:               base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, p.RunRepository().Save(ctx, run))
	}

	runs, err := p.RunRepository().ListByWorkflow(ctx, workflow.ID)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].StartedAt.After(runs[2].StartedAt))
}
