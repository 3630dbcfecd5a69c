package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRun(id string, createdAt time.Time) *domain.AnalysisRun {
	return &domain.AnalysisRun{
		ID:                    id,
		EstimatedDays:         9.9,
		WarningStatus:         domain.WarningYellow,
		CompletionProbability: 0.4,
		Action:                domain.ActionContinueMonitoring,
		CreatedAt:             createdAt,
	}
}

func TestRunRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	runs := NewSQLiteRunRepo(database)
	resources := NewSQLiteResourceRepo(database)
	ctx := context.Background()

	res := testutil.NewTestResource(9, testutil.WithResourceID("R1"))
	require.NoError(t, resources.Create(ctx, res))

	run := newTestRun("run-1", time.Now().UTC())
	run.Action = domain.ActionAssignSeniorDeveloper
	run.ResourceID = &res.ID
	run.CompletionModel = domain.CompletionAdjusted
	require.NoError(t, runs.Create(ctx, run))

	got, err := runs.GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 9.9, got.EstimatedDays)
	assert.Equal(t, domain.WarningYellow, got.WarningStatus)
	assert.Equal(t, domain.ActionAssignSeniorDeveloper, got.Action)
	assert.Equal(t, domain.CompletionAdjusted, got.CompletionModel)
	require.NotNil(t, got.ResourceID)
	assert.Equal(t, "R1", *got.ResourceID)
}

func TestRunRepo_DefaultsCompletionModel(t *testing.T) {
	runs := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, runs.Create(ctx, newTestRun("run-1", time.Now())))
	got, err := runs.GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CompletionBasic, got.CompletionModel)
	assert.Nil(t, got.ResourceID)
}

func TestRunRepo_GetByID_NotFound(t *testing.T) {
	runs := NewSQLiteRunRepo(testutil.NewTestDB(t))
	_, err := runs.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRunRepo_RejectsProbabilityOutsideUnitInterval(t *testing.T) {
	runs := NewSQLiteRunRepo(testutil.NewTestDB(t))
	run := newTestRun("run-1", time.Now())
	run.CompletionProbability = 1.2
	assert.Error(t, runs.Create(context.Background(), run))
}

func TestRunRepo_ListRecent_NewestFirst(t *testing.T) {
	runs := NewSQLiteRunRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, runs.Create(ctx, newTestRun("old", base)))
	require.NoError(t, runs.Create(ctx, newTestRun("new", base.Add(48*time.Hour))))
	require.NoError(t, runs.Create(ctx, newTestRun("mid", base.Add(24*time.Hour))))

	list, err := runs.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
}
