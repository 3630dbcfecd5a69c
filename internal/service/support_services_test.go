package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/horizon/internal/config"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/repository"
	"github.com/alexanderramin/horizon/internal/testutil"
)

func TestSeeder_SeedsOnce(t *testing.T) {
	database := testutil.NewTestDB(t)
	seeder := NewSeeder(config.Default(), testutil.NewTestUoW(database))
	ctx := context.Background()

	first, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, first.Samples)
	assert.Equal(t, 3, first.Resources)

	second, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, second.Samples)
	assert.Zero(t, second.Resources)

	n, err := repository.NewSQLiteResourceRepo(database).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestHistoryService_Record(t *testing.T) {
	h := newHarness(t)
	svc := NewHistoryService(h.samples, h.runs, h.cfg)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "step1", 9))
	assert.ErrorIs(t, svc.Record(ctx, "step9", 1), domain.ErrMissingStepDefinition)
	assert.ErrorIs(t, svc.Record(ctx, "step1", 0), domain.ErrInvalidDuration)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Contains(t, stats, "step1")
	assert.Equal(t, []float64{3, 4, 3, 5, 3, 4, 9}, stats["step1"].Samples)
	assert.InDelta(t, 31.0/7, stats["step1"].Metrics.Mean, 1e-9)
	assert.Len(t, stats, 7)
}

func TestHistoryService_Runs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := h.svc.Analyze(ctx, yellowRequest())
		require.NoError(t, err)
	}

	svc := NewHistoryService(h.samples, h.runs, h.cfg)
	runs, err := svc.Runs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = svc.Runs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestResourceService_Add(t *testing.T) {
	h := newHarness(t)
	svc := NewResourceService(h.resources, h.allocator)
	ctx := context.Background()

	r := testutil.NewTestResource(9, testutil.WithResourceID(""), testutil.WithAvailability(0.9))
	require.NoError(t, svc.Add(ctx, r))
	assert.NotEmpty(t, r.ID)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, status.AvailableCount)
	assert.True(t, status.SeniorAvailability)
}

func TestResourceService_AddRejectsInvalid(t *testing.T) {
	h := newHarness(t)
	svc := NewResourceService(h.resources, h.allocator)
	ctx := context.Background()

	assert.Error(t, svc.Add(ctx, testutil.NewTestResource(5, testutil.WithResourceType("manager"))))
	assert.Error(t, svc.Add(ctx, testutil.NewTestResource(11)))
	assert.Error(t, svc.Add(ctx, testutil.NewTestResource(5, testutil.WithAvailability(1.5))))
}

func TestLoadLogConfig(t *testing.T) {
	t.Setenv("HORIZON_LOG_USE_CASES", "true")
	t.Setenv("HORIZON_LOG_FORMAT", "JSON")
	cfg := LoadLogConfig()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.JSON)

	t.Setenv("HORIZON_LOG_USE_CASES", "maybe")
	assert.False(t, LoadLogConfig().Enabled)
}

func TestNewLogUseCaseObserver_DisabledIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, LogConfig{Enabled: true}))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(&testWriter{}, LogConfig{}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }
