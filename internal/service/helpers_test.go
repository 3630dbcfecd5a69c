package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/config"
	"github.com/alexanderramin/horizon/internal/db"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/intelligence"
	"github.com/alexanderramin/horizon/internal/repository"
	"github.com/alexanderramin/horizon/internal/testutil"
)

type stubScorer struct {
	patterns []domain.RiskPattern
	err      error
}

func (s stubScorer) Score(ctx context.Context, _ intelligence.RiskFeatures) ([]domain.RiskPattern, error) {
	return s.patterns, s.err
}

func scheduleRisk(level float64) stubScorer {
	return stubScorer{patterns: []domain.RiskPattern{{
		RiskLevel:     level,
		RiskType:      domain.RiskSchedule,
		Probability:   level,
		PredictedDays: 45,
	}}}
}

type harness struct {
	db        *sql.DB
	cfg       config.Config
	svc       AnalysisService
	allocator *Allocator
	resources *repository.SQLiteResourceRepo
	runs      *repository.SQLiteRunRepo
	samples   *repository.SQLiteSampleRepo
	metrics   *PipelineMetrics
}

type harnessOption func(*harnessSettings)

type harnessSettings struct {
	cfg      config.Config
	scorer   stubScorer
	uow      func(*sql.DB) db.UnitOfWork
	observer UseCaseObserver
}

func withConfig(cfg config.Config) harnessOption {
	return func(s *harnessSettings) { s.cfg = cfg }
}

func withScorer(sc stubScorer) harnessOption {
	return func(s *harnessSettings) { s.scorer = sc }
}

func withUoW(fn func(*sql.DB) db.UnitOfWork) harnessOption {
	return func(s *harnessSettings) { s.uow = fn }
}

func withObserver(o UseCaseObserver) harnessOption {
	return func(s *harnessSettings) { s.observer = o }
}

// newHarness wires an analysis service over a seeded in-memory database.
func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	settings := harnessSettings{
		cfg:    config.Default(),
		scorer: scheduleRisk(0.5),
		uow:    testutil.NewTestUoW,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	database := testutil.NewTestDB(t)
	_, err := NewSeeder(settings.cfg, testutil.NewTestUoW(database)).Seed(context.Background())
	require.NoError(t, err)

	metrics := NewPipelineMetrics(prometheus.NewRegistry())
	resources := repository.NewSQLiteResourceRepo(database)
	samples := repository.NewSQLiteSampleRepo(database)
	allocator := NewAllocator(resources, settings.uow(database), settings.cfg.Allocation, settings.cfg.Requirements, metrics)
	pipeline := NewPipeline(settings.cfg, settings.scorer, metrics)

	return &harness{
		db:        database,
		cfg:       settings.cfg,
		svc:       NewAnalysisService(settings.cfg, pipeline, allocator, samples, metrics, settings.observer),
		allocator: allocator,
		resources: resources,
		runs:      repository.NewSQLiteRunRepo(database),
		samples:   samples,
		metrics:   metrics,
	}
}

// yellowRequest is two parallel steps with the worst at 1.4x standard.
func yellowRequest() app.AnalysisRequest {
	return app.AnalysisRequest{
		Characteristics: domain.Characteristics{DataVolume: 1, APIComplexity: 2, DataQuality: 0},
		CurrentProgress: testutil.NewTestSnapshot(
			testutil.WithActive("step3", "step4"),
			testutil.WithElapsed("step3", 1),
			testutil.WithElapsed("step4", 7),
			testutil.WithCompleted("step1", 3),
			testutil.WithCompleted("step2", 7),
		),
	}
}

// redRequest has step3 at 1.6x standard.
func redRequest(reallocate bool) app.AnalysisRequest {
	return app.AnalysisRequest{
		Characteristics: domain.Characteristics{DataVolume: 2, APIComplexity: 2, DataQuality: 0},
		CurrentProgress: testutil.NewTestSnapshot(
			testutil.WithActive("step3"),
			testutil.WithElapsed("step3", 8),
			testutil.WithCompleted("step1", 3),
			testutil.WithCompleted("step2", 7),
		),
		Project:    "integration",
		Reallocate: reallocate,
	}
}

func (h *harness) availability(t *testing.T, id string) float64 {
	t.Helper()
	r, err := h.resources.GetByID(context.Background(), id)
	require.NoError(t, err)
	return r.Availability
}
