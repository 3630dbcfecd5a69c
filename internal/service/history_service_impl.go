package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/config"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/repository"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

const defaultRunLimit = 20

type historyService struct {
	samples  repository.SampleRepo
	runs     repository.RunRepo
	standard map[string]float64
}

func NewHistoryService(samples repository.SampleRepo, runs repository.RunRepo, cfg config.Config) HistoryService {
	return &historyService{samples: samples, runs: runs, standard: cfg.StandardDurations()}
}

// Record stores one observed duration for a configured step.
func (s *historyService) Record(ctx context.Context, stepID string, days float64) error {
	if _, ok := s.standard[stepID]; !ok {
		return domain.MissingStep(stepID)
	}
	if days <= 0 {
		return domain.NewValidationError(domain.CodeInvalidDuration, stepID, "duration must be > 0, got %.2f", days)
	}
	return s.samples.Record(ctx, &domain.StepSample{
		StepID:     stepID,
		Days:       days,
		RecordedAt: time.Now().UTC(),
	})
}

// Stats reports samples, metrics and trend for every configured step.
func (s *historyService) Stats(ctx context.Context) (map[string]app.StepHistory, error) {
	samples, err := s.samples.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading step samples: %w", err)
	}
	stats := scheduler.NewHistoricalStats(samples, s.standard)

	out := make(map[string]app.StepHistory, len(s.standard))
	for id := range s.standard {
		raw, err := stats.Samples(id)
		if err != nil {
			return nil, err
		}
		metrics, err := stats.Metrics(id)
		if err != nil {
			return nil, err
		}
		trend, err := stats.Trend(id)
		if err != nil {
			return nil, err
		}
		out[id] = app.StepHistory{Samples: raw, Metrics: metrics, Trend: trend}
	}
	return out, nil
}

func (s *historyService) Runs(ctx context.Context, limit int) ([]*domain.AnalysisRun, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	return s.runs.ListRecent(ctx, limit)
}
