package app

import (
	"context"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

type AnalyzeUseCase interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResponse, error)
}

type CriticalPathUseCase interface {
	CriticalPath(ctx context.Context, progress domain.ProgressSnapshot) (scheduler.CriticalPathResult, error)
}

type ResourceUseCase interface {
	List(ctx context.Context) ([]*domain.Resource, error)
	Add(ctx context.Context, r *domain.Resource) error
	Status(ctx context.Context) (scheduler.ResourceStatus, error)
}

type HistoryUseCase interface {
	Record(ctx context.Context, stepID string, days float64) error
	Stats(ctx context.Context) (map[string]StepHistory, error)
	Runs(ctx context.Context, limit int) ([]*domain.AnalysisRun, error)
}

// StepHistory is one step's samples with their statistics.
type StepHistory struct {
	Samples []float64               `json:"samples" yaml:"samples"`
	Metrics scheduler.StepMetrics   `json:"metrics" yaml:"metrics"`
	Trend   scheduler.TrendAnalysis `json:"trend" yaml:"trend"`
}
