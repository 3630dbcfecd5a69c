package service

import (
	"context"

	"github.com/alexanderramin/horizon/internal/app"
)

type AnalysisService interface {
	app.AnalyzeUseCase
	app.CriticalPathUseCase
}

type ResourceService interface {
	app.ResourceUseCase
}

type HistoryService interface {
	app.HistoryUseCase
}

// SeedResult counts the rows written by Seeder.Seed.
type SeedResult struct {
	Samples   int
	Resources int
}

type Seeder interface {
	Seed(ctx context.Context) (SeedResult, error)
}
