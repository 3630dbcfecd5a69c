package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/horizon/internal/domain"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoSeniorAvailable is returned when no resource satisfies the senior
	// criteria at the time of assignment.
	ErrNoSeniorAvailable = errors.New("no senior resource available")
)

// SeniorCriteria selects and charges a senior resource in one statement.
type SeniorCriteria struct {
	MinSkillExclusive int
	MinAvailability   float64
	Share             float64
	Project           string
}

type ResourceRepo interface {
	Create(ctx context.Context, r *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	List(ctx context.Context) ([]*domain.Resource, error)
	Count(ctx context.Context) (int, error)
	AssignSenior(ctx context.Context, c SeniorCriteria) (*domain.Resource, error)
}

type SampleRepo interface {
	Record(ctx context.Context, s *domain.StepSample) error
	ListByStep(ctx context.Context, stepID string) ([]domain.StepSample, error)
	ListAll(ctx context.Context) (map[string][]float64, error)
	SeedIfEmpty(ctx context.Context, samples map[string][]float64) (int, error)
}

type RunRepo interface {
	Create(ctx context.Context, r *domain.AnalysisRun) error
	GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.AnalysisRun, error)
}
