package intelligence

import (
	"context"
	"fmt"
	"math"

	"github.com/alexanderramin/horizon/internal/domain"
)

// RiskFeatures are the numeric project features a RiskScorer consumes.
type RiskFeatures struct {
	DataVolume         int     `json:"data_volume" yaml:"data_volume"`
	APIComplexity      int     `json:"api_complexity" yaml:"api_complexity"`
	DataQuality        int     `json:"data_quality" yaml:"data_quality"`
	CurrentStep        int     `json:"current_step" yaml:"current_step"`
	DaysSpent          float64 `json:"days_spent" yaml:"days_spent"`
	ParallelStepsCount int     `json:"parallel_steps_count" yaml:"parallel_steps_count"`
}

// ExtractFeatures derives scorer input from a request. CurrentStep is the
// highest step number among active steps.
func ExtractFeatures(c domain.Characteristics, p domain.ProgressSnapshot) RiskFeatures {
	f := RiskFeatures{
		DataVolume:         c.DataVolume,
		APIComplexity:      c.APIComplexity,
		DataQuality:        c.DataQuality,
		DaysSpent:          p.MaxElapsed(),
		ParallelStepsCount: len(p.ActiveParallelSteps),
	}
	for _, s := range p.ActiveParallelSteps {
		if n := domain.StepNumber(s); n > f.CurrentStep {
			f.CurrentStep = n
		}
	}
	return f
}

func (f RiskFeatures) vector() []float64 {
	return []float64{
		float64(f.DataVolume),
		float64(f.APIComplexity),
		float64(f.DataQuality),
		float64(f.CurrentStep),
		f.DaysSpent,
		float64(f.ParallelStepsCount),
	}
}

// RiskScorer turns project features into risk patterns.
type RiskScorer interface {
	Score(ctx context.Context, f RiskFeatures) ([]domain.RiskPattern, error)
}

// ReferenceProject is a past project with its observed completion time.
type ReferenceProject struct {
	Features       RiskFeatures
	CompletionDays float64
}

// SeedProjects are the reference projects the default scorer compares against.
func SeedProjects() []ReferenceProject {
	return []ReferenceProject{
		{Features: RiskFeatures{DataVolume: 2, APIComplexity: 2, DataQuality: 0, CurrentStep: 2, DaysSpent: 8}, CompletionDays: 45},
		{Features: RiskFeatures{DataVolume: 1, APIComplexity: 1, DataQuality: 1, CurrentStep: 2, DaysSpent: 5}, CompletionDays: 25},
		{Features: RiskFeatures{DataVolume: 0, APIComplexity: 0, DataQuality: 2, CurrentStep: 2, DaysSpent: 4}, CompletionDays: 20},
	}
}

const (
	scheduleRiskThreshold = 0.7
	sigmoidSteepness      = 0.1
)

type nearestNeighbourScorer struct {
	refs       []ReferenceProject
	targetDays float64
}

// NewNearestNeighbourScorer predicts completion as the completion time of the
// closest reference project and normalises it against targetDays.
func NewNearestNeighbourScorer(refs []ReferenceProject, targetDays float64) RiskScorer {
	return &nearestNeighbourScorer{
		refs:       append([]ReferenceProject(nil), refs...),
		targetDays: targetDays,
	}
}

func (s *nearestNeighbourScorer) Score(ctx context.Context, f RiskFeatures) ([]domain.RiskPattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.refs) == 0 {
		return nil, fmt.Errorf("risk scorer has no reference projects")
	}

	query := f.vector()
	best, bestDist := 0, math.Inf(1)
	for i, ref := range s.refs {
		if d := squaredDistance(query, ref.Features.vector()); d < bestDist {
			best, bestDist = i, d
		}
	}
	predicted := s.refs[best].CompletionDays

	level := 1 / (1 + math.Exp(-sigmoidSteepness*(predicted-s.targetDays)))
	riskType := domain.RiskNormal
	if level > scheduleRiskThreshold {
		riskType = domain.RiskSchedule
	}
	return []domain.RiskPattern{{
		RiskLevel:     level,
		RiskType:      riskType,
		Probability:   level,
		PredictedDays: predicted,
	}}, nil
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
