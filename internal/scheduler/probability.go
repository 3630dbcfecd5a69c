package scheduler

import (
	"fmt"
	"math"

	"github.com/alexanderramin/horizon/internal/domain"
)

// CompletionCoefficients weight the three parts of the projected completion
// time: finished work, the in-progress steps and unstarted work.
type CompletionCoefficients struct {
	Historical     float64 `yaml:"historical"`
	CurrentBase    float64 `yaml:"current_base"`
	Remaining      float64 `yaml:"remaining"`
	MaxProbability float64 `yaml:"max_probability"`
}

func DefaultCompletionCoefficients() CompletionCoefficients {
	return CompletionCoefficients{
		Historical:     1.0,
		CurrentBase:    1.0,
		Remaining:      1.2,
		MaxProbability: 0.9,
	}
}

func (c CompletionCoefficients) Validate() error {
	if c.Historical <= 0 || c.CurrentBase <= 0 || c.Remaining <= 0 {
		return fmt.Errorf("completion coefficients must be positive")
	}
	if c.MaxProbability <= 0 || c.MaxProbability > 1 {
		return fmt.Errorf("completion.max_probability must be in (0, 1], got %.2f", c.MaxProbability)
	}
	return nil
}

// CompletionAdjustments are the risk signals the adjusted model discounts by.
type CompletionAdjustments struct {
	TrendFactor      float64 `json:"trend_factor" yaml:"trend_factor"`
	StepComplexity   float64 `json:"step_complexity" yaml:"step_complexity"`
	MeanCorrelation  float64 `json:"mean_correlation" yaml:"mean_correlation"`
	ParallelRisk     float64 `json:"parallel_risk" yaml:"parallel_risk"`
	DelayProbability float64 `json:"delay_probability" yaml:"delay_probability"`
}

// CompletionModel estimates the probability of finishing within TargetDays.
type CompletionModel struct {
	Coefficients CompletionCoefficients
	TargetDays   float64
}

func NewCompletionModel(c CompletionCoefficients, targetDays float64) *CompletionModel {
	return &CompletionModel{Coefficients: c, TargetDays: targetDays}
}

// CompletionTime projects total project time: history at face value, each
// active step inflated by its historical standard deviation and every step
// that is neither completed nor active at its standard duration plus margin.
func (m *CompletionModel) CompletionTime(p domain.ProgressSnapshot, stats *HistoricalStats, standard map[string]float64) (float64, error) {
	c := m.Coefficients

	var historical float64
	for _, days := range p.StepsHistory {
		historical += days
	}

	var current float64
	for _, step := range uniqueSteps(p.ActiveParallelSteps) {
		metrics, err := stats.Metrics(step)
		if err != nil {
			return 0, err
		}
		current += p.Elapsed(step) * (c.CurrentBase + metrics.StdDev)
	}

	var remaining float64
	for _, step := range p.StepsDependencies.StepIDs() {
		if _, done := p.StepsHistory[step]; done || p.IsActive(step) {
			continue
		}
		std, ok := standard[step]
		if !ok {
			return 0, domain.MissingStep(step)
		}
		remaining += std
	}

	return historical*c.Historical + current + remaining*c.Remaining, nil
}

// BaseProbability is 0 past the target, otherwise the share of the target
// left over, capped at MaxProbability.
func (m *CompletionModel) BaseProbability(total float64) float64 {
	if m.TargetDays <= 0 || total > m.TargetDays {
		return 0
	}
	return math.Min(m.Coefficients.MaxProbability, (m.TargetDays-total)/m.TargetDays)
}

// AdjustedProbability discounts base by trend, structural complexity,
// step correlation, parallel risk and delay risk, clamped to [0, MaxProbability].
func (m *CompletionModel) AdjustedProbability(base float64, adj CompletionAdjustments) float64 {
	p := base
	p /= 1 + math.Max(0, adj.TrendFactor)
	p /= math.Max(1, adj.StepComplexity)
	p /= math.Max(1, adj.MeanCorrelation)
	p /= math.Max(1, adj.ParallelRisk)
	p *= 1 - clamp(adj.DelayProbability, 0, 1)/2
	return clamp(p, 0, m.Coefficients.MaxProbability)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
