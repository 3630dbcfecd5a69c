package scheduler

import (
	"github.com/alexanderramin/horizon/internal/domain"
)

// DurationEstimate is the point estimate for the project and how it was derived.
type DurationEstimate struct {
	EstimatedDays   float64             `json:"estimated_days" yaml:"estimated_days"`
	Mode            domain.EstimateMode `json:"mode" yaml:"mode"`
	CurrentStep     string              `json:"current_step" yaml:"current_step"`
	Complexity      float64             `json:"complexity_factor" yaml:"complexity_factor"`
	DelayFactor     float64             `json:"delay_factor" yaml:"delay_factor"`
	HistoricalRatio float64             `json:"historical_ratio" yaml:"historical_ratio"`
}

// ProgressView is the whole-project progress and remaining-work projection.
type ProgressView struct {
	BaselineDays      float64 `json:"baseline_days" yaml:"baseline_days"`
	DaysSpent         float64 `json:"days_spent" yaml:"days_spent"`
	CompletionPercent float64 `json:"completion_percent" yaml:"completion_percent"`
	DelayFactor       float64 `json:"delay_factor" yaml:"delay_factor"`
	RemainingDays     float64 `json:"remaining_days" yaml:"remaining_days"`
	TotalDays         float64 `json:"total_days" yaml:"total_days"`
}

// DelayFactor averages actual/standard over completed steps. Without
// history the factor is 1.0.
func DelayFactor(history, standard map[string]float64) (float64, error) {
	if len(history) == 0 {
		return 1.0, nil
	}
	var sum float64
	for id, actual := range history {
		std, ok := standard[id]
		if !ok || std <= 0 {
			return 0, domain.MissingStep(id)
		}
		sum += actual / std
	}
	return sum / float64(len(history)), nil
}

// EstimateDuration produces the project estimate in one of two modes.
//
// Without history the current step's standard duration is scaled by the
// complexity multiplier and by its historical mean/median ratio. With history
// the longest elapsed active step is scaled by complexity and the observed
// delay factor. Both modes need at least one active step.
func EstimateDuration(p domain.ProgressSnapshot, complexity float64, stats *HistoricalStats, standard map[string]float64) (DurationEstimate, error) {
	current, ok := p.CurrentStep()
	if !ok {
		return DurationEstimate{}, domain.NewValidationError(domain.CodeEmptyActiveSteps, "",
			"cannot estimate duration without active steps")
	}

	est := DurationEstimate{
		CurrentStep:     current,
		Complexity:      complexity,
		DelayFactor:     1.0,
		HistoricalRatio: 1.0,
	}

	if !p.HasHistory() {
		std, ok := standard[current]
		if !ok {
			return DurationEstimate{}, domain.MissingStep(current)
		}
		m, err := stats.Metrics(current)
		if err != nil {
			return DurationEstimate{}, err
		}
		if m.Median > 0 {
			est.HistoricalRatio = m.Mean / m.Median
		}
		est.Mode = domain.EstimateFromStandard
		est.EstimatedDays = std * complexity * est.HistoricalRatio
		return est, nil
	}

	delay, err := DelayFactor(p.StepsHistory, standard)
	if err != nil {
		return DurationEstimate{}, err
	}
	est.Mode = domain.EstimateFromHistory
	est.DelayFactor = delay
	est.EstimatedDays = p.MaxElapsed() * complexity * delay
	return est, nil
}

// EstimateProgress projects remaining work from the historical baseline of
// every step in the graph.
func EstimateProgress(p domain.ProgressSnapshot, stats *HistoricalStats, standard map[string]float64) (ProgressView, error) {
	var view ProgressView
	for _, id := range p.StepsDependencies.StepIDs() {
		m, err := stats.Metrics(id)
		if err != nil {
			return ProgressView{}, err
		}
		view.BaselineDays += m.Mean
	}

	for _, days := range p.StepsHistory {
		view.DaysSpent += days
	}
	if n := len(p.StepsDependencies); n > 0 {
		view.CompletionPercent = float64(len(p.StepsHistory)) / float64(n)
	}

	delay, err := DelayFactor(p.StepsHistory, standard)
	if err != nil {
		return ProgressView{}, err
	}
	view.DelayFactor = delay
	view.RemainingDays = view.BaselineDays * (1 - view.CompletionPercent) * delay
	view.TotalDays = view.DaysSpent + view.RemainingDays
	return view, nil
}
