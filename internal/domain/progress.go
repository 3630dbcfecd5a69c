package domain

import "sort"

// Characteristic names as used in the factor table.
const (
	CharDataVolume    = "data_volume"
	CharAPIComplexity = "api_complexity"
	CharDataQuality   = "data_quality"
)

// CharacteristicNames lists the characteristics in evaluation order.
var CharacteristicNames = []string{CharDataVolume, CharAPIComplexity, CharDataQuality}

// Characteristics are the discrete project traits (each 0, 1 or 2).
type Characteristics struct {
	DataVolume    int `json:"data_volume" yaml:"data_volume"`
	APIComplexity int `json:"api_complexity" yaml:"api_complexity"`
	DataQuality   int `json:"data_quality" yaml:"data_quality"`
}

// Level returns the level recorded for the named characteristic.
func (c Characteristics) Level(name string) (int, bool) {
	switch name {
	case CharDataVolume:
		return c.DataVolume, true
	case CharAPIComplexity:
		return c.APIComplexity, true
	case CharDataQuality:
		return c.DataQuality, true
	default:
		return 0, false
	}
}

// ProgressSnapshot is the per-request view of project progress. It is never mutated.
type ProgressSnapshot struct {
	ActiveParallelSteps []string           `json:"active_parallel_steps" yaml:"active_parallel_steps"`
	StepsTime           map[string]float64 `json:"steps_time" yaml:"steps_time"`
	StepsHistory        map[string]float64 `json:"steps_history" yaml:"steps_history"`
	StepsDependencies   DependencyGraph    `json:"steps_dependencies" yaml:"steps_dependencies"`
}

func (p ProgressSnapshot) HasHistory() bool {
	return len(p.StepsHistory) > 0
}

// Elapsed returns the elapsed days of an active step, 0 when not reported.
func (p ProgressSnapshot) Elapsed(step string) float64 {
	return p.StepsTime[step]
}

// IsActive reports whether step is currently executing.
func (p ProgressSnapshot) IsActive(step string) bool {
	for _, s := range p.ActiveParallelSteps {
		if s == step {
			return true
		}
	}
	return false
}

// CompletedSteps returns the ids in StepsHistory, sorted.
func (p ProgressSnapshot) CompletedSteps() []string {
	ids := make([]string, 0, len(p.StepsHistory))
	for id := range p.StepsHistory {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CurrentStep picks the active step with the largest elapsed time.
// Ties keep the earliest step in ActiveParallelSteps order.
func (p ProgressSnapshot) CurrentStep() (string, bool) {
	if len(p.ActiveParallelSteps) == 0 {
		return "", false
	}
	current := p.ActiveParallelSteps[0]
	best := p.Elapsed(current)
	for _, s := range p.ActiveParallelSteps[1:] {
		if e := p.Elapsed(s); e > best {
			current, best = s, e
		}
	}
	return current, true
}

// MaxElapsed returns the largest elapsed time across active steps.
func (p ProgressSnapshot) MaxElapsed() float64 {
	var max float64
	for _, s := range p.ActiveParallelSteps {
		if e := p.Elapsed(s); e > max {
			max = e
		}
	}
	return max
}

// Validate checks that every referenced step is defined in the duration table
// and the graph, that completed steps only follow completed dependencies, and
// that recorded durations are positive and elapsed times non-negative.
// Cycle detection is done by the scheduler.
func (p ProgressSnapshot) Validate(standard map[string]float64) error {
	graph := p.StepsDependencies
	for _, id := range graph.StepIDs() {
		if _, ok := standard[id]; !ok {
			return MissingStep(id)
		}
		for _, dep := range graph[id] {
			if _, ok := graph[dep]; !ok {
				return MissingStep(dep)
			}
		}
	}
	for _, id := range p.CompletedSteps() {
		if _, ok := standard[id]; !ok {
			return MissingStep(id)
		}
		if _, ok := graph[id]; !ok {
			return MissingStep(id)
		}
		for _, dep := range graph[id] {
			if _, done := p.StepsHistory[dep]; !done {
				return NewValidationError(CodeInconsistentHistory, id,
					"step %q is completed but its dependency %q is not", id, dep)
			}
		}
	}
	for _, id := range p.ActiveParallelSteps {
		if _, ok := standard[id]; !ok {
			return MissingStep(id)
		}
	}
	for _, id := range p.CompletedSteps() {
		if d := p.StepsHistory[id]; d <= 0 {
			return NewValidationError(CodeInvalidDuration, id,
				"completed step %q must have a positive duration, got %v", id, d)
		}
	}
	elapsed := make([]string, 0, len(p.StepsTime))
	for id := range p.StepsTime {
		elapsed = append(elapsed, id)
	}
	sort.Strings(elapsed)
	for _, id := range elapsed {
		if d := p.StepsTime[id]; d < 0 {
			return NewValidationError(CodeInvalidDuration, id,
				"elapsed time of step %q must not be negative, got %v", id, d)
		}
	}
	return nil
}
