package scheduler

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/horizon/internal/domain"
)

const (
	parallelRiskPerDependency = 0.15
	maxParallelRisk           = 2.0
)

// ParallelThresholds are the upper bounds of the safe and warning bands.
type ParallelThresholds struct {
	Safe    float64 `yaml:"safe"`
	Warning float64 `yaml:"warning"`
}

func DefaultParallelThresholds() ParallelThresholds {
	return ParallelThresholds{Safe: 1.2, Warning: 1.5}
}

func (t ParallelThresholds) Validate() error {
	if t.Safe < 1 || t.Warning < t.Safe {
		return fmt.Errorf("parallel thresholds must satisfy 1 <= safe <= warning (safe=%.2f, warning=%.2f)", t.Safe, t.Warning)
	}
	return nil
}

// Classify maps a parallel risk value onto a band.
func (t ParallelThresholds) Classify(risk float64) domain.ParallelRiskLevel {
	switch {
	case risk <= t.Safe:
		return domain.ParallelSafe
	case risk <= t.Warning:
		return domain.ParallelWarning
	default:
		return domain.ParallelCritical
	}
}

// ParallelRisk measures how exposed concurrently running steps are to a common
// upstream delay. It is 1.0 when nothing runs in parallel or no dependency is
// shared by two or more of the parallel steps; otherwise it grows by 0.15 per
// distinct upstream dependency, capped at 2.0.
func ParallelRisk(parallel []string, g domain.DependencyGraph) (float64, error) {
	if len(parallel) == 0 {
		return 1.0, nil
	}

	union := make(map[string]struct{})
	seenBy := make(map[string]int)
	for _, step := range uniqueSteps(parallel) {
		deps, ok := g[step]
		if !ok {
			return 0, domain.MissingStep(step)
		}
		for _, dep := range uniqueSteps(deps) {
			union[dep] = struct{}{}
			seenBy[dep]++
		}
	}

	shared := false
	for _, n := range seenBy {
		if n >= 2 {
			shared = true
			break
		}
	}
	if !shared {
		return 1.0, nil
	}

	risk := 1 + parallelRiskPerDependency*float64(len(union))
	if risk > maxParallelRisk {
		risk = maxParallelRisk
	}
	return risk, nil
}

// StepPair is an ordered pair of completed steps.
type StepPair struct {
	A, B string
}

func (p StepPair) String() string {
	return p.A + "->" + p.B
}

// MarshalText lets StepPair key JSON and YAML maps.
func (p StepPair) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Correlations computes the delay correlation of every ordered pair of
// distinct completed steps. Both (a,b) and (b,a) are present.
func Correlations(history map[string]float64, standard map[string]float64) (map[StepPair]float64, error) {
	ratios := make(map[string]float64, len(history))
	for id, actual := range history {
		std, ok := standard[id]
		if !ok || std <= 0 {
			return nil, domain.MissingStep(id)
		}
		ratios[id] = actual / std
	}

	out := make(map[StepPair]float64, len(ratios)*(len(ratios)-1))
	for a, ra := range ratios {
		for b, rb := range ratios {
			if a == b {
				continue
			}
			out[StepPair{A: a, B: b}] = ra * rb
		}
	}
	return out, nil
}

// MeanCorrelation averages the pair correlations, 0 when there are none.
func MeanCorrelation(corr map[StepPair]float64) float64 {
	if len(corr) == 0 {
		return 0
	}
	var sum float64
	for _, v := range corr {
		sum += v
	}
	return sum / float64(len(corr))
}

// SortedPairs returns the pairs of corr in a stable order.
func SortedPairs(corr map[StepPair]float64) []StepPair {
	pairs := make([]StepPair, 0, len(corr))
	for p := range corr {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

func uniqueSteps(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
