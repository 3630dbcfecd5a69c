package scheduler

import (
	"math"
	"sort"

	"github.com/alexanderramin/horizon/internal/domain"
)

// StepMetrics summarises a step's historical durations (population statistics).
type StepMetrics struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	StdDev float64 `json:"std" yaml:"std"`
}

// TrendAnalysis describes how a step's recent durations are moving.
type TrendAnalysis struct {
	TrendFactor      float64 `json:"trend_factor" yaml:"trend_factor"`
	StdDev           float64 `json:"std" yaml:"std"`
	DelayProbability float64 `json:"delay_probability" yaml:"delay_probability"`
}

// trendWindow is the number of most recent samples used for the trend.
const trendWindow = 3

// HistoricalStats answers statistical questions over per-step duration samples.
// Samples are in chronological order. A step that is defined in the duration
// table but has no samples uses its standard duration as a single sample.
type HistoricalStats struct {
	samples map[string][]float64
}

// NewHistoricalStats copies samples and fills steps without samples from standard.
func NewHistoricalStats(samples map[string][]float64, standard map[string]float64) *HistoricalStats {
	out := make(map[string][]float64, len(standard))
	for id, days := range standard {
		out[id] = []float64{days}
	}
	for id, s := range samples {
		if len(s) == 0 {
			continue
		}
		out[id] = append([]float64(nil), s...)
	}
	return &HistoricalStats{samples: out}
}

// Samples returns a copy of the step's samples.
func (h *HistoricalStats) Samples(step string) ([]float64, error) {
	s, ok := h.samples[step]
	if !ok {
		return nil, domain.MissingStep(step)
	}
	return append([]float64(nil), s...), nil
}

func (h *HistoricalStats) Metrics(step string) (StepMetrics, error) {
	s, ok := h.samples[step]
	if !ok {
		return StepMetrics{}, domain.MissingStep(step)
	}
	return StepMetrics{
		Mean:   mean(s),
		Median: median(s),
		StdDev: stdDev(s),
	}, nil
}

// Trend averages the first differences of the last three samples.
// Fewer than two samples give a zero trend.
func (h *HistoricalStats) Trend(step string) (TrendAnalysis, error) {
	s, ok := h.samples[step]
	if !ok {
		return TrendAnalysis{}, domain.MissingStep(step)
	}
	recent := s
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}

	var trend float64
	if len(recent) >= 2 {
		var sum float64
		for i := 1; i < len(recent); i++ {
			sum += recent[i] - recent[i-1]
		}
		trend = sum / float64(len(recent)-1)
	}

	return TrendAnalysis{
		TrendFactor:      trend,
		StdDev:           stdDev(s),
		DelayProbability: delayProbability(s),
	}, nil
}

// DelayProbability is the fraction of samples strictly above the step's mean.
func (h *HistoricalStats) DelayProbability(step string) (float64, error) {
	s, ok := h.samples[step]
	if !ok {
		return 0, domain.MissingStep(step)
	}
	return delayProbability(s), nil
}

func mean(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

func median(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	sorted := append([]float64(nil), s...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stdDev(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	m := mean(s)
	var sq float64
	for _, v := range s {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(s)))
}

func delayProbability(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	m := mean(s)
	var over int
	for _, v := range s {
		if v > m {
			over++
		}
	}
	return float64(over) / float64(len(s))
}
