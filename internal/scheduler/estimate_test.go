package scheduler

import (
	"testing"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateDuration_NoHistoryUsesStandardAndMeanMedianRatio(t *testing.T) {
	p := domain.ProgressSnapshot{
		ActiveParallelSteps: []string{"step3", "step4"},
		StepsTime:           map[string]float64{"step3": 1, "step4": 7},
		StepsDependencies:   integrationGraph(),
	}
	est, err := EstimateDuration(p, 1.92, newTestStats(), integrationStandard)
	require.NoError(t, err)

	// step4 samples: mean 34/6, median 5.5
	ratio := (34.0 / 6) / 5.5
	assert.Equal(t, domain.EstimateFromStandard, est.Mode)
	assert.Equal(t, "step4", est.CurrentStep)
	assert.InDelta(t, ratio, est.HistoricalRatio, 1e-9)
	assert.InDelta(t, 5*1.92*ratio, est.EstimatedDays, 1e-9)
	assert.Equal(t, 1.0, est.DelayFactor)
}

func TestEstimateDuration_WithHistoryUsesDelayFactor(t *testing.T) {
	p := domain.ProgressSnapshot{
		ActiveParallelSteps: []string{"step3", "step4"},
		StepsTime:           map[string]float64{"step3": 4, "step4": 2},
		StepsHistory:        map[string]float64{"step1": 6, "step2": 7},
		StepsDependencies:   integrationGraph(),
	}
	est, err := EstimateDuration(p, 1.0, newTestStats(), integrationStandard)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateFromHistory, est.Mode)
	assert.InDelta(t, 1.5, est.DelayFactor, 1e-9)
	assert.InDelta(t, 6.0, est.EstimatedDays, 1e-9)
}

func TestEstimateDuration_RequiresActiveSteps(t *testing.T) {
	for _, history := range []map[string]float64{nil, {"step1": 3}} {
		p := domain.ProgressSnapshot{StepsHistory: history, StepsDependencies: integrationGraph()}
		_, err := EstimateDuration(p, 1.0, newTestStats(), integrationStandard)
		assert.ErrorIs(t, err, domain.ErrEmptyActiveSteps)
	}
}

func TestEstimateDuration_ZeroMedianKeepsRatioAtOne(t *testing.T) {
	standard := map[string]float64{"a": 2}
	stats := NewHistoricalStats(map[string][]float64{"a": {0, 0, 3}}, standard)
	p := domain.ProgressSnapshot{ActiveParallelSteps: []string{"a"}, StepsDependencies: domain.DependencyGraph{"a": {}}}

	est, err := EstimateDuration(p, 1.5, stats, standard)
	require.NoError(t, err)
	assert.Equal(t, 1.0, est.HistoricalRatio)
	assert.InDelta(t, 3.0, est.EstimatedDays, 1e-9)
}

func TestDelayFactor(t *testing.T) {
	d, err := DelayFactor(nil, integrationStandard)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)

	d, err = DelayFactor(map[string]float64{"step1": 6, "step2": 7}, integrationStandard)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, d, 1e-9)

	_, err = DelayFactor(map[string]float64{"ghost": 1}, integrationStandard)
	assert.ErrorIs(t, err, domain.ErrMissingStepDefinition)
}

func TestEstimateProgress(t *testing.T) {
	p := domain.ProgressSnapshot{
		ActiveParallelSteps: []string{"step3"},
		StepsTime:           map[string]float64{"step3": 2},
		StepsHistory:        map[string]float64{"step1": 6, "step2": 7},
		StepsDependencies:   integrationGraph(),
	}
	view, err := EstimateProgress(p, newTestStats(), integrationStandard)
	require.NoError(t, err)

	baseline := (22.0 + 49 + 34 + 34 + 9 + 52 + 9) / 6
	remaining := baseline * (1 - 2.0/7) * 1.5
	assert.InDelta(t, baseline, view.BaselineDays, 1e-9)
	assert.Equal(t, 13.0, view.DaysSpent)
	assert.InDelta(t, 2.0/7, view.CompletionPercent, 1e-9)
	assert.InDelta(t, 1.5, view.DelayFactor, 1e-9)
	assert.InDelta(t, remaining, view.RemainingDays, 1e-9)
	assert.InDelta(t, 13+remaining, view.TotalDays, 1e-9)
}

func TestEstimateProgress_NoHistory(t *testing.T) {
	p := domain.ProgressSnapshot{StepsDependencies: integrationGraph()}
	view, err := EstimateProgress(p, newTestStats(), integrationStandard)
	require.NoError(t, err)
	assert.Zero(t, view.DaysSpent)
	assert.Equal(t, 1.0, view.DelayFactor)
	assert.InDelta(t, view.BaselineDays, view.TotalDays, 1e-9)
}
