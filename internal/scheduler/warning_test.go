package scheduler

import (
	"testing"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateWarning_WorstRatioWins(t *testing.T) {
	result, err := EvaluateWarning(
		[]string{"step3", "step4"},
		map[string]float64{"step3": 1, "step4": 7},
		integrationStandard,
		DefaultWarningThresholds(),
	)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, result.Ratio, 1e-9)
	assert.Equal(t, "step4", result.Step)
	assert.Equal(t, domain.WarningYellow, result.Status)
}

func TestEvaluateWarning_EmptyActiveSteps(t *testing.T) {
	_, err := EvaluateWarning(nil, nil, integrationStandard, DefaultWarningThresholds())
	assert.ErrorIs(t, err, domain.ErrEmptyActiveSteps)
}

func TestEvaluateWarning_MissingElapsedCountsAsZero(t *testing.T) {
	result, err := EvaluateWarning([]string{"step3"}, nil, integrationStandard, DefaultWarningThresholds())
	require.NoError(t, err)
	assert.Zero(t, result.Ratio)
	assert.Equal(t, domain.WarningGreen, result.Status)
}

func TestEvaluateWarning_UnknownStep(t *testing.T) {
	_, err := EvaluateWarning([]string{"ghost"}, map[string]float64{"ghost": 1}, integrationStandard, DefaultWarningThresholds())
	assert.ErrorIs(t, err, domain.ErrMissingStepDefinition)
}

func TestWarningThresholds_ClassifyIsMonotonic(t *testing.T) {
	th := DefaultWarningThresholds()
	cases := []struct {
		ratio float64
		want  domain.WarningStatus
	}{
		{0, domain.WarningGreen},
		{1.19, domain.WarningGreen},
		{1.2, domain.WarningYellow},
		{1.49, domain.WarningYellow},
		{1.5, domain.WarningRed},
		{3, domain.WarningRed},
	}
	rank := map[domain.WarningStatus]int{domain.WarningGreen: 0, domain.WarningYellow: 1, domain.WarningRed: 2}
	prev := -1
	for _, tc := range cases {
		got := th.Classify(tc.ratio)
		assert.Equal(t, tc.want, got, "ratio %.2f", tc.ratio)
		assert.GreaterOrEqual(t, rank[got], prev)
		prev = rank[got]
	}
}

func TestWarningThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultWarningThresholds().Validate())
	assert.Error(t, WarningThresholds{Yellow: 1.6, Red: 1.5}.Validate())
	assert.Error(t, WarningThresholds{Yellow: 0, Red: 1.5}.Validate())
}
