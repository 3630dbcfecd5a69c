package intelligence

import (
	"context"
	"math"
	"testing"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFeatures(t *testing.T) {
	f := ExtractFeatures(
		domain.Characteristics{DataVolume: 1, APIComplexity: 2},
		domain.ProgressSnapshot{
			ActiveParallelSteps: []string{"step3", "step4"},
			StepsTime:           map[string]float64{"step3": 1, "step4": 7},
		},
	)
	assert.Equal(t, RiskFeatures{
		DataVolume: 1, APIComplexity: 2, DataQuality: 0,
		CurrentStep: 4, DaysSpent: 7, ParallelStepsCount: 2,
	}, f)
}

func TestNearestNeighbourScorer_SlowReferenceIsScheduleRisk(t *testing.T) {
	scorer := NewNearestNeighbourScorer(SeedProjects(), 30)
	patterns, err := scorer.Score(context.Background(), RiskFeatures{
		DataVolume: 1, APIComplexity: 2, CurrentStep: 4, DaysSpent: 7, ParallelStepsCount: 2,
	})
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, 45.0, p.PredictedDays)
	assert.InDelta(t, 1/(1+math.Exp(-1.5)), p.RiskLevel, 1e-9)
	assert.Equal(t, p.RiskLevel, p.Probability)
	assert.Equal(t, domain.RiskSchedule, p.RiskType)
}

func TestNearestNeighbourScorer_FastReferenceIsNormal(t *testing.T) {
	scorer := NewNearestNeighbourScorer(SeedProjects(), 30)
	patterns, err := scorer.Score(context.Background(), RiskFeatures{DataQuality: 2, CurrentStep: 2, DaysSpent: 4, ParallelStepsCount: 1})
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, 20.0, patterns[0].PredictedDays)
	assert.Equal(t, domain.RiskNormal, patterns[0].RiskType)
	assert.Less(t, patterns[0].RiskLevel, 0.5)
}

func TestNearestNeighbourScorer_LevelsStayInUnitInterval(t *testing.T) {
	scorer := NewNearestNeighbourScorer(SeedProjects(), 30)
	for dv := 0; dv < 3; dv++ {
		for days := 0.0; days < 40; days += 7 {
			patterns, err := scorer.Score(context.Background(), RiskFeatures{DataVolume: dv, DaysSpent: days})
			require.NoError(t, err)
			for _, p := range patterns {
				assert.GreaterOrEqual(t, p.RiskLevel, 0.0)
				assert.LessOrEqual(t, p.RiskLevel, 1.0)
			}
		}
	}
}

func TestNearestNeighbourScorer_NoReferences(t *testing.T) {
	_, err := NewNearestNeighbourScorer(nil, 30).Score(context.Background(), RiskFeatures{})
	assert.Error(t, err)
}

func TestNearestNeighbourScorer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNearestNeighbourScorer(SeedProjects(), 30).Score(ctx, RiskFeatures{})
	assert.ErrorIs(t, err, context.Canceled)
}
