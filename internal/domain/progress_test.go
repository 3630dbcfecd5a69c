package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStandard = map[string]float64{"step1": 3, "step2": 7, "step3": 5, "step4": 5}

func testGraph() DependencyGraph {
	return DependencyGraph{
		"step1": {},
		"step2": {"step1"},
		"step3": {"step2"},
		"step4": {"step2"},
	}
}

func TestProgressSnapshot_Validate_OK(t *testing.T) {
	p := ProgressSnapshot{
		ActiveParallelSteps: []string{"step3", "step4"},
		StepsTime:           map[string]float64{"step3": 1, "step4": 7},
		StepsHistory:        map[string]float64{"step1": 3, "step2": 8},
		StepsDependencies:   testGraph(),
	}
	assert.NoError(t, p.Validate(testStandard))
}

func TestProgressSnapshot_Validate_UnknownDependency(t *testing.T) {
	g := testGraph()
	g["step4"] = []string{"step9"}
	p := ProgressSnapshot{StepsDependencies: g}

	err := p.Validate(testStandard)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingStepDefinition))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "step9", verr.ID)
}

func TestProgressSnapshot_Validate_StepMissingFromDurationTable(t *testing.T) {
	g := testGraph()
	g["step8"] = []string{"step1"}
	err := ProgressSnapshot{StepsDependencies: g}.Validate(testStandard)
	assert.ErrorIs(t, err, ErrMissingStepDefinition)
}

func TestProgressSnapshot_Validate_HistoryBeforeDependencies(t *testing.T) {
	p := ProgressSnapshot{
		StepsHistory:      map[string]float64{"step2": 7},
		StepsDependencies: testGraph(),
	}
	err := p.Validate(testStandard)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInconsistentHistory)
	assert.Contains(t, err.Error(), "step2")
}

func TestProgressSnapshot_Validate_NonPositiveHistory(t *testing.T) {
	for _, d := range []float64{0, -3} {
		p := ProgressSnapshot{
			StepsHistory:      map[string]float64{"step1": d},
			StepsDependencies: testGraph(),
		}
		err := p.Validate(testStandard)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDuration)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "step1", verr.ID)
	}
}

func TestProgressSnapshot_Validate_NegativeElapsed(t *testing.T) {
	p := ProgressSnapshot{
		ActiveParallelSteps: []string{"step3"},
		StepsTime:           map[string]float64{"step3": -1},
		StepsHistory:        map[string]float64{"step1": 3, "step2": 7},
		StepsDependencies:   testGraph(),
	}
	err := p.Validate(testStandard)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.Contains(t, err.Error(), "step3")

	p.StepsTime["step3"] = 0
	assert.NoError(t, p.Validate(testStandard))
}

func TestProgressSnapshot_CurrentStep_LargestElapsed(t *testing.T) {
	p := ProgressSnapshot{
		ActiveParallelSteps: []string{"step3", "step4"},
		StepsTime:           map[string]float64{"step3": 1, "step4": 7},
	}
	current, ok := p.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "step4", current)
	assert.Equal(t, 7.0, p.MaxElapsed())
}

func TestProgressSnapshot_CurrentStep_TieKeepsOrder(t *testing.T) {
	p := ProgressSnapshot{
		ActiveParallelSteps: []string{"step4", "step3"},
		StepsTime:           map[string]float64{"step3": 2, "step4": 2},
	}
	current, _ := p.CurrentStep()
	assert.Equal(t, "step4", current)
}

func TestProgressSnapshot_CurrentStep_NoneActive(t *testing.T) {
	_, ok := ProgressSnapshot{}.CurrentStep()
	assert.False(t, ok)
}

func TestDependencyGraph_Terminals(t *testing.T) {
	assert.Equal(t, []string{"step3", "step4"}, testGraph().Terminals())
}

func TestStepNumber(t *testing.T) {
	assert.Equal(t, 3, StepNumber("step3"))
	assert.Equal(t, 12, StepNumber("load12"))
	assert.Equal(t, 0, StepNumber("extract"))
}

func TestValidationError_Message(t *testing.T) {
	err := MissingStep("step9")
	assert.Equal(t, `MISSING_STEP_DEFINITION [step9]: step "step9" is not defined in the duration table`, err.Error())

	bare := NewValidationError(CodeEmptyActiveSteps, "", "no active steps to classify")
	assert.Equal(t, "EMPTY_ACTIVE_STEPS: no active steps to classify", bare.Error())
	assert.ErrorIs(t, bare, ErrEmptyActiveSteps)
}
