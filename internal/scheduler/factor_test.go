package scheduler

import (
	"errors"
	"testing"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplier_ProductOfFactors(t *testing.T) {
	m := NewComplexityModel(DefaultFactorTable())
	got, err := m.Multiplier(domain.Characteristics{DataVolume: 1, APIComplexity: 2, DataQuality: 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.92, got, 1e-9)
}

func TestMultiplier_AllLowIsOne(t *testing.T) {
	m := NewComplexityModel(DefaultFactorTable())
	got, err := m.Multiplier(domain.Characteristics{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestMultiplier_InvalidLevel(t *testing.T) {
	m := NewComplexityModel(DefaultFactorTable())
	_, err := m.Multiplier(domain.Characteristics{DataVolume: 0, APIComplexity: 3})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.CodeInvalidCharacteristicLevel, verr.Code)
	assert.Equal(t, domain.CharAPIComplexity, verr.ID)

	_, err = m.Multiplier(domain.Characteristics{DataQuality: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidCharacteristicLevel)
}

func TestMultiplier_NonDecreasingInEachLevel(t *testing.T) {
	m := NewComplexityModel(DefaultFactorTable())
	for dv := 0; dv < 3; dv++ {
		for ac := 0; ac < 3; ac++ {
			for dq := 0; dq < 3; dq++ {
				base, err := m.Multiplier(domain.Characteristics{DataVolume: dv, APIComplexity: ac, DataQuality: dq})
				require.NoError(t, err)
				if dv < 2 {
					next, _ := m.Multiplier(domain.Characteristics{DataVolume: dv + 1, APIComplexity: ac, DataQuality: dq})
					assert.GreaterOrEqual(t, next, base)
				}
				if ac < 2 {
					next, _ := m.Multiplier(domain.Characteristics{DataVolume: dv, APIComplexity: ac + 1, DataQuality: dq})
					assert.GreaterOrEqual(t, next, base)
				}
				if dq < 2 {
					next, _ := m.Multiplier(domain.Characteristics{DataVolume: dv, APIComplexity: ac, DataQuality: dq + 1})
					assert.GreaterOrEqual(t, next, base)
				}
			}
		}
	}
}

func TestFactorTable_Validate(t *testing.T) {
	assert.NoError(t, DefaultFactorTable().Validate())

	bad := DefaultFactorTable()
	bad[domain.CharDataVolume] = []float64{1.0, 0.9, 1.5}
	delete(bad, domain.CharDataQuality)
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factors.data_volume must be non-decreasing")
	assert.Contains(t, err.Error(), "factors.data_quality is required")
}

func TestStepComplexity_GrowsWithDependencies(t *testing.T) {
	g := integrationGraph()

	c, err := StepComplexity("step1", g)
	require.NoError(t, err)
	assert.Equal(t, 1.0, c)

	c, err = StepComplexity("step5", g)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, c, 1e-9)

	_, err = StepComplexity("step9", g)
	assert.ErrorIs(t, err, domain.ErrMissingStepDefinition)
}
