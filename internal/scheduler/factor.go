package scheduler

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/horizon/internal/domain"
)

// FactorTable maps a characteristic name to its multiplier per level.
// The slice index is the level.
type FactorTable map[string][]float64

// StepComplexityPerDependency is the structural complexity added per upstream dependency.
const StepComplexityPerDependency = 0.2

func DefaultFactorTable() FactorTable {
	return FactorTable{
		domain.CharDataVolume:    {1.0, 1.2, 1.5},
		domain.CharAPIComplexity: {1.0, 1.3, 1.6},
		domain.CharDataQuality:   {1.0, 1.2, 1.4},
	}
}

// Validate requires every characteristic to have three positive,
// non-decreasing factors.
func (f FactorTable) Validate() error {
	var errs []error
	for _, name := range domain.CharacteristicNames {
		row, ok := f[name]
		if !ok {
			errs = append(errs, fmt.Errorf("factors.%s is required", name))
			continue
		}
		if len(row) != 3 {
			errs = append(errs, fmt.Errorf("factors.%s must list 3 levels, got %d", name, len(row)))
			continue
		}
		for i, v := range row {
			if v <= 0 {
				errs = append(errs, fmt.Errorf("factors.%s[%d] must be positive", name, i))
			}
			if i > 0 && v < row[i-1] {
				errs = append(errs, fmt.Errorf("factors.%s must be non-decreasing (level %d < level %d)", name, i, i-1))
			}
		}
	}
	return errors.Join(errs...)
}

// ComplexityModel turns project characteristics into a multiplicative factor.
type ComplexityModel struct {
	factors FactorTable
}

func NewComplexityModel(factors FactorTable) *ComplexityModel {
	return &ComplexityModel{factors: factors}
}

// Factors returns the factor applied for each characteristic.
func (m *ComplexityModel) Factors(c domain.Characteristics) (map[string]float64, error) {
	out := make(map[string]float64, len(domain.CharacteristicNames))
	for _, name := range domain.CharacteristicNames {
		level, _ := c.Level(name)
		row := m.factors[name]
		if level < 0 || level >= len(row) {
			return nil, domain.NewValidationError(domain.CodeInvalidCharacteristicLevel, name,
				"%s level %d is outside 0..%d", name, level, len(row)-1)
		}
		out[name] = row[level]
	}
	return out, nil
}

// Multiplier is the product of the per-characteristic factors.
func (m *ComplexityModel) Multiplier(c domain.Characteristics) (float64, error) {
	factors, err := m.Factors(c)
	if err != nil {
		return 0, err
	}
	product := 1.0
	for _, name := range domain.CharacteristicNames {
		product *= factors[name]
	}
	return product, nil
}

// StepComplexity is 1 + 0.2 per upstream dependency of step.
func StepComplexity(step string, g domain.DependencyGraph) (float64, error) {
	deps, ok := g[step]
	if !ok {
		return 0, domain.MissingStep(step)
	}
	return 1 + StepComplexityPerDependency*float64(len(deps)), nil
}
