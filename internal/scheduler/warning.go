package scheduler

import (
	"fmt"

	"github.com/alexanderramin/horizon/internal/domain"
)

// WarningThresholds are the elapsed/standard ratios at which a schedule turns
// yellow and red.
type WarningThresholds struct {
	Yellow float64 `yaml:"yellow"`
	Red    float64 `yaml:"red"`
}

func DefaultWarningThresholds() WarningThresholds {
	return WarningThresholds{Yellow: 1.2, Red: 1.5}
}

func (t WarningThresholds) Validate() error {
	if t.Yellow <= 0 || t.Red < t.Yellow {
		return fmt.Errorf("warning thresholds must satisfy 0 < yellow <= red (yellow=%.2f, red=%.2f)", t.Yellow, t.Red)
	}
	return nil
}

func (t WarningThresholds) Classify(ratio float64) domain.WarningStatus {
	switch {
	case ratio >= t.Red:
		return domain.WarningRed
	case ratio >= t.Yellow:
		return domain.WarningYellow
	default:
		return domain.WarningGreen
	}
}

// WarningResult is the warning status with the ratio and step that drove it.
type WarningResult struct {
	Status domain.WarningStatus `json:"status" yaml:"status"`
	Ratio  float64              `json:"ratio" yaml:"ratio"`
	Step   string               `json:"step" yaml:"step"`
}

// EvaluateWarning classifies the worst elapsed/standard ratio across active
// steps. An active step without a reported elapsed time counts as 0.
func EvaluateWarning(active []string, elapsed, standard map[string]float64, t WarningThresholds) (WarningResult, error) {
	if len(active) == 0 {
		return WarningResult{}, domain.NewValidationError(domain.CodeEmptyActiveSteps, "",
			"no active steps to evaluate")
	}

	var result WarningResult
	for i, step := range active {
		std, ok := standard[step]
		if !ok || std <= 0 {
			return WarningResult{}, domain.MissingStep(step)
		}
		ratio := elapsed[step] / std
		if i == 0 || ratio > result.Ratio {
			result.Ratio = ratio
			result.Step = step
		}
	}
	result.Status = t.Classify(result.Ratio)
	return result, nil
}
