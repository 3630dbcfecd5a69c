package intelligence

import (
	"github.com/alexanderramin/horizon/internal/domain"
)

// ImpactWeights scale the schedule, resource and quality impact of a risk.
type ImpactWeights struct {
	Schedule float64 `yaml:"schedule"`
	Resource float64 `yaml:"resource"`
	Quality  float64 `yaml:"quality"`
}

func DefaultImpactWeights() ImpactWeights {
	return ImpactWeights{Schedule: 1.0, Resource: 1.0, Quality: 1.0}
}

// RiskImpact is the projected effect of a risk pattern from a given step on.
type RiskImpact struct {
	Schedule float64 `json:"schedule_impact" yaml:"schedule_impact"`
	Resource float64 `json:"resource_impact" yaml:"resource_impact"`
	Quality  float64 `json:"quality_impact" yaml:"quality_impact"`
}

const (
	qualityRiskShare = 0.9

	scheduleImpactLimit = 5
	resourceImpactLimit = 0.7
	qualityImpactLimit  = 0.8
)

// Mitigation texts.
const (
	MitigationAddSeniors       = "Add experienced developers"
	MitigationOptimiseStaffing = "Optimise resource allocation"
	MitigationStrengthenQA     = "Strengthen quality control"
)

// Impact weighs the standard duration of every step numbered after step by
// the pattern's probability.
func Impact(p domain.RiskPattern, step string, standard map[string]float64, w ImpactWeights) RiskImpact {
	current := domain.StepNumber(step)
	var remaining float64
	for id, days := range standard {
		if domain.StepNumber(id) > current {
			remaining += days
		}
	}
	exposure := p.Probability * remaining
	return RiskImpact{
		Schedule: exposure * w.Schedule,
		Resource: exposure * w.Resource,
		Quality:  p.Probability * qualityRiskShare * w.Quality,
	}
}

// SuggestMitigations lists the mitigations whose impact crosses its limit.
func SuggestMitigations(p domain.RiskPattern, step string, standard map[string]float64, w ImpactWeights) []string {
	impact := Impact(p, step, standard, w)
	var out []string
	if impact.Schedule > scheduleImpactLimit {
		out = append(out, MitigationAddSeniors)
	}
	if impact.Resource > resourceImpactLimit {
		out = append(out, MitigationOptimiseStaffing)
	}
	if impact.Quality > qualityImpactLimit {
		out = append(out, MitigationStrengthenQA)
	}
	return out
}
