package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/intelligence"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

const firedRiskLevel = 0.7

// assessRisks projects the impact of every fired risk pattern from each
// active step and lists its mitigations.
func assessRisks(patterns []domain.RiskPattern, active []string, standard map[string]float64, w intelligence.ImpactWeights) []app.RiskAssessment {
	out := []app.RiskAssessment{}
	for _, p := range patterns {
		if p.RiskLevel <= firedRiskLevel {
			continue
		}
		for _, step := range active {
			mitigations := intelligence.SuggestMitigations(p, step, standard, w)
			if mitigations == nil {
				mitigations = []string{}
			}
			out = append(out, app.RiskAssessment{
				Pattern:     p,
				Step:        step,
				Impact:      intelligence.Impact(p, step, standard, w),
				Mitigations: mitigations,
			})
		}
	}
	return out
}

// startableSteps returns steps that are neither done nor active and whose
// dependencies are all done, sorted.
func startableSteps(p domain.ProgressSnapshot) []string {
	var out []string
	for _, id := range p.StepsDependencies.StepIDs() {
		if _, done := p.StepsHistory[id]; done || p.IsActive(id) {
			continue
		}
		ready := true
		for _, dep := range p.StepsDependencies[id] {
			if _, done := p.StepsHistory[dep]; !done {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func buildRecommendations(
	status domain.WarningStatus,
	risks []app.RiskAssessment,
	progress domain.ProgressSnapshot,
	decision scheduler.Decision,
	executed bool,
) []string {
	recs := []string{}
	if status == domain.WarningRed {
		recs = append(recs, "Immediate intervention required: active steps are well past their standard duration")
	}

	seen := make(map[string]bool)
	for _, r := range risks {
		for _, m := range r.Mitigations {
			msg := fmt.Sprintf("%s (%s from %s)", m, r.Pattern.RiskType, r.Step)
			if !seen[msg] {
				seen[msg] = true
				recs = append(recs, msg)
			}
		}
	}

	if len(progress.ActiveParallelSteps) > 0 {
		recs = append(recs, "Focus on active steps: "+strings.Join(progress.ActiveParallelSteps, ", "))
	}
	if next := startableSteps(progress); len(next) > 0 {
		recs = append(recs, "Can start in parallel: "+strings.Join(next, ", "))
	}

	switch decision.Action {
	case domain.ActionAssignSeniorDeveloper:
		id := ""
		if decision.Resource != nil {
			id = decision.Resource.ID
		}
		if executed {
			recs = append(recs, fmt.Sprintf("Assigned senior developer %s", id))
		} else {
			recs = append(recs, fmt.Sprintf("Consider assigning senior developer %s", id))
		}
	case domain.ActionScaleInfrastructure:
		recs = append(recs, "Scale infrastructure to relieve the performance bottleneck")
	}
	return recs
}
