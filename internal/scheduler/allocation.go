package scheduler

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/horizon/internal/domain"
)

// AllocationRules are the constants of the reallocation rule engine.
type AllocationRules struct {
	RiskThreshold   float64 `yaml:"risk_threshold"`
	SeniorSkill     int     `yaml:"senior_skill"`
	MinAvailability float64 `yaml:"min_availability"`
	AssignmentShare float64 `yaml:"assignment_share"`
}

func DefaultAllocationRules() AllocationRules {
	return AllocationRules{
		RiskThreshold:   0.7,
		SeniorSkill:     7,
		MinAvailability: 0.3,
		AssignmentShare: 0.5,
	}
}

func (r AllocationRules) Validate() error {
	if r.RiskThreshold < 0 || r.RiskThreshold > 1 {
		return fmt.Errorf("allocation.risk_threshold must be in [0, 1], got %.2f", r.RiskThreshold)
	}
	if r.SeniorSkill < 0 || r.SeniorSkill > 10 {
		return fmt.Errorf("allocation.senior_skill must be in [0, 10], got %d", r.SeniorSkill)
	}
	if r.AssignmentShare <= 0 || r.AssignmentShare > 1 {
		return fmt.Errorf("allocation.assignment_share must be in (0, 1], got %.2f", r.AssignmentShare)
	}
	if r.MinAvailability < 0 || r.MinAvailability > 1 {
		return fmt.Errorf("allocation.min_availability must be in [0, 1], got %.2f", r.MinAvailability)
	}
	return nil
}

// Available reports whether a resource has enough free capacity to be considered.
func (r AllocationRules) Available(res domain.Resource) bool {
	return res.Availability > r.MinAvailability
}

// IsSenior reports whether res can take a senior assignment: skill above the
// senior bar and enough availability left to give up one share.
func (r AllocationRules) IsSenior(res domain.Resource) bool {
	return r.Available(res) && res.SkillLevel > r.SeniorSkill && res.Availability >= r.AssignmentShare
}

// PickSenior chooses the senior resource to assign: highest skill, then
// highest availability, then lowest id.
func (r AllocationRules) PickSenior(resources []domain.Resource) (domain.Resource, bool) {
	var seniors []domain.Resource
	for _, res := range resources {
		if r.IsSenior(res) {
			seniors = append(seniors, res)
		}
	}
	if len(seniors) == 0 {
		return domain.Resource{}, false
	}
	sort.SliceStable(seniors, func(i, j int) bool {
		if seniors[i].SkillLevel != seniors[j].SkillLevel {
			return seniors[i].SkillLevel > seniors[j].SkillLevel
		}
		if seniors[i].Availability != seniors[j].Availability {
			return seniors[i].Availability > seniors[j].Availability
		}
		return seniors[i].ID < seniors[j].ID
	})
	return seniors[0], true
}

// Decision is the outcome of the allocation rules before anything is committed.
type Decision struct {
	Action   domain.Action
	Resource *domain.Resource
	Reason   string
}

// Decide applies the allocation rules to a risk level. It never mutates resources.
func (r AllocationRules) Decide(riskLevel float64, bottleneck string, resources []domain.Resource) Decision {
	if riskLevel > r.RiskThreshold {
		if senior, ok := r.PickSenior(resources); ok {
			return Decision{
				Action:   domain.ActionAssignSeniorDeveloper,
				Resource: &senior,
				Reason:   fmt.Sprintf("risk level %.2f above %.2f, senior %s available", riskLevel, r.RiskThreshold, senior.ID),
			}
		}
		if bottleneck == domain.BottleneckPerformance {
			return Decision{
				Action: domain.ActionScaleInfrastructure,
				Reason: fmt.Sprintf("risk level %.2f above %.2f with a performance bottleneck", riskLevel, r.RiskThreshold),
			}
		}
	}
	return Decision{
		Action: domain.ActionContinueMonitoring,
		Reason: fmt.Sprintf("risk level %.2f, no reallocation rule applies", riskLevel),
	}
}

// Bottleneck severities reported by ResourceStatus.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"

	criticalAvailability = 0.1
	highAvailability     = 0.3
)

// ResourceLoad is one resource's capacity as seen by the status report.
type ResourceLoad struct {
	ID           string              `json:"id" yaml:"id"`
	Type         domain.ResourceType `json:"type" yaml:"type"`
	SkillLevel   int                 `json:"skill_level" yaml:"skill_level"`
	Availability float64             `json:"availability" yaml:"availability"`
	Utilization  float64             `json:"utilization" yaml:"utilization"`
}

// ResourceBottleneck flags a resource that is close to fully booked.
type ResourceBottleneck struct {
	ResourceID string `json:"resource_id" yaml:"resource_id"`
	Severity   string `json:"severity" yaml:"severity"`
}

// ResourceStatus summarises registry capacity.
type ResourceStatus struct {
	Resources          []ResourceLoad       `json:"resources" yaml:"resources"`
	AvailableCount     int                  `json:"available_count" yaml:"available_count"`
	MeanUtilization    float64              `json:"mean_utilization" yaml:"mean_utilization"`
	Bottlenecks        []ResourceBottleneck `json:"bottlenecks" yaml:"bottlenecks"`
	SeniorAvailability bool                 `json:"senior_available" yaml:"senior_available"`
}

func (r AllocationRules) Status(resources []domain.Resource) ResourceStatus {
	status := ResourceStatus{
		Resources:   make([]ResourceLoad, 0, len(resources)),
		Bottlenecks: []ResourceBottleneck{},
	}
	var util float64
	for _, res := range resources {
		status.Resources = append(status.Resources, ResourceLoad{
			ID:           res.ID,
			Type:         res.Type,
			SkillLevel:   res.SkillLevel,
			Availability: res.Availability,
			Utilization:  res.Utilization(),
		})
		util += res.Utilization()
		if r.Available(res) {
			status.AvailableCount++
		}
		if r.IsSenior(res) {
			status.SeniorAvailability = true
		}
		switch {
		case res.Availability < criticalAvailability:
			status.Bottlenecks = append(status.Bottlenecks, ResourceBottleneck{ResourceID: res.ID, Severity: SeverityCritical})
		case res.Availability < highAvailability:
			status.Bottlenecks = append(status.Bottlenecks, ResourceBottleneck{ResourceID: res.ID, Severity: SeverityHigh})
		}
	}
	if len(resources) > 0 {
		status.MeanUtilization = util / float64(len(resources))
	}
	return status
}

// StepRequirement is the minimum profile a resource needs to staff a step.
// An empty PreferredType accepts any type.
type StepRequirement struct {
	MinSkill      int                 `yaml:"min_skill" json:"min_skill"`
	PreferredType domain.ResourceType `yaml:"preferred_type" json:"preferred_type"`
}

// StepStaffing is the proposed resource for one critical-path step.
type StepStaffing struct {
	Step       string  `json:"step" yaml:"step"`
	ResourceID string  `json:"resource_id" yaml:"resource_id"`
	Share      float64 `json:"share" yaml:"share"`
}

const (
	defaultStepMinSkill = 5
	seniorShareDiscount = 0.8
)

// PlanStaffing proposes the most skilled available resource matching each
// step's requirement. Seniors need a smaller share of their time. The plan is
// advisory and never changes availability.
func (r AllocationRules) PlanStaffing(steps []string, resources []domain.Resource, reqs map[string]StepRequirement) []StepStaffing {
	var plan []StepStaffing
	for _, step := range steps {
		req, ok := reqs[step]
		if !ok {
			req = StepRequirement{MinSkill: defaultStepMinSkill}
		}

		var best *domain.Resource
		for i := range resources {
			res := &resources[i]
			if !r.Available(*res) || res.SkillLevel < req.MinSkill {
				continue
			}
			if req.PreferredType != "" && res.Type != req.PreferredType {
				continue
			}
			if best == nil || res.SkillLevel > best.SkillLevel {
				best = res
			}
		}
		if best == nil {
			continue
		}

		share := r.AssignmentShare
		if best.SkillLevel > r.SeniorSkill {
			share *= seniorShareDiscount
		}
		if best.Availability < share {
			share = best.Availability
		}
		plan = append(plan, StepStaffing{Step: step, ResourceID: best.ID, Share: share})
	}
	return plan
}
