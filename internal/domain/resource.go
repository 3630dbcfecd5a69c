package domain

import "time"

// Resource is a unit of team capacity. Availability is the free fraction in [0,1].
type Resource struct {
	ID             string       `json:"id" yaml:"id"`
	Type           ResourceType `json:"type" yaml:"type"`
	SkillLevel     int          `json:"skill_level" yaml:"skill_level"`
	Availability   float64      `json:"availability" yaml:"availability"`
	CurrentProject *string      `json:"current_project,omitempty" yaml:"current_project,omitempty"`
	CreatedAt      time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Utilization is the share of the resource already in use.
func (r *Resource) Utilization() float64 {
	return 1 - r.Availability
}

// RiskPattern is the risk signal produced by a RiskScorer.
type RiskPattern struct {
	RiskLevel     float64  `json:"risk_level" yaml:"risk_level"`
	RiskType      RiskType `json:"risk_type" yaml:"risk_type"`
	Probability   float64  `json:"probability" yaml:"probability"`
	PredictedDays float64  `json:"predicted_days" yaml:"predicted_days"`
}

// ScheduleRiskLevel returns the risk level of the first schedule_risk pattern, or 0.
func ScheduleRiskLevel(patterns []RiskPattern) float64 {
	for _, p := range patterns {
		if p.RiskType == RiskSchedule {
			return p.RiskLevel
		}
	}
	return 0
}

// AnalysisRun is the persisted summary of one completed analysis.
type AnalysisRun struct {
	ID                    string          `json:"id" yaml:"id"`
	EstimatedDays         float64         `json:"estimated_days" yaml:"estimated_days"`
	WarningStatus         WarningStatus   `json:"warning_status" yaml:"warning_status"`
	CompletionProbability float64         `json:"completion_probability" yaml:"completion_probability"`
	CompletionModel       CompletionModel `json:"completion_model" yaml:"completion_model"`
	Action                Action          `json:"action" yaml:"action"`
	ResourceID            *string         `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	CreatedAt             time.Time       `json:"created_at" yaml:"created_at"`
}

// StepSample is one historical duration observation for a step.
type StepSample struct {
	StepID     string
	Days       float64
	RecordedAt time.Time
}
