package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/intelligence"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

type AnalysisRequest struct {
	Characteristics domain.Characteristics  `json:"characteristics" yaml:"characteristics"`
	CurrentProgress domain.ProgressSnapshot `json:"current_progress" yaml:"current_progress"`
	Bottleneck      string                  `json:"bottleneck,omitempty" yaml:"bottleneck,omitempty"`
	Project         string                  `json:"project,omitempty" yaml:"project,omitempty"`
	// Reallocate asks for a red-status allocation decision to be executed
	// rather than only reported.
	Reallocate bool `json:"reallocate,omitempty" yaml:"reallocate,omitempty"`
}

// StatisticalAnalysis holds the historical metrics of the current step and
// the critical path through the graph.
type StatisticalAnalysis struct {
	CurrentStep  string                           `json:"current_step" yaml:"current_step"`
	Metrics      scheduler.StepMetrics            `json:"metrics" yaml:"metrics"`
	Steps        map[string]scheduler.StepMetrics `json:"steps" yaml:"steps"`
	CriticalPath scheduler.CriticalPathResult     `json:"critical_path" yaml:"critical_path"`
}

type FactorAnalysis struct {
	ComplexityFactor  float64                        `json:"complexity_factor" yaml:"complexity_factor"`
	Factors           map[string]float64             `json:"factors" yaml:"factors"`
	StepComplexity    float64                        `json:"step_complexity" yaml:"step_complexity"`
	Trend             scheduler.TrendAnalysis        `json:"trend" yaml:"trend"`
	ParallelRisk      float64                        `json:"parallel_risk" yaml:"parallel_risk"`
	ParallelRiskLevel domain.ParallelRiskLevel       `json:"parallel_risk_level" yaml:"parallel_risk_level"`
	Correlations      map[scheduler.StepPair]float64 `json:"correlations" yaml:"correlations"`
	MeanCorrelation   float64                        `json:"mean_correlation" yaml:"mean_correlation"`
}

type Prediction struct {
	EstimatedDays    float64                    `json:"estimated_days" yaml:"estimated_days"`
	WarningStatus    domain.WarningStatus       `json:"warning_status" yaml:"warning_status"`
	ComplexityFactor float64                    `json:"complexity_factor" yaml:"complexity_factor"`
	StatisticalData  scheduler.StepMetrics      `json:"statistical_data" yaml:"statistical_data"`
	Estimate         scheduler.DurationEstimate `json:"estimate" yaml:"estimate"`
	Target           scheduler.TargetEvaluation `json:"target" yaml:"target"`
}

type CompletionAnalysis struct {
	Probability     float64                          `json:"probability" yaml:"probability"`
	Model           domain.CompletionModel           `json:"model" yaml:"model"`
	TotalTime       float64                          `json:"total_time" yaml:"total_time"`
	BaseProbability float64                          `json:"base_probability" yaml:"base_probability"`
	Adjustments     *scheduler.CompletionAdjustments `json:"adjustments,omitempty" yaml:"adjustments,omitempty"`
}

// AllocationResult reports the allocation decision and whether it was applied.
type AllocationResult struct {
	Action     domain.Action            `json:"action" yaml:"action"`
	Executed   bool                     `json:"executed" yaml:"executed"`
	ResourceID *string                  `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	Reason     string                   `json:"reason" yaml:"reason"`
	Staffing   []scheduler.StepStaffing `json:"staffing,omitempty" yaml:"staffing,omitempty"`
}

type RiskAssessment struct {
	Pattern     domain.RiskPattern      `json:"pattern" yaml:"pattern"`
	Step        string                  `json:"step" yaml:"step"`
	Impact      intelligence.RiskImpact `json:"impact" yaml:"impact"`
	Mitigations []string                `json:"mitigations" yaml:"mitigations"`
}

type AnalysisResponse struct {
	RunID                 string                   `json:"run_id" yaml:"run_id"`
	MLAnalysis            []domain.RiskPattern     `json:"ml_analysis" yaml:"ml_analysis"`
	StatisticalAnalysis   StatisticalAnalysis      `json:"statistical_analysis" yaml:"statistical_analysis"`
	FactorAnalysis        FactorAnalysis           `json:"factor_analysis" yaml:"factor_analysis"`
	WarningStatus         domain.WarningStatus     `json:"warning_status" yaml:"warning_status"`
	Warning               scheduler.WarningResult  `json:"warning" yaml:"warning"`
	Prediction            Prediction               `json:"prediction" yaml:"prediction"`
	CompletionProbability float64                  `json:"completion_probability" yaml:"completion_probability"`
	Completion            CompletionAnalysis       `json:"completion" yaml:"completion"`
	Progress              scheduler.ProgressView   `json:"progress" yaml:"progress"`
	Risks                 []RiskAssessment         `json:"risks" yaml:"risks"`
	ResourceStatus        scheduler.ResourceStatus `json:"resource_status" yaml:"resource_status"`
	Recommendations       []string                 `json:"recommendations" yaml:"recommendations"`
	Allocation            AllocationResult         `json:"allocation" yaml:"allocation"`
}

type AnalysisErrorCode string

const (
	AnalysisErrInvalidRequest AnalysisErrorCode = "INVALID_REQUEST"
)

type AnalysisError struct {
	Code    AnalysisErrorCode
	Message string
}

func (e *AnalysisError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// DecodeAnalysisRequest reads a JSON request. Unknown fields are rejected.
func DecodeAnalysisRequest(r io.Reader) (AnalysisRequest, error) {
	var req AnalysisRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return AnalysisRequest{}, &AnalysisError{
			Code:    AnalysisErrInvalidRequest,
			Message: fmt.Sprintf("decoding request: %v", err),
		}
	}
	return req, nil
}
