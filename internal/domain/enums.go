package domain

type WarningStatus string

const (
	WarningGreen  WarningStatus = "green"
	WarningYellow WarningStatus = "yellow"
	WarningRed    WarningStatus = "red"
)

type RiskType string

const (
	RiskSchedule RiskType = "schedule_risk"
	RiskNormal   RiskType = "normal"
)

type ParallelRiskLevel string

const (
	ParallelSafe     ParallelRiskLevel = "safe"
	ParallelWarning  ParallelRiskLevel = "warning"
	ParallelCritical ParallelRiskLevel = "critical"
)

// Action is the outcome of the resource allocation rules.
type Action string

const (
	ActionAssignSeniorDeveloper Action = "ASSIGN_SENIOR_DEVELOPER"
	ActionScaleInfrastructure   Action = "SCALE_INFRASTRUCTURE"
	ActionContinueMonitoring    Action = "CONTINUE_MONITORING"
)

type ResourceType string

const (
	ResourceDeveloper ResourceType = "developer"
	ResourceAnalyst   ResourceType = "analyst"
)

// ValidResourceTypes is the canonical set of accepted resource type strings.
var ValidResourceTypes = map[string]bool{
	"developer": true, "analyst": true,
}

// EstimateMode records which duration formula produced an estimate.
type EstimateMode string

const (
	EstimateFromStandard EstimateMode = "standard"
	EstimateFromHistory  EstimateMode = "history"
)

type CompletionModel string

const (
	CompletionBasic    CompletionModel = "basic"
	CompletionAdjusted CompletionModel = "adjusted"
)

// BottleneckPerformance tags a project whose slowdown is infrastructure bound.
const BottleneckPerformance = "performance"
