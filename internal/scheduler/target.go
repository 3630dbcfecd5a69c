package scheduler

// TargetEvaluation compares an estimate against the target horizon.
type TargetEvaluation struct {
	OnTime         bool    `json:"on_time" yaml:"on_time"`
	DeviationDays  float64 `json:"deviation_days" yaml:"deviation_days"`
	CompletionRate float64 `json:"completion_rate" yaml:"completion_rate"`
}

// EvaluateTarget reports how far estimatedDays lands from targetDays.
// CompletionRate is the share of the estimate that fits in the target, capped at 1.
func EvaluateTarget(estimatedDays, targetDays float64) TargetEvaluation {
	eval := TargetEvaluation{
		OnTime:        estimatedDays <= targetDays,
		DeviationDays: estimatedDays - targetDays,
	}
	if estimatedDays > 0 {
		eval.CompletionRate = targetDays / estimatedDays
		if eval.CompletionRate > 1 {
			eval.CompletionRate = 1
		}
	}
	return eval
}
