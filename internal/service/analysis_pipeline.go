package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/horizon/internal/config"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/intelligence"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

// RiskResult is the output of the risk pattern stage.
type RiskResult struct {
	Features  intelligence.RiskFeatures
	Patterns  []domain.RiskPattern
	RiskLevel float64
}

// StatisticsResult is the output of the statistics stage.
type StatisticsResult struct {
	CurrentStep  string
	Current      scheduler.StepMetrics
	Steps        map[string]scheduler.StepMetrics
	CriticalPath scheduler.CriticalPathResult
}

// FactorResult is the output of the factor/trend stage.
type FactorResult struct {
	Complexity        float64
	Factors           map[string]float64
	StepComplexity    float64
	Trend             scheduler.TrendAnalysis
	ParallelRisk      float64
	ParallelRiskLevel domain.ParallelRiskLevel
	Correlations      map[scheduler.StepPair]float64
	MeanCorrelation   float64
}

// EstimateResult is the output of the duration estimate stage.
type EstimateResult struct {
	Duration scheduler.DurationEstimate
	Target   scheduler.TargetEvaluation
	Progress scheduler.ProgressView
}

// CompletionResult is the output of the completion probability stage.
type CompletionResult struct {
	Model       domain.CompletionModel
	TotalTime   float64
	Base        float64
	Probability float64
	Adjustments *scheduler.CompletionAdjustments
}

// AnalysisContext carries one request through the pipeline. Inputs are set
// before the first stage; each stage fills exactly one result field.
type AnalysisContext struct {
	Characteristics domain.Characteristics
	Progress        domain.ProgressSnapshot
	Stats           *scheduler.HistoricalStats

	Risk       *RiskResult
	Statistics *StatisticsResult
	Factors    *FactorResult
	Warning    *scheduler.WarningResult
	Estimate   *EstimateResult
	Completion *CompletionResult
}

func (a AnalysisContext) results() map[string]any {
	out := make(map[string]any, 6)
	if a.Risk != nil {
		out["risk"] = a.Risk
	}
	if a.Statistics != nil {
		out["statistics"] = a.Statistics
	}
	if a.Factors != nil {
		out["factors"] = a.Factors
	}
	if a.Warning != nil {
		out["warning"] = a.Warning
	}
	if a.Estimate != nil {
		out["estimate"] = a.Estimate
	}
	if a.Completion != nil {
		out["completion"] = a.Completion
	}
	return out
}

// Stage is one named pipeline transform.
type Stage struct {
	Name string
	Run  func(ctx context.Context, in AnalysisContext) (AnalysisContext, error)
}

// Pipeline runs the fixed analysis stages in order.
type Pipeline struct {
	cfg        config.Config
	standard   map[string]float64
	complexity *scheduler.ComplexityModel
	completion *scheduler.CompletionModel
	scorer     intelligence.RiskScorer
	metrics    *PipelineMetrics
	stages     []Stage
}

func NewPipeline(cfg config.Config, scorer intelligence.RiskScorer, metrics *PipelineMetrics) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		standard:   cfg.StandardDurations(),
		complexity: scheduler.NewComplexityModel(cfg.Factors),
		completion: scheduler.NewCompletionModel(cfg.Completion.Coefficients, cfg.TargetDays),
		scorer:     scorer,
		metrics:    metrics,
	}
	p.stages = []Stage{
		{Name: "risk_pattern", Run: p.riskStage},
		{Name: "statistics", Run: p.statisticsStage},
		{Name: "factor", Run: p.factorStage},
		{Name: "warning", Run: p.warningStage},
		{Name: "estimate", Run: p.estimateStage},
		{Name: "completion", Run: p.completionStage},
	}
	return p
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// ResolveGraph returns the request graph, or the configured graph when the
// request leaves it out.
func (p *Pipeline) ResolveGraph(progress domain.ProgressSnapshot) domain.ProgressSnapshot {
	if len(progress.StepsDependencies) == 0 {
		progress.StepsDependencies = p.cfg.Dependencies.Clone()
	}
	return progress
}

// Validate checks a request before any stage runs.
func (p *Pipeline) Validate(c domain.Characteristics, progress domain.ProgressSnapshot) error {
	if _, err := p.complexity.Factors(c); err != nil {
		return err
	}
	if err := scheduler.ValidateGraph(progress.StepsDependencies); err != nil {
		return err
	}
	return progress.Validate(p.standard)
}

// Run validates the input and passes it through every stage. Any error
// aborts the analysis and no partial context is returned.
func (p *Pipeline) Run(ctx context.Context, in AnalysisContext) (*AnalysisContext, error) {
	in.Progress = p.ResolveGraph(in.Progress)
	if err := p.Validate(in.Characteristics, in.Progress); err != nil {
		return nil, err
	}
	if in.Stats == nil {
		in.Stats = scheduler.NewHistoricalStats(p.cfg.History, p.standard)
	}

	cur := in
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := cur.results()

		start := time.Now()
		next, err := stage.Run(ctx, cur)
		p.metrics.observeStage(stage.Name, time.Since(start).Seconds())
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", stage.Name, err)
		}

		after := next.results()
		for name, v := range before {
			if after[name] != v {
				return nil, fmt.Errorf("%s stage: overwrote %s result", stage.Name, name)
			}
		}
		cur = next
	}
	return &cur, nil
}

func (p *Pipeline) riskStage(ctx context.Context, in AnalysisContext) (AnalysisContext, error) {
	features := intelligence.ExtractFeatures(in.Characteristics, in.Progress)
	patterns, err := p.scorer.Score(ctx, features)
	if err != nil {
		return in, fmt.Errorf("scoring risk: %w", err)
	}
	in.Risk = &RiskResult{
		Features:  features,
		Patterns:  patterns,
		RiskLevel: domain.ScheduleRiskLevel(patterns),
	}
	return in, nil
}

func (p *Pipeline) statisticsStage(_ context.Context, in AnalysisContext) (AnalysisContext, error) {
	graph := in.Progress.StepsDependencies
	res := &StatisticsResult{Steps: make(map[string]scheduler.StepMetrics, len(graph))}
	for _, id := range graph.StepIDs() {
		m, err := in.Stats.Metrics(id)
		if err != nil {
			return in, err
		}
		res.Steps[id] = m
	}
	if current, ok := in.Progress.CurrentStep(); ok {
		m, err := in.Stats.Metrics(current)
		if err != nil {
			return in, err
		}
		res.CurrentStep = current
		res.Current = m
	}

	cp, err := scheduler.CriticalPath(graph, in.Progress.StepsTime, p.standard)
	if err != nil {
		return in, err
	}
	res.CriticalPath = cp
	in.Statistics = res
	return in, nil
}

func (p *Pipeline) factorStage(_ context.Context, in AnalysisContext) (AnalysisContext, error) {
	factors, err := p.complexity.Factors(in.Characteristics)
	if err != nil {
		return in, err
	}
	multiplier, err := p.complexity.Multiplier(in.Characteristics)
	if err != nil {
		return in, err
	}
	res := &FactorResult{
		Complexity:     multiplier,
		Factors:        factors,
		StepComplexity: 1,
	}

	if current := in.Statistics.CurrentStep; current != "" {
		if res.StepComplexity, err = scheduler.StepComplexity(current, in.Progress.StepsDependencies); err != nil {
			return in, err
		}
		if res.Trend, err = in.Stats.Trend(current); err != nil {
			return in, err
		}
	}

	if res.ParallelRisk, err = scheduler.ParallelRisk(in.Progress.ActiveParallelSteps, in.Progress.StepsDependencies); err != nil {
		return in, err
	}
	res.ParallelRiskLevel = p.cfg.Parallel.Classify(res.ParallelRisk)

	if res.Correlations, err = scheduler.Correlations(in.Progress.StepsHistory, p.standard); err != nil {
		return in, err
	}
	res.MeanCorrelation = scheduler.MeanCorrelation(res.Correlations)

	in.Factors = res
	return in, nil
}

func (p *Pipeline) warningStage(_ context.Context, in AnalysisContext) (AnalysisContext, error) {
	w, err := scheduler.EvaluateWarning(in.Progress.ActiveParallelSteps, in.Progress.StepsTime, p.standard, p.cfg.Warning)
	if err != nil {
		return in, err
	}
	in.Warning = &w
	return in, nil
}

func (p *Pipeline) estimateStage(_ context.Context, in AnalysisContext) (AnalysisContext, error) {
	est, err := scheduler.EstimateDuration(in.Progress, in.Factors.Complexity, in.Stats, p.standard)
	if err != nil {
		return in, err
	}
	progress, err := scheduler.EstimateProgress(in.Progress, in.Stats, p.standard)
	if err != nil {
		return in, err
	}
	in.Estimate = &EstimateResult{
		Duration: est,
		Target:   scheduler.EvaluateTarget(est.EstimatedDays, p.cfg.TargetDays),
		Progress: progress,
	}
	return in, nil
}

func (p *Pipeline) completionStage(_ context.Context, in AnalysisContext) (AnalysisContext, error) {
	total, err := p.completion.CompletionTime(in.Progress, in.Stats, p.standard)
	if err != nil {
		return in, err
	}
	base := p.completion.BaseProbability(total)
	res := &CompletionResult{
		Model:       p.cfg.Completion.Model,
		TotalTime:   total,
		Base:        base,
		Probability: base,
	}
	if res.Model == domain.CompletionAdjusted {
		adj := scheduler.CompletionAdjustments{
			TrendFactor:      in.Factors.Trend.TrendFactor,
			StepComplexity:   in.Factors.StepComplexity,
			MeanCorrelation:  in.Factors.MeanCorrelation,
			ParallelRisk:     in.Factors.ParallelRisk,
			DelayProbability: in.Factors.Trend.DelayProbability,
		}
		res.Adjustments = &adj
		res.Probability = p.completion.AdjustedProbability(base, adj)
	}
	in.Completion = res
	return in, nil
}
