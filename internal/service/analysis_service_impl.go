package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/horizon/internal/app"
	"github.com/alexanderramin/horizon/internal/config"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/repository"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

type analysisService struct {
	cfg       config.Config
	standard  map[string]float64
	pipeline  *Pipeline
	allocator *Allocator
	samples   repository.SampleRepo
	metrics   *PipelineMetrics
	observer  UseCaseObserver
}

func NewAnalysisService(
	cfg config.Config,
	pipeline *Pipeline,
	allocator *Allocator,
	samples repository.SampleRepo,
	metrics *PipelineMetrics,
	observers ...UseCaseObserver,
) AnalysisService {
	return &analysisService{
		cfg:       cfg,
		standard:  cfg.StandardDurations(),
		pipeline:  pipeline,
		allocator: allocator,
		samples:   samples,
		metrics:   metrics,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *analysisService) Analyze(ctx context.Context, req app.AnalysisRequest) (resp *app.AnalysisResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"active_steps": len(req.CurrentProgress.ActiveParallelSteps),
		"reallocate":   req.Reallocate,
	}
	defer func() {
		if err != nil {
			code := "INTERNAL"
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				code = string(verr.Code)
			}
			fields["error_code"] = code
			s.metrics.observeFailure(code)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "analyze",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	stats, err := s.loadStats(ctx)
	if err != nil {
		return nil, err
	}

	actx, err := s.pipeline.Run(ctx, AnalysisContext{
		Characteristics: req.Characteristics,
		Progress:        req.CurrentProgress,
		Stats:           stats,
	})
	if err != nil {
		return nil, err
	}

	run := &domain.AnalysisRun{
		ID:                    uuid.New().String(),
		EstimatedDays:         actx.Estimate.Duration.EstimatedDays,
		WarningStatus:         actx.Warning.Status,
		CompletionProbability: actx.Completion.Probability,
		CompletionModel:       actx.Completion.Model,
		CreatedAt:             startedAt,
	}
	outcome, err := s.allocator.Allocate(ctx, AllocationInput{
		Run:          run,
		RiskLevel:    actx.Risk.RiskLevel,
		Bottleneck:   req.Bottleneck,
		Project:      req.Project,
		Reallocate:   req.Reallocate,
		CriticalPath: actx.Statistics.CriticalPath.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("allocating resources: %w", err)
	}

	fields["run_id"] = run.ID
	fields["warning_status"] = string(run.WarningStatus)
	fields["action"] = string(run.Action)
	s.metrics.observeAnalysis(string(run.WarningStatus))

	return s.buildResponse(run, actx, outcome), nil
}

func (s *analysisService) CriticalPath(ctx context.Context, progress domain.ProgressSnapshot) (scheduler.CriticalPathResult, error) {
	progress = s.pipeline.ResolveGraph(progress)
	if err := scheduler.ValidateGraph(progress.StepsDependencies); err != nil {
		return scheduler.CriticalPathResult{}, err
	}
	return scheduler.CriticalPath(progress.StepsDependencies, progress.StepsTime, s.standard)
}

// loadStats builds historical statistics from recorded samples, falling back
// to the configured seed history when nothing has been recorded.
func (s *analysisService) loadStats(ctx context.Context) (*scheduler.HistoricalStats, error) {
	samples, err := s.samples.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading step samples: %w", err)
	}
	if len(samples) == 0 {
		samples = s.cfg.History
	}
	return scheduler.NewHistoricalStats(samples, s.standard), nil
}

func (s *analysisService) buildResponse(run *domain.AnalysisRun, actx *AnalysisContext, outcome *AllocationOutcome) *app.AnalysisResponse {
	risks := assessRisks(actx.Risk.Patterns, actx.Progress.ActiveParallelSteps, s.standard, s.cfg.Impact)

	alloc := app.AllocationResult{
		Action:     outcome.Decision.Action,
		Executed:   outcome.Executed,
		ResourceID: run.ResourceID,
		Reason:     outcome.Decision.Reason,
		Staffing:   outcome.Staffing,
	}

	return &app.AnalysisResponse{
		RunID:      run.ID,
		MLAnalysis: actx.Risk.Patterns,
		StatisticalAnalysis: app.StatisticalAnalysis{
			CurrentStep:  actx.Statistics.CurrentStep,
			Metrics:      actx.Statistics.Current,
			Steps:        actx.Statistics.Steps,
			CriticalPath: actx.Statistics.CriticalPath,
		},
		FactorAnalysis: app.FactorAnalysis{
			ComplexityFactor:  actx.Factors.Complexity,
			Factors:           actx.Factors.Factors,
			StepComplexity:    actx.Factors.StepComplexity,
			Trend:             actx.Factors.Trend,
			ParallelRisk:      actx.Factors.ParallelRisk,
			ParallelRiskLevel: actx.Factors.ParallelRiskLevel,
			Correlations:      actx.Factors.Correlations,
			MeanCorrelation:   actx.Factors.MeanCorrelation,
		},
		WarningStatus: actx.Warning.Status,
		Warning:       *actx.Warning,
		Prediction: app.Prediction{
			EstimatedDays:    actx.Estimate.Duration.EstimatedDays,
			WarningStatus:    actx.Warning.Status,
			ComplexityFactor: actx.Factors.Complexity,
			StatisticalData:  actx.Statistics.Current,
			Estimate:         actx.Estimate.Duration,
			Target:           actx.Estimate.Target,
		},
		CompletionProbability: actx.Completion.Probability,
		Completion: app.CompletionAnalysis{
			Probability:     actx.Completion.Probability,
			Model:           actx.Completion.Model,
			TotalTime:       actx.Completion.TotalTime,
			BaseProbability: actx.Completion.Base,
			Adjustments:     actx.Completion.Adjustments,
		},
		Progress:       actx.Estimate.Progress,
		Risks:          risks,
		ResourceStatus: outcome.Status,
		Recommendations: buildRecommendations(
			actx.Warning.Status, risks, actx.Progress, outcome.Decision, outcome.Executed,
		),
		Allocation: alloc,
	}
}
