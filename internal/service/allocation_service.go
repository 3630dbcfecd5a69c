package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/horizon/internal/db"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/repository"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

// AllocationInput is what the allocation step needs from a finished analysis.
type AllocationInput struct {
	Run          *domain.AnalysisRun
	RiskLevel    float64
	Bottleneck   string
	Project      string
	Reallocate   bool
	CriticalPath []string
}

// AllocationOutcome is the decision, whether it was applied, and the registry
// state after it.
type AllocationOutcome struct {
	Decision scheduler.Decision
	Executed bool
	Status   scheduler.ResourceStatus
	Staffing []scheduler.StepStaffing
}

// Allocator applies the allocation rules against the resource registry and
// records the analysis run. Assignment is serialised by mu and happens in the
// same transaction as the run insert.
type Allocator struct {
	mu           sync.Mutex
	resources    repository.ResourceRepo
	uow          db.UnitOfWork
	rules        scheduler.AllocationRules
	requirements map[string]scheduler.StepRequirement
	metrics      *PipelineMetrics
}

func NewAllocator(
	resources repository.ResourceRepo,
	uow db.UnitOfWork,
	rules scheduler.AllocationRules,
	requirements map[string]scheduler.StepRequirement,
	metrics *PipelineMetrics,
) *Allocator {
	return &Allocator{
		resources:    resources,
		uow:          uow,
		rules:        rules,
		requirements: requirements,
		metrics:      metrics,
	}
}

// Allocate decides on an action and persists in.Run. A senior is only
// assigned when the run is red and in.Reallocate is set; otherwise the
// decision is advisory. If the assignment cannot be committed the outcome
// falls back to CONTINUE_MONITORING.
func (a *Allocator) Allocate(ctx context.Context, in AllocationInput) (*AllocationOutcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pool, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	decision := a.rules.Decide(in.RiskLevel, in.Bottleneck, pool)
	execute := decision.Action == domain.ActionAssignSeniorDeveloper &&
		in.Reallocate && in.Run.WarningStatus == domain.WarningRed

	in.Run.Action = decision.Action
	in.Run.ResourceID = nil
	if decision.Resource != nil {
		id := decision.Resource.ID
		in.Run.ResourceID = &id
	}

	executed := false
	if execute {
		assigned, err := a.assignAndRecord(ctx, in)
		if err == nil {
			executed = true
			decision.Resource = assigned
			in.Run.ResourceID = &assigned.ID
			a.metrics.observeAssignment()
		} else {
			reason := fmt.Sprintf("senior assignment not committed: %v", err)
			if isNoSenior(err) {
				reason = "no senior resource left to assign"
			}
			decision = scheduler.Decision{
				Action: domain.ActionContinueMonitoring,
				Reason: reason,
			}
			in.Run.Action = decision.Action
			in.Run.ResourceID = nil
		}
	}
	if !executed {
		if err := a.record(ctx, in.Run); err != nil {
			return nil, err
		}
	}

	if executed {
		if pool, err = a.snapshot(ctx); err != nil {
			return nil, err
		}
	}
	return &AllocationOutcome{
		Decision: decision,
		Executed: executed,
		Status:   a.rules.Status(pool),
		Staffing: a.rules.PlanStaffing(in.CriticalPath, pool, a.requirements),
	}, nil
}

func (a *Allocator) assignAndRecord(ctx context.Context, in AllocationInput) (*domain.Resource, error) {
	var assigned *domain.Resource
	err := a.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txResources := repository.NewSQLiteResourceRepo(tx)
		txRuns := repository.NewSQLiteRunRepo(tx)

		res, err := txResources.AssignSenior(ctx, repository.SeniorCriteria{
			MinSkillExclusive: a.rules.SeniorSkill,
			MinAvailability:   a.rules.MinAvailability,
			Share:             a.rules.AssignmentShare,
			Project:           in.Project,
		})
		if err != nil {
			return err
		}
		assigned = res

		run := *in.Run
		run.Action = domain.ActionAssignSeniorDeveloper
		run.ResourceID = &res.ID
		return txRuns.Create(ctx, &run)
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

func (a *Allocator) record(ctx context.Context, run *domain.AnalysisRun) error {
	return a.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRunRepo(tx).Create(ctx, run)
	})
}

// Status reports registry capacity without deciding anything.
func (a *Allocator) Status(ctx context.Context) (scheduler.ResourceStatus, error) {
	pool, err := a.snapshot(ctx)
	if err != nil {
		return scheduler.ResourceStatus{}, err
	}
	return a.rules.Status(pool), nil
}

func (a *Allocator) snapshot(ctx context.Context) ([]domain.Resource, error) {
	list, err := a.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	pool := make([]domain.Resource, 0, len(list))
	for _, r := range list {
		pool = append(pool, *r)
	}
	return pool, nil
}

// isNoSenior reports whether err means the registry had no eligible senior.
func isNoSenior(err error) bool {
	return errors.Is(err, repository.ErrNoSeniorAvailable)
}
