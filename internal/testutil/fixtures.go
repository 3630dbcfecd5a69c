package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/horizon/internal/domain"
)

var testResourceCounter atomic.Int64

// Resource options
type ResourceOption func(*domain.Resource)

func WithResourceID(id string) ResourceOption {
	return func(r *domain.Resource) {
		r.ID = id
	}
}

func WithResourceType(t domain.ResourceType) ResourceOption {
	return func(r *domain.Resource) {
		r.Type = t
	}
}

func WithAvailability(a float64) ResourceOption {
	return func(r *domain.Resource) {
		r.Availability = a
	}
}

func WithCurrentProject(p string) ResourceOption {
	return func(r *domain.Resource) {
		r.CurrentProject = &p
	}
}

// NewTestResource returns a fully available developer with the given skill.
func NewTestResource(skill int, opts ...ResourceOption) *domain.Resource {
	now := time.Now().UTC()
	r := &domain.Resource{
		ID:           fmt.Sprintf("R%03d", testResourceCounter.Add(1)),
		Type:         domain.ResourceDeveloper,
		SkillLevel:   skill,
		Availability: 1.0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StandardDurations is the seven-step integration duration table.
func StandardDurations() map[string]float64 {
	return map[string]float64{
		"step1": 3, "step2": 7, "step3": 5, "step4": 5,
		"step5": 1, "step6": 8, "step7": 1,
	}
}

// IntegrationGraph is the seven-step integration dependency graph.
func IntegrationGraph() domain.DependencyGraph {
	return domain.DependencyGraph{
		"step1": {},
		"step2": {"step1"},
		"step3": {"step2"},
		"step4": {"step2"},
		"step5": {"step3", "step4"},
		"step6": {"step5"},
		"step7": {"step6"},
	}
}

// Snapshot options
type SnapshotOption func(*domain.ProgressSnapshot)

func WithActive(steps ...string) SnapshotOption {
	return func(p *domain.ProgressSnapshot) {
		p.ActiveParallelSteps = steps
	}
}

func WithElapsed(step string, days float64) SnapshotOption {
	return func(p *domain.ProgressSnapshot) {
		if p.StepsTime == nil {
			p.StepsTime = map[string]float64{}
		}
		p.StepsTime[step] = days
	}
}

func WithCompleted(step string, days float64) SnapshotOption {
	return func(p *domain.ProgressSnapshot) {
		if p.StepsHistory == nil {
			p.StepsHistory = map[string]float64{}
		}
		p.StepsHistory[step] = days
	}
}

func WithGraph(g domain.DependencyGraph) SnapshotOption {
	return func(p *domain.ProgressSnapshot) {
		p.StepsDependencies = g
	}
}

// NewTestSnapshot returns a snapshot over IntegrationGraph with no progress.
func NewTestSnapshot(opts ...SnapshotOption) domain.ProgressSnapshot {
	p := domain.ProgressSnapshot{StepsDependencies: IntegrationGraph()}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}
