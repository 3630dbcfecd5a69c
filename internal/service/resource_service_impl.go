package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/repository"
	"github.com/alexanderramin/horizon/internal/scheduler"
)

type resourceService struct {
	resources repository.ResourceRepo
	allocator *Allocator
}

func NewResourceService(resources repository.ResourceRepo, allocator *Allocator) ResourceService {
	return &resourceService{resources: resources, allocator: allocator}
}

func (s *resourceService) List(ctx context.Context) ([]*domain.Resource, error) {
	return s.resources.List(ctx)
}

// Add validates and registers r. An empty ID gets a generated one.
func (s *resourceService) Add(ctx context.Context, r *domain.Resource) error {
	if !domain.ValidResourceTypes[string(r.Type)] {
		return fmt.Errorf("invalid resource type %q", r.Type)
	}
	if r.SkillLevel < 0 || r.SkillLevel > 10 {
		return fmt.Errorf("skill level must be in [0, 10], got %d", r.SkillLevel)
	}
	if r.Availability < 0 || r.Availability > 1 {
		return fmt.Errorf("availability must be in [0, 1], got %.2f", r.Availability)
	}
	if r.ID == "" {
		r.ID = "R-" + strings.ToUpper(uuid.New().String()[:8])
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.resources.Create(ctx, r)
}

func (s *resourceService) Status(ctx context.Context) (scheduler.ResourceStatus, error) {
	return s.allocator.Status(ctx)
}
