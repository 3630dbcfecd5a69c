package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/horizon/internal/config"
	"github.com/alexanderramin/horizon/internal/db"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/alexanderramin/horizon/internal/repository"
)

type seeder struct {
	cfg config.Config
	uow db.UnitOfWork
}

// NewSeeder writes the configured history and resources into an empty database.
func NewSeeder(cfg config.Config, uow db.UnitOfWork) Seeder {
	return &seeder{cfg: cfg, uow: uow}
}

func (s *seeder) Seed(ctx context.Context) (SeedResult, error) {
	var result SeedResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		n, err := repository.NewSQLiteSampleRepo(tx).SeedIfEmpty(ctx, s.cfg.History)
		if err != nil {
			return err
		}
		result.Samples = n

		resources := repository.NewSQLiteResourceRepo(tx)
		count, err := resources.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		now := time.Now().UTC()
		for _, seed := range s.cfg.Resources {
			if err := resources.Create(ctx, &domain.Resource{
				ID:           seed.ID,
				Type:         seed.Type,
				SkillLevel:   seed.SkillLevel,
				Availability: seed.Availability,
				CreatedAt:    now,
				UpdatedAt:    now,
			}); err != nil {
				return err
			}
			result.Resources++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("seeding database: %w", err)
	}
	return result, nil
}
