package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/horizon/internal/db"
	"github.com/alexanderramin/horizon/internal/domain"
)

// SQLiteSampleRepo stores historical step durations. Insertion order is
// chronological order.
type SQLiteSampleRepo struct {
	db db.DBTX
}

func NewSQLiteSampleRepo(conn db.DBTX) *SQLiteSampleRepo {
	return &SQLiteSampleRepo{db: conn}
}

func (r *SQLiteSampleRepo) Record(ctx context.Context, s *domain.StepSample) error {
	if s.RecordedAt.IsZero() {
		s.RecordedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO step_samples (step_id, days, recorded_at) VALUES (?, ?, ?)`,
		s.StepID, s.Days, s.RecordedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting step sample: %w", err)
	}
	return nil
}

func (r *SQLiteSampleRepo) ListByStep(ctx context.Context, stepID string) ([]domain.StepSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT step_id, days, recorded_at FROM step_samples WHERE step_id = ? ORDER BY id`, stepID)
	if err != nil {
		return nil, fmt.Errorf("listing step samples: %w", err)
	}
	defer rows.Close()

	var out []domain.StepSample
	for rows.Next() {
		var s domain.StepSample
		var recordedAt string
		if err := rows.Scan(&s.StepID, &s.Days, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning step sample: %w", err)
		}
		s.RecordedAt = parseTime(recordedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListAll returns every step's samples in chronological order.
func (r *SQLiteSampleRepo) ListAll(ctx context.Context) (map[string][]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT step_id, days FROM step_samples ORDER BY step_id, id`)
	if err != nil {
		return nil, fmt.Errorf("listing step samples: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float64)
	for rows.Next() {
		var step string
		var days float64
		if err := rows.Scan(&step, &days); err != nil {
			return nil, fmt.Errorf("scanning step sample: %w", err)
		}
		out[step] = append(out[step], days)
	}
	return out, rows.Err()
}

// SeedIfEmpty inserts samples only when the table has no rows yet and
// returns the number of rows written.
func (r *SQLiteSampleRepo) SeedIfEmpty(ctx context.Context, samples map[string][]float64) (int, error) {
	var existing int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM step_samples`).Scan(&existing); err != nil {
		return 0, fmt.Errorf("counting step samples: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	steps := make([]string, 0, len(samples))
	for id := range samples {
		steps = append(steps, id)
	}
	sort.Strings(steps)

	now := time.Now().UTC()
	written := 0
	for _, id := range steps {
		for _, days := range samples[id] {
			if err := r.Record(ctx, &domain.StepSample{StepID: id, Days: days, RecordedAt: now}); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
