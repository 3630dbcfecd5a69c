package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/horizon/internal/db"
	"github.com/alexanderramin/horizon/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

const runColumns = `id, estimated_days, warning_status, completion_probability, completion_model, action, resource_id, created_at`

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.AnalysisRun) error {
	model := run.CompletionModel
	if model == "" {
		model = domain.CompletionBasic
	}
	query := `INSERT INTO analysis_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.EstimatedDays,
		string(run.WarningStatus),
		run.CompletionProbability,
		string(model),
		string(run.Action),
		nullableStringToValue(run.ResourceID),
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting analysis run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs WHERE id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis run %s: %w", id, ErrNotFound)
	}
	return run, err
}

// ListRecent returns up to limit runs, newest first.
func (r *SQLiteRunRepo) ListRecent(ctx context.Context, limit int) ([]*domain.AnalysisRun, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analysis runs: %w", err)
	}
	defer rows.Close()

	var out []*domain.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row rowScanner) (*domain.AnalysisRun, error) {
	var (
		run                   domain.AnalysisRun
		status, model, action string
		resourceID            sql.NullString
		createdAt             string
	)
	err := row.Scan(&run.ID, &run.EstimatedDays, &status, &run.CompletionProbability,
		&model, &action, &resourceID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning analysis run: %w", err)
	}
	run.WarningStatus = domain.WarningStatus(status)
	run.CompletionModel = domain.CompletionModel(model)
	run.Action = domain.Action(action)
	run.ResourceID = nullableString(resourceID)
	run.CreatedAt = parseTime(createdAt)
	return &run, nil
}
