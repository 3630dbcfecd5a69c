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

// SQLiteResourceRepo implements ResourceRepo using a SQLite database.
type SQLiteResourceRepo struct {
	db db.DBTX
}

// NewSQLiteResourceRepo creates a new SQLiteResourceRepo.
func NewSQLiteResourceRepo(conn db.DBTX) *SQLiteResourceRepo {
	return &SQLiteResourceRepo{db: conn}
}

const resourceColumns = `id, type, skill_level, availability, current_project, created_at, updated_at`

func (r *SQLiteResourceRepo) Create(ctx context.Context, res *domain.Resource) error {
	query := `INSERT INTO resources (` + resourceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		string(res.Type),
		res.SkillLevel,
		res.Availability,
		nullableStringToValue(res.CurrentProject),
		res.CreatedAt.UTC().Format(time.RFC3339),
		res.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting resource: %w", err)
	}
	return nil
}

func (r *SQLiteResourceRepo) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	res, err := scanResource(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resource %s: %w", id, ErrNotFound)
	}
	return res, err
}

func (r *SQLiteResourceRepo) List(ctx context.Context) ([]*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	var out []*domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLiteResourceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return n, nil
}

// AssignSenior picks the best senior resource and charges it one share in a
// single statement, so two concurrent callers can never take the same share.
// Ordering matches scheduler.AllocationRules.PickSenior.
func (r *SQLiteResourceRepo) AssignSenior(ctx context.Context, c SeniorCriteria) (*domain.Resource, error) {
	query := `UPDATE resources
		SET availability = availability - ?,
		    current_project = ?,
		    updated_at = ?
		WHERE id = (
			SELECT id FROM resources
			WHERE skill_level > ?
			  AND availability > ?
			  AND availability >= ?
			ORDER BY skill_level DESC, availability DESC, id ASC
			LIMIT 1
		)
		RETURNING ` + resourceColumns
	row := r.db.QueryRowContext(ctx, query,
		c.Share,
		c.Project,
		nowUTC(),
		c.MinSkillExclusive,
		c.MinAvailability,
		c.Share,
	)
	res, err := scanResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSeniorAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("assigning senior resource: %w", err)
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*domain.Resource, error) {
	var (
		res                  domain.Resource
		typ                  string
		project              sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&res.ID, &typ, &res.SkillLevel, &res.Availability, &project, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning resource: %w", err)
	}
	res.Type = domain.ResourceType(typ)
	res.CurrentProject = nullableString(project)
	res.CreatedAt = parseTime(createdAt)
	res.UpdatedAt = parseTime(updatedAt)
	return &res, nil
}
