package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/horizon/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigratedDB(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertResource(ctx context.Context, tx db.DBTX, id string, availability float64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO resources (id, type, skill_level, availability, created_at, updated_at)
		 VALUES (?, 'developer', 8, ?, ?, ?)`, id, availability, now, now)
	return err
}

func availability(t *testing.T, database *sql.DB, id string) (float64, bool) {
	t.Helper()
	var a float64
	err := database.QueryRow(`SELECT availability FROM resources WHERE id = ?`, id).Scan(&a)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false
	}
	require.NoError(t, err)
	return a, true
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openMigratedDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertResource(ctx, tx, "R1", 0.7)
	})
	require.NoError(t, err)

	a, found := availability(t, database, "R1")
	assert.True(t, found, "resource should exist after commit")
	assert.InDelta(t, 0.7, a, 1e-9)
}

func TestWithinTx_RollbackKeepsAvailability(t *testing.T) {
	database, uow := openMigratedDB(t)
	ctx := context.Background()
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return insertResource(ctx, tx, "R1", 0.7)
	}))

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `UPDATE resources SET availability = availability - 0.5 WHERE id = ?`, "R1"); err != nil {
			return err
		}
		return errors.New("run insert failed")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run insert failed")

	a, _ := availability(t, database, "R1")
	assert.InDelta(t, 0.7, a, 1e-9, "decrement must be rolled back with the failed run")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openMigratedDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertResource(ctx, tx, "R3", 0.8)
			panic("boom")
		})
	})

	_, found := availability(t, database, "R3")
	assert.False(t, found, "resource should not exist after panic rollback")
}

func TestWithinTx_CheckConstraintAbortsTx(t *testing.T) {
	database, uow := openMigratedDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertResource(ctx, tx, "R1", 0.4); err != nil {
			return err
		}
		// availability would drop below zero
		_, err := tx.ExecContext(ctx, `UPDATE resources SET availability = availability - 0.5 WHERE id = ?`, "R1")
		return err
	})
	require.Error(t, err)

	_, found := availability(t, database, "R1")
	assert.False(t, found)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	_, uow := openMigratedDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
