package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/horizon/internal/db"
	"github.com/alexanderramin/horizon/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_RecordDuringStats verifies that readers building step
// statistics never see a half-written sample while one writer records.
func TestConcurrentAccess_RecordDuringStats(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteSampleRepo(database)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			s := &domain.StepSample{
				StepID:     fmt.Sprintf("step%d", i%4+1),
				Days:       float64(i + 1),
				RecordedAt: time.Now().UTC(),
			}
			if err := repo.Record(ctx, s); err != nil {
				t.Errorf("writer: record sample %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				all, err := repo.ListAll(ctx)
				if err != nil {
					t.Errorf("reader %d: list samples: %v", reader, err)
					return
				}
				for step, days := range all {
					for _, d := range days {
						if d <= 0 {
							t.Errorf("reader %d: step %s has non-positive sample %v", reader, step, d)
						}
					}
				}
			}
		}(r)
	}

	wg.Wait()

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	total := 0
	for _, days := range all {
		total += len(days)
	}
	assert.Equal(t, 20, total)
}

// TestConcurrentAccess_SequentialRunsConcurrentReads records runs one at a
// time and then reads them back from many goroutines.
func TestConcurrentAccess_SequentialRunsConcurrentReads(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	runs := NewSQLiteRunRepo(database)

	const runCount = 10
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < runCount; i++ {
		require.NoError(t, runs.Create(ctx, &domain.AnalysisRun{
			ID:                    fmt.Sprintf("run-%02d", i),
			EstimatedDays:         10 + float64(i),
			WarningStatus:         domain.WarningGreen,
			CompletionProbability: 0.5,
			CompletionModel:       domain.CompletionBasic,
			Action:                domain.ActionContinueMonitoring,
			CreatedAt:             base.Add(time.Duration(i) * time.Minute),
		}))
	}

	var wg sync.WaitGroup
	const readers = 20
	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			list, err := runs.ListRecent(ctx, runCount)
			if err != nil {
				t.Errorf("reader %d: list runs: %v", reader, err)
				return
			}
			if len(list) != runCount {
				t.Errorf("reader %d: expected %d runs, got %d", reader, runCount, len(list))
				return
			}
			if list[0].ID != "run-09" {
				t.Errorf("reader %d: expected newest run first, got %s", reader, list[0].ID)
			}
		}(r)
	}

	wg.Wait()
}
