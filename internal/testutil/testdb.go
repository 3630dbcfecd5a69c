package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/horizon/internal/db"
)

// NewTestDB creates an in-memory SQLite database with the resources, samples
// and runs migrations applied. It starts empty; seed it with service.Seeder when
// a test needs the default registry. The database is closed when the test
// completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database, for
// allocator and seeder tests that need real transactions.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
