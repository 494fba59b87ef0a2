package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fenix011/student-management-API-c6e/internal/config"
	"github.com/fenix011/student-management-API-c6e/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// SQLite is a throwaway database file living in the test's temp dir.
type SQLite struct {
	DB   *bun.DB
	Path string
}

// SetupSQLite opens a fresh database file with the students schema applied.
// The database is closed automatically when the test finishes.
//
// Usage:
//
//	func TestMyRepo(t *testing.T) {
//	    sqlite := testdb.SetupSQLite(t)
//
//	    t.Run("Case", func(t *testing.T) {
//	        testdb.CleanupTables(t, sqlite.DB, "students")
//	        // ... test
//	    })
//	}
func SetupSQLite(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "students.db")
	database, err := db.Open(config.DatabaseConfig{Path: path})
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close(database)
	})

	require.NoError(t, db.RunMigrations(context.Background(), database))

	return &SQLite{DB: database, Path: path}
}

// CleanupTables empties the given tables. The AUTOINCREMENT counters in
// sqlite_sequence are kept, so ids are not reused across subtests.
func CleanupTables(t *testing.T, database *bun.DB, tables ...string) {
	t.Helper()

	ctx := context.Background()

	for _, table := range tables {
		_, err := database.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err, "failed to clean table: %s", table)
	}
}
