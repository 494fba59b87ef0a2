package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fenix011/student-management-API-c6e/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

// studentsSchema is the single table of the service. It is safe to run on an
// existing database: nothing is dropped or truncated.
const studentsSchema = `
CREATE TABLE IF NOT EXISTS students (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	grade INTEGER NOT NULL CHECK(grade >= 0 AND grade <= 100),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

type sampleStudent struct {
	name  string
	email string
	grade int
}

var sampleStudents = []sampleStudent{
	{"Alice Johnson", "alice@school.edu", 92},
	{"Bob Smith", "bob@school.edu", 78},
	{"Charlie Brown", "charlie@school.edu", 85},
	{"Diana Prince", "diana@school.edu", 95},
	{"Eve Adams", "eve@school.edu", 88},
}

// Open opens the SQLite database file described by cfg and configures the pool.
func Open(cfg config.DatabaseConfig) (*bun.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := NewWithDSN(dsnFor(cfg))
	if err != nil {
		return nil, err
	}
	configurePool(db, cfg)
	return db, nil
}

// NewWithDSN opens a database with a raw modernc.org/sqlite DSN (useful for testing)
func NewWithDSN(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	slog.Debug("database connected successfully")
	return db, nil
}

func dsnFor(cfg config.DatabaseConfig) string {
	busyTimeout := cfg.BusyTimeoutMS
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", filepath.Clean(cfg.Path), busyTimeout)
}

func configurePool(db *bun.DB, cfg config.DatabaseConfig) {
	sqlDB := db.DB

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 4
	}
	sqlDB.SetMaxOpenConns(maxOpen)

	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 2
	}
	sqlDB.SetMaxIdleConns(maxIdle)

	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = 300
	}
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 60
	}
	sqlDB.SetConnMaxIdleTime(time.Duration(connMaxIdleTime) * time.Second)

	slog.Debug("database pool configured",
		"max_open_conns", maxOpen,
		"max_idle_conns", maxIdle,
		"conn_max_lifetime_seconds", connMaxLifetime,
		"conn_max_idle_time_seconds", connMaxIdleTime,
	)
}

func Close(db *bun.DB) {
	if db != nil {
		db.Close()
	}
}

// RunMigrations creates the students table if it does not exist yet.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	if _, err := db.ExecContext(ctx, studentsSchema); err != nil {
		return fmt.Errorf("failed to create students table: %w", err)
	}
	slog.Debug("database migrations completed successfully")
	return nil
}

// Seed inserts the sample students. Rows whose email already exists are skipped,
// so seeding twice leaves the table unchanged.
func Seed(ctx context.Context, db *bun.DB) (int64, error) {
	var inserted int64
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, s := range sampleStudents {
			res, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO students (name, email, grade) VALUES (?, ?, ?)",
				s.name, s.email, s.grade,
			)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed students: %w", err)
	}
	slog.Debug("sample students seeded", "inserted", inserted)
	return inserted, nil
}
