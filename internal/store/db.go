package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connection state codes reported by the health endpoint.
const (
	StateDisconnected = 0
	StateConnected    = 1
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB opens a Postgres connection and verifies it within the given timeout.
// A failed ping closes the handle and returns the error; callers treat that
// as fatal at startup.
func NewDB(connString string, timeout time.Duration) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &DB{Client: db}, nil
}

// State reports the connection state code: 1 connected, 0 disconnected.
func (d *DB) State(ctx context.Context) int {
	if d == nil || d.Client == nil {
		return StateDisconnected
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := d.Client.PingContext(ctx); err != nil {
		return StateDisconnected
	}
	return StateConnected
}

// EnsureSchema creates the collections used by the service. Embedded
// sequences (attendance records, fee history, paper questions) live in jsonb
// columns owned by their parent row.
func (d *DB) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id          TEXT PRIMARY KEY,
		name        TEXT,
		email       TEXT,
		phone       TEXT,
		address     TEXT,
		enrolled_on TEXT,
		course      TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance_days (
		id         TEXT PRIMARY KEY,
		day        TEXT NOT NULL UNIQUE,
		records    JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS fee_accounts (
		id         TEXT PRIMARY KEY,
		student_id TEXT NOT NULL UNIQUE,
		due        DOUBLE PRECISION NOT NULL DEFAULT 1000,
		paid       DOUBLE PRECISION NOT NULL DEFAULT 0,
		history    JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS results (
		id         TEXT PRIMARY KEY,
		name       TEXT,
		course     TEXT,
		marks      DOUBLE PRECISION,
		grade      TEXT,
		remarks    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS papers (
		id           TEXT PRIMARY KEY,
		subject      TEXT,
		exam_date    TEXT,
		class_name   TEXT,
		duration     TEXT,
		instructions TEXT,
		total_marks  DOUBLE PRECISION,
		questions    JSONB NOT NULL DEFAULT '[]',
		file_name    TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_students_created ON students (created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_results_created  ON results (created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_papers_created   ON papers (created_at DESC);
	`
	if _, err := d.Client.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
