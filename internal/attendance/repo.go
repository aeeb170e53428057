package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Repository persists attendance days in Postgres. The record sequence is an
// owned jsonb column on the day row.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Find returns the day for the date, or nil when none was written.
func (r *Repository) Find(ctx context.Context, date string) (*Day, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, day, records, created_at, updated_at
		FROM attendance_days WHERE day = $1
	`, date)
	d, err := scanDay(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// Upsert atomically creates the day or fully replaces its records. The
// unique index on day keeps at most one row per date.
func (r *Repository) Upsert(ctx context.Context, date string, records []Record) (Day, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return Day{}, fmt.Errorf("encode records: %w", err)
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_days (id, day, records)
		VALUES ($1, $2, $3)
		ON CONFLICT (day) DO UPDATE SET
			records = EXCLUDED.records,
			updated_at = NOW()
		RETURNING id, day, records, created_at, updated_at
	`, uuid.NewString(), date, raw)
	d, err := scanDay(row)
	if err != nil {
		return Day{}, err
	}
	return *d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(row rowScanner) (*Day, error) {
	var d Day
	var raw []byte
	if err := row.Scan(&d.ID, &d.Date, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &d.Records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if d.Records == nil {
		d.Records = []Record{}
	}
	return &d, nil
}
