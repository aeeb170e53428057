package fee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Repository persists fee accounts in Postgres. History is an owned jsonb
// array on the account row.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns all fee accounts.
func (r *Repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, due, paid, history, created_at, updated_at
		FROM fee_accounts
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *acc)
	}
	return res, rows.Err()
}

// ApplyPayment increments paid and appends the event in one statement. The
// ON CONFLICT arm makes the read-modify-write race-free: two concurrent
// payments for the same student both land, in store order.
func (r *Repository) ApplyPayment(ctx context.Context, studentID string, defaultDue float64, p Payment) (Account, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return Account{}, fmt.Errorf("encode payment: %w", err)
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO fee_accounts (id, student_id, due, paid, history)
		VALUES ($1, $2, $3, $4, jsonb_build_array($5::jsonb))
		ON CONFLICT (student_id) DO UPDATE SET
			paid = fee_accounts.paid + EXCLUDED.paid,
			history = fee_accounts.history || EXCLUDED.history,
			updated_at = NOW()
		RETURNING id, student_id, due, paid, history, created_at, updated_at
	`, uuid.NewString(), studentID, defaultDue, p.Amount, raw)
	acc, err := scanAccount(row)
	if err != nil {
		return Account{}, err
	}
	return *acc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var acc Account
	var raw []byte
	if err := row.Scan(&acc.ID, &acc.StudentID, &acc.Due, &acc.Paid, &raw, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &acc.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if acc.History == nil {
		acc.History = []Payment{}
	}
	return &acc, nil
}
