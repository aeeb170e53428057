package fee

import (
	"context"
	"errors"
	"math"
	"time"
)

// defaultDue is the balance opened on an account's first payment. Fixed
// business constant, not configurable.
const defaultDue = 1000

// ErrInvalidAmount rejects payments whose amount is absent, non-finite, or
// not positive.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// ErrStudentRequired rejects payments without a student id.
var ErrStudentRequired = errors.New("student id required")

// Payment is one append-only history event on an account.
type Payment struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Account is the per-student fee aggregate. Paid always equals the sum of
// history amounts; ApplyPayment maintains that in a single store operation.
type Account struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Due       float64   `json:"due"`
	Paid      float64   `json:"paid"`
	History   []Payment `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence surface the service needs. ApplyPayment must be
// atomic: create the account with defaults when absent, then increment paid
// and append the event in one operation.
type Store interface {
	List(ctx context.Context) ([]Account, error)
	ApplyPayment(ctx context.Context, studentID string, defaultDue float64, p Payment) (Account, error)
}

// Service records fee payments.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// List returns all fee accounts. No ordering is guaranteed.
func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.store.List(ctx)
}

// Pay applies one payment to the student's account, creating the account
// with due 1000 on first payment. The amount is validated up front; a
// rejected payment leaves no trace in the store.
func (s *Service) Pay(ctx context.Context, studentID string, amount float64) (Account, error) {
	if studentID == "" {
		return Account{}, ErrStudentRequired
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Account{}, ErrInvalidAmount
	}
	p := Payment{
		Date:   s.now().UTC().Format(time.RFC3339),
		Amount: amount,
	}
	return s.store.ApplyPayment(ctx, studentID, defaultDue, p)
}
