package result

import (
	"context"
	"errors"
	"time"
)

// Result is a stored exam result. The student name is a denormalized string
// with no link to the student collection; grade and marks are caller-supplied
// opaque values.
type Result struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Course    *string   `json:"course"`
	Marks     *float64  `json:"marks"`
	Grade     *string   `json:"grade"`
	Remarks   *string   `json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch carries an optional value for every mutable field; nil means the
// caller omitted it.
type Patch struct {
	Name    *string  `json:"name"`
	Course  *string  `json:"course"`
	Marks   *float64 `json:"marks"`
	Grade   *string  `json:"grade"`
	Remarks *string  `json:"remarks"`
}

// Store is the persistence surface the service needs.
type Store interface {
	List(ctx context.Context) ([]Result, error)
	Insert(ctx context.Context, p Patch) (Result, error)
	Update(ctx context.Context, id string, p Patch) (*Result, error)
	Delete(ctx context.Context, id string) error
}

// Service exposes result operations.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all results, newest created first.
func (s *Service) List(ctx context.Context) ([]Result, error) {
	return s.store.List(ctx)
}

// Create stores a new result from a partial payload.
func (s *Service) Create(ctx context.Context, p Patch) (Result, error) {
	return s.store.Insert(ctx, p)
}

// Update applies only the fields present in the patch; nil result means the
// id matched nothing.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Result, error) {
	if id == "" {
		return nil, errors.New("result id required")
	}
	return s.store.Update(ctx, id, p)
}

// Delete removes the result if present; unknown ids succeed.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("result id required")
	}
	return s.store.Delete(ctx, id)
}
