package student

import (
	"context"
	"errors"
	"time"
)

// Student is a stored student profile. Profile fields are pointers so a
// missing value stays NULL in the store and null on the wire.
type Student struct {
	ID         string    `json:"id"`
	Name       *string   `json:"name"`
	Email      *string   `json:"email"`
	Phone      *string   `json:"phone"`
	Address    *string   `json:"address"`
	EnrolledOn *string   `json:"enrolled_on"`
	Course     *string   `json:"course"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Patch carries an optional value for every mutable field. A nil field was
// omitted by the caller and keeps its stored value; a pointer to "" sets the
// field to empty. Unknown JSON fields are dropped by the decoder.
type Patch struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	EnrolledOn *string `json:"enrolled_on"`
	Course     *string `json:"course"`
}

// Store is the persistence surface the service needs.
type Store interface {
	List(ctx context.Context) ([]Student, error)
	Insert(ctx context.Context, p Patch) (Student, error)
	Update(ctx context.Context, id string, p Patch) (*Student, error)
	Delete(ctx context.Context, id string) error
}

// Service exposes student profile operations.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all students, newest created first.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	return s.store.List(ctx)
}

// Create stores a new student from a partial payload.
func (s *Service) Create(ctx context.Context, p Patch) (Student, error) {
	return s.store.Insert(ctx, p)
}

// Update applies only the fields present in the patch. A nil result means the
// id resolved to no document.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Student, error) {
	if id == "" {
		return nil, errors.New("student id required")
	}
	return s.store.Update(ctx, id, p)
}

// Delete removes the student if present. Deleting an unknown id is not an
// error; attendance and fee records referencing it are left alone.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("student id required")
	}
	return s.store.Delete(ctx, id)
}
