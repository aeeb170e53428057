package paper

import (
	"context"
	"errors"
	"time"
)

// Question is one item of a paper's owned question sequence.
type Question struct {
	Text  string  `json:"text"`
	Marks float64 `json:"marks"`
}

// Paper is a stored exam paper. FileName references an externally hosted
// artifact; the blob itself is not managed here. Total marks is stored
// verbatim with no reconciliation against the question marks.
type Paper struct {
	ID           string     `json:"id"`
	Subject      *string    `json:"subject"`
	ExamDate     *string    `json:"exam_date"`
	ClassName    *string    `json:"class_name"`
	Duration     *string    `json:"duration"`
	Instructions *string    `json:"instructions"`
	TotalMarks   *float64   `json:"total_marks"`
	Questions    []Question `json:"questions"`
	FileName     *string    `json:"file_name"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Patch carries an optional value for every mutable field; nil means the
// caller omitted it. A non-nil empty Questions slice clears the sequence.
type Patch struct {
	Subject      *string     `json:"subject"`
	ExamDate     *string     `json:"exam_date"`
	ClassName    *string     `json:"class_name"`
	Duration     *string     `json:"duration"`
	Instructions *string     `json:"instructions"`
	TotalMarks   *float64    `json:"total_marks"`
	Questions    *[]Question `json:"questions"`
	FileName     *string     `json:"file_name"`
}

// Store is the persistence surface the service needs.
type Store interface {
	List(ctx context.Context) ([]Paper, error)
	Insert(ctx context.Context, p Patch) (Paper, error)
	Update(ctx context.Context, id string, p Patch) (*Paper, error)
	Delete(ctx context.Context, id string) error
}

// Service exposes exam paper operations.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns all papers, newest created first.
func (s *Service) List(ctx context.Context) ([]Paper, error) {
	return s.store.List(ctx)
}

// Create stores a new paper from a partial payload.
func (s *Service) Create(ctx context.Context, p Patch) (Paper, error) {
	return s.store.Insert(ctx, p)
}

// Update applies only the fields present in the patch; nil result means the
// id matched nothing.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Paper, error) {
	if id == "" {
		return nil, errors.New("paper id required")
	}
	return s.store.Update(ctx, id, p)
}

// Delete removes the paper if present; unknown ids succeed.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("paper id required")
	}
	return s.store.Delete(ctx, id)
}
