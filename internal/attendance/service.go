package attendance

import (
	"context"
	"errors"
	"time"
)

// Record marks one student's status on a date. Status is stored verbatim;
// duplicate student ids within a day are kept as supplied.
type Record struct {
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
}

// Day is the per-calendar-date attendance aggregate. A synthetic day (date
// never written) carries no id or timestamps.
type Day struct {
	ID        string     `json:"id,omitempty"`
	Date      string     `json:"date"`
	Records   []Record   `json:"records"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Store is the persistence surface the service needs.
type Store interface {
	Find(ctx context.Context, date string) (*Day, error)
	Upsert(ctx context.Context, date string, records []Record) (Day, error)
}

// Service answers per-date attendance queries with an or-default policy:
// callers never see a not-found for a date with no attendance taken.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Day returns the stored day for the date, or an empty synthetic day when
// none exists. The store holds no sentinel rows for unwritten dates.
func (s *Service) Day(ctx context.Context, date string) (Day, error) {
	if date == "" {
		return Day{}, errors.New("date required")
	}
	d, err := s.store.Find(ctx, date)
	if err != nil {
		return Day{}, err
	}
	if d == nil {
		return Day{Date: date, Records: []Record{}}, nil
	}
	if d.Records == nil {
		d.Records = []Record{}
	}
	return *d, nil
}

// Set replaces the full record sequence for the date, creating the day if
// absent. Last write wins for concurrent sets on the same date.
func (s *Service) Set(ctx context.Context, date string, records []Record) (Day, error) {
	if date == "" {
		return Day{}, errors.New("date required")
	}
	if records == nil {
		records = []Record{}
	}
	return s.store.Upsert(ctx, date, records)
}
