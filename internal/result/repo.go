package result

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const resultCols = "id, name, course, marks, grade, remarks, created_at, updated_at"

// Repository persists results in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns all results ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context) ([]Result, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+resultCols+`
		FROM results
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Result{}
	for rows.Next() {
		var item Result
		if err := scanResult(rows, &item); err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	return res, rows.Err()
}

// Insert writes a new result document.
func (r *Repository) Insert(ctx context.Context, p Patch) (Result, error) {
	item := Result{
		ID:      uuid.NewString(),
		Name:    p.Name,
		Course:  p.Course,
		Marks:   p.Marks,
		Grade:   p.Grade,
		Remarks: p.Remarks,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO results (id, name, course, marks, grade, remarks)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, item.ID, item.Name, item.Course, item.Marks, item.Grade, item.Remarks)
	if err := row.Scan(&item.CreatedAt, &item.UpdatedAt); err != nil {
		return Result{}, err
	}
	return item, nil
}

// Update replaces only the fields present in the patch, or returns nil when
// the id matches nothing.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (*Result, error) {
	sets := []string{}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Course != nil {
		set("course", *p.Course)
	}
	if p.Marks != nil {
		set("marks", *p.Marks)
	}
	if p.Grade != nil {
		set("grade", *p.Grade)
	}
	if p.Remarks != nil {
		set("remarks", *p.Remarks)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE results SET %s WHERE id = $%d
		RETURNING `+resultCols,
		strings.Join(sets, ", "), len(args))

	row := r.db.QueryRowContext(ctx, query, args...)
	var item Result
	if err := scanResult(row, &item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Delete removes the document; removing an unknown id succeeds.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner, item *Result) error {
	return row.Scan(&item.ID, &item.Name, &item.Course, &item.Marks, &item.Grade, &item.Remarks, &item.CreatedAt, &item.UpdatedAt)
}
