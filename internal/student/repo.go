package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const studentCols = "id, name, email, phone, address, enrolled_on, course, created_at, updated_at"

// Repository persists students in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns all students ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentCols+`
		FROM students
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Student{}
	for rows.Next() {
		var st Student
		if err := scanStudent(rows, &st); err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

// Insert writes a new student document. Absent fields are stored as NULL.
func (r *Repository) Insert(ctx context.Context, p Patch) (Student, error) {
	st := Student{
		ID:         uuid.NewString(),
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		EnrolledOn: p.EnrolledOn,
		Course:     p.Course,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, email, phone, address, enrolled_on, course)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, st.ID, st.Name, st.Email, st.Phone, st.Address, st.EnrolledOn, st.Course)
	if err := row.Scan(&st.CreatedAt, &st.UpdatedAt); err != nil {
		return Student{}, err
	}
	return st, nil
}

// Update replaces only the fields present in the patch and returns the
// post-update document, or nil when the id matches nothing.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (*Student, error) {
	sets, args := p.sets()
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE students SET %s WHERE id = $%d
		RETURNING `+studentCols,
		strings.Join(sets, ", "), len(args))

	row := r.db.QueryRowContext(ctx, query, args...)
	var st Student
	if err := scanStudent(row, &st); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// Delete removes the document; removing an unknown id succeeds.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// sets builds the SET clauses for the fields present in the patch. The
// updated_at bump is always included.
func (p Patch) sets() ([]string, []any) {
	sets := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("name", p.Name)
	add("email", p.Email)
	add("phone", p.Phone)
	add("address", p.Address)
	add("enrolled_on", p.EnrolledOn)
	add("course", p.Course)
	sets = append(sets, "updated_at = NOW()")
	return sets, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner, st *Student) error {
	return row.Scan(&st.ID, &st.Name, &st.Email, &st.Phone, &st.Address, &st.EnrolledOn, &st.Course, &st.CreatedAt, &st.UpdatedAt)
}
