package paper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const paperCols = "id, subject, exam_date, class_name, duration, instructions, total_marks, questions, file_name, created_at, updated_at"

// Repository persists exam papers in Postgres. Questions are an owned jsonb
// array on the paper row.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns all papers ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context) ([]Paper, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paperCols+`
		FROM papers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []Paper{}
	for rows.Next() {
		item, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *item)
	}
	return res, rows.Err()
}

// Insert writes a new paper document. An omitted question sequence is stored
// as an empty array.
func (r *Repository) Insert(ctx context.Context, p Patch) (Paper, error) {
	questions := []Question{}
	if p.Questions != nil {
		questions = *p.Questions
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return Paper{}, fmt.Errorf("encode questions: %w", err)
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO papers (id, subject, exam_date, class_name, duration, instructions, total_marks, questions, file_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+paperCols,
		uuid.NewString(), p.Subject, p.ExamDate, p.ClassName, p.Duration, p.Instructions, p.TotalMarks, raw, p.FileName)
	item, err := scanPaper(row)
	if err != nil {
		return Paper{}, err
	}
	return *item, nil
}

// Update replaces only the fields present in the patch, or returns nil when
// the id matches nothing.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (*Paper, error) {
	sets := []string{}
	args := []any{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Subject != nil {
		set("subject", *p.Subject)
	}
	if p.ExamDate != nil {
		set("exam_date", *p.ExamDate)
	}
	if p.ClassName != nil {
		set("class_name", *p.ClassName)
	}
	if p.Duration != nil {
		set("duration", *p.Duration)
	}
	if p.Instructions != nil {
		set("instructions", *p.Instructions)
	}
	if p.TotalMarks != nil {
		set("total_marks", *p.TotalMarks)
	}
	if p.Questions != nil {
		raw, err := json.Marshal(*p.Questions)
		if err != nil {
			return nil, fmt.Errorf("encode questions: %w", err)
		}
		set("questions", raw)
	}
	if p.FileName != nil {
		set("file_name", *p.FileName)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE papers SET %s WHERE id = $%d
		RETURNING `+paperCols,
		strings.Join(sets, ", "), len(args))

	row := r.db.QueryRowContext(ctx, query, args...)
	item, err := scanPaper(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

// Delete removes the document; removing an unknown id succeeds.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM papers WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*Paper, error) {
	var item Paper
	var raw []byte
	if err := row.Scan(&item.ID, &item.Subject, &item.ExamDate, &item.ClassName, &item.Duration, &item.Instructions, &item.TotalMarks, &raw, &item.FileName, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &item.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if item.Questions == nil {
		item.Questions = []Question{}
	}
	return &item, nil
}
