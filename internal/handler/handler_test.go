package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coaching/internal/attendance"
	"coaching/internal/fee"
	"coaching/internal/paper"
	"coaching/internal/result"
	"coaching/internal/student"
)

type fakeHealth struct{ state int }

func (f fakeHealth) State(context.Context) int { return f.state }

// fakeStudents keeps documents newest-first, the order the real store's
// listing query returns.
type fakeStudents struct {
	seq   int
	items []student.Student
}

func (f *fakeStudents) List(context.Context) ([]student.Student, error) {
	return append([]student.Student{}, f.items...), nil
}

func (f *fakeStudents) Insert(_ context.Context, p student.Patch) (student.Student, error) {
	f.seq++
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
	st := student.Student{
		ID:         fmt.Sprintf("s%d", f.seq),
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		EnrolledOn: p.EnrolledOn,
		Course:     p.Course,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.items = append([]student.Student{st}, f.items...)
	return st, nil
}

func (f *fakeStudents) Update(_ context.Context, id string, p student.Patch) (*student.Student, error) {
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		st := &f.items[i]
		if p.Name != nil {
			st.Name = p.Name
		}
		if p.Email != nil {
			st.Email = p.Email
		}
		if p.Course != nil {
			st.Course = p.Course
		}
		out := *st
		return &out, nil
	}
	return nil, nil
}

func (f *fakeStudents) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

type fakeAttendance struct {
	days map[string]attendance.Day
}

func (f *fakeAttendance) Find(_ context.Context, date string) (*attendance.Day, error) {
	d, ok := f.days[date]
	if !ok {
		return nil, nil
	}
	out := d
	return &out, nil
}

func (f *fakeAttendance) Upsert(_ context.Context, date string, records []attendance.Record) (attendance.Day, error) {
	now := time.Now()
	d, ok := f.days[date]
	if !ok {
		d = attendance.Day{ID: "day-" + date, Date: date, CreatedAt: &now}
	}
	d.Records = append([]attendance.Record{}, records...)
	d.UpdatedAt = &now
	f.days[date] = d
	return d, nil
}

type fakeFees struct {
	accounts map[string]fee.Account
}

func (f *fakeFees) List(context.Context) ([]fee.Account, error) {
	out := []fee.Account{}
	for _, acc := range f.accounts {
		out = append(out, acc)
	}
	return out, nil
}

func (f *fakeFees) ApplyPayment(_ context.Context, studentID string, defaultDue float64, p fee.Payment) (fee.Account, error) {
	acc, ok := f.accounts[studentID]
	if !ok {
		acc = fee.Account{ID: "acc-" + studentID, StudentID: studentID, Due: defaultDue, History: []fee.Payment{}}
	}
	acc.Paid += p.Amount
	acc.History = append(acc.History, p)
	f.accounts[studentID] = acc
	return acc, nil
}

type fakeResults struct{}

func (fakeResults) List(context.Context) ([]result.Result, error) { return []result.Result{}, nil }
func (fakeResults) Insert(_ context.Context, p result.Patch) (result.Result, error) {
	return result.Result{ID: "r1", Name: p.Name, Marks: p.Marks}, nil
}
func (fakeResults) Update(context.Context, string, result.Patch) (*result.Result, error) {
	return nil, nil
}
func (fakeResults) Delete(context.Context, string) error { return nil }

type fakePapers struct{}

func (fakePapers) List(context.Context) ([]paper.Paper, error) { return []paper.Paper{}, nil }
func (fakePapers) Insert(_ context.Context, p paper.Patch) (paper.Paper, error) {
	return paper.Paper{ID: "p1", Subject: p.Subject, Questions: []paper.Question{}}, nil
}
func (fakePapers) Update(context.Context, string, paper.Patch) (*paper.Paper, error) {
	return nil, nil
}
func (fakePapers) Delete(context.Context, string) error { return nil }

func newTestRouter() (*gin.Engine, *fakeStudents) {
	gin.SetMode(gin.TestMode)
	students := &fakeStudents{}
	h := New(
		fakeHealth{state: 1},
		student.NewService(students),
		attendance.NewService(&fakeAttendance{days: map[string]attendance.Day{}}),
		fee.NewService(&fakeFees{accounts: map[string]fee.Account{}}),
		result.NewService(fakeResults{}),
		paper.NewService(fakePapers{}),
		nil, // Cloudinary unconfigured
	)
	r := gin.New()
	h.Register(r)
	return r, students
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["db"])
}

func TestStudentsListNewestFirst(t *testing.T) {
	r, _ := newTestRouter()

	wA := doJSON(r, http.MethodPost, "/api/students", gin.H{"name": "A"})
	require.Equal(t, http.StatusCreated, wA.Code)
	wB := doJSON(r, http.MethodPost, "/api/students", gin.H{"name": "B"})
	require.Equal(t, http.StatusCreated, wB.Code)

	w := doJSON(r, http.MethodGet, "/api/students", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []student.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "B", *list[0].Name)
	assert.Equal(t, "A", *list[1].Name)
}

func TestStudentUpdatePatchesOnlySuppliedFields(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/students", gin.H{"name": "A", "email": "a@x.io", "course": "Math"})
	var created student.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodPut, "/api/students/"+created.ID, gin.H{"course": "Physics"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated student.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Physics", *updated.Course)
	assert.Equal(t, "A", *updated.Name)
	assert.Equal(t, "a@x.io", *updated.Email)
}

func TestStudentUpdateUnknownIDReturnsNull(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(r, http.MethodPut, "/api/students/nope", gin.H{"name": "X"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestStudentDeleteIsIdempotent(t *testing.T) {
	r, students := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/students", gin.H{"name": "A"})
	var created student.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	first := doJSON(r, http.MethodDelete, "/api/students/"+created.ID, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"ok": true}`, first.Body.String())

	second := doJSON(r, http.MethodDelete, "/api/students/"+created.ID, nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, `{"ok": true}`, second.Body.String())

	assert.Empty(t, students.items)
}

func TestAttendanceDefaultThenReplace(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodGet, "/api/attendance/2099-12-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var day attendance.Day
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Equal(t, "2099-12-31", day.Date)
	assert.Equal(t, []attendance.Record{}, day.Records)

	w = doJSON(r, http.MethodPost, "/api/attendance/2024-01-01", gin.H{
		"records": []gin.H{{"student_id": "s1", "status": "present"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/attendance/2024-01-01", gin.H{
		"records": []gin.H{{"student_id": "s2", "status": "absent"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/attendance/2024-01-01", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	require.Len(t, day.Records, 1)
	assert.Equal(t, attendance.Record{StudentID: "s2", Status: "absent"}, day.Records[0])
}

func TestPayFee(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/fees/pay", gin.H{"student_id": "studentX", "amount": 200})
	require.Equal(t, http.StatusOK, w.Code)

	var acc fee.Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acc))
	assert.Equal(t, float64(1000), acc.Due)
	assert.Equal(t, float64(200), acc.Paid)
	require.Len(t, acc.History, 1)
	assert.Equal(t, float64(200), acc.History[0].Amount)
}

func TestPayFeeRejectsBadPayloads(t *testing.T) {
	r, _ := newTestRouter()

	// amount missing
	w := doJSON(r, http.MethodPost, "/api/fees/pay", gin.H{"student_id": "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// amount not a number
	w = doJSON(r, http.MethodPost, "/api/fees/pay", gin.H{"student_id": "s1", "amount": "two hundred"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// amount not positive
	w = doJSON(r, http.MethodPost, "/api/fees/pay", gin.H{"student_id": "s1", "amount": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// student missing
	w = doJSON(r, http.MethodPost, "/api/fees/pay", gin.H{"amount": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadWithoutCloudinaryIsUnavailable(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(r, http.MethodPost, "/api/papers/upload", gin.H{"data": "data:application/pdf;base64,AAAA"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
