package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coaching/internal/attendance"
	"coaching/internal/cloudinary"
	"coaching/internal/fee"
	"coaching/internal/paper"
	"coaching/internal/result"
	"coaching/internal/student"
)

// HealthStore reports the document store connection state code.
type HealthStore interface {
	State(ctx context.Context) int
}

// Handler binds the resource services to the /api routes.
type Handler struct {
	health     HealthStore
	students   *student.Service
	attendance *attendance.Service
	fees       *fee.Service
	results    *result.Service
	papers     *paper.Service
	cloud      *cloudinary.Client // nil when Cloudinary is not configured
}

// New creates a handler over the given services.
func New(health HealthStore, students *student.Service, att *attendance.Service, fees *fee.Service, results *result.Service, papers *paper.Service, cloud *cloudinary.Client) *Handler {
	return &Handler{
		health:     health,
		students:   students,
		attendance: att,
		fees:       fees,
		results:    results,
		papers:     papers,
		cloud:      cloud,
	}
}

// Register mounts all routes under /api.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")

	api.GET("/health", h.Health)

	api.GET("/students", h.ListStudents)
	api.POST("/students", h.CreateStudent)
	api.PUT("/students/:id", h.UpdateStudent)
	api.DELETE("/students/:id", h.DeleteStudent)

	api.GET("/attendance/:date", h.GetAttendance)
	api.POST("/attendance/:date", h.SetAttendance)

	api.GET("/fees", h.ListFees)
	api.POST("/fees/pay", h.PayFee)

	api.GET("/results", h.ListResults)
	api.POST("/results", h.CreateResult)
	api.PUT("/results/:id", h.UpdateResult)
	api.DELETE("/results/:id", h.DeleteResult)

	api.GET("/papers", h.ListPapers)
	api.POST("/papers", h.CreatePaper)
	api.PUT("/papers/:id", h.UpdatePaper)
	api.DELETE("/papers/:id", h.DeletePaper)
	api.POST("/papers/upload", h.UploadPaperFile)
}

// Health reports liveness and the store connection state code.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "db": h.health.State(c.Request.Context())})
}

// ---------- Students ----------

func (h *Handler) ListStudents(c *gin.Context) {
	items, err := h.students.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req student.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var req student.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	// doc is nil for unknown ids; the body is then a JSON null, not an error.
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---------- Attendance ----------

func (h *Handler) GetAttendance(c *gin.Context) {
	day, err := h.attendance.Day(c.Request.Context(), c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *Handler) SetAttendance(c *gin.Context) {
	var req struct {
		Records []attendance.Record `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	day, err := h.attendance.Set(c.Request.Context(), c.Param("date"), req.Records)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// ---------- Fees ----------

func (h *Handler) ListFees(c *gin.Context) {
	items, err := h.fees.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) PayFee(c *gin.Context) {
	var req struct {
		StudentID string   `json:"student_id" binding:"required"`
		Amount    *float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	acc, err := h.fees.Pay(c.Request.Context(), req.StudentID, *req.Amount)
	if err != nil {
		if errors.Is(err, fee.ErrInvalidAmount) || errors.Is(err, fee.ErrStudentRequired) {
			badRequest(c, err)
			return
		}
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

// ---------- Results ----------

func (h *Handler) ListResults(c *gin.Context) {
	items, err := h.results.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateResult(c *gin.Context) {
	var req result.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := h.results.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) UpdateResult(c *gin.Context) {
	var req result.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := h.results.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteResult(c *gin.Context) {
	if err := h.results.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---------- Papers ----------

func (h *Handler) ListPapers(c *gin.Context) {
	items, err := h.papers.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreatePaper(c *gin.Context) {
	var req paper.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := h.papers.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) UpdatePaper(c *gin.Context) {
	var req paper.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	doc, err := h.papers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeletePaper(c *gin.Context) {
	if err := h.papers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UploadPaperFile pushes a paper artifact to Cloudinary and returns the
// hosted URL for use as file_name. Accepts a multipart "file" field or a
// JSON body with a base64 data URL.
func (h *Handler) UploadPaperFile(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "file storage not configured"})
		return
	}

	var uploaded *cloudinary.UploadResult
	var err error
	switch {
	case strings.Contains(c.ContentType(), "multipart/form-data"):
		file, header, ferr := c.Request.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		defer file.Close()
		data, ferr := io.ReadAll(file)
		if ferr != nil {
			fail(c, ferr)
			return
		}
		uploaded, err = h.cloud.UploadBytes(data, header.Filename)

	default:
		var body struct {
			Data string `json:"data" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&body); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
			return
		}
		uploaded, err = h.cloud.UploadBase64(body.Data)
	}

	if err != nil {
		log.Printf("cloudinary upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "file upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":       uploaded.SecureURL,
		"public_id": uploaded.PublicID,
		"bytes":     uploaded.Bytes,
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func fail(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
