package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/service"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
	"github.com/noah-isme/tutor-adp-api/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students with session-ledger fields
// @Tags Students
// @Produce json
// @Param search query string false "Search by name, code or phone"
// @Param status query string false "Filter by enrollment status"
// @Param classId query string false "Filter by class"
// @Param inDebt query bool false "Filter students owing sessions"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Status = models.StudentStatus(c.Query("status"))
	filter.ClassID = c.Query("classId")
	if inDebt := c.Query("inDebt"); inDebt != "" {
		if inDebt == "true" {
			v := true
			filter.InDebt = &v
		} else if inDebt == "false" {
			v := false
			filter.InDebt = &v
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Projection godoc
// @Summary Project when the student's paid sessions run out
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param from query string false "Projection start date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/projection [get]
func (h *StudentHandler) Projection(c *gin.Context) {
	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid from date"))
			return
		}
		from = parsed
	}

	projection, err := h.students.ProjectEndDate(c.Request.Context(), c.Param("id"), from)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projection, nil)
}
