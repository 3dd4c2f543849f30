package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/presensi-backend/internal/middleware"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/response"
	"github.com/stemsi/presensi-backend/internal/service"
	"github.com/stemsi/presensi-backend/internal/validator"
)

// TimetableHandler handles timetable editing and the weekly grid view.
type TimetableHandler struct {
	timetableService *service.TimetableService
}

// NewTimetableHandler creates a new TimetableHandler.
func NewTimetableHandler(timetableService *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableService: timetableService}
}

// CreateEntry godoc
// POST /api/v1/admin/timetable
func (h *TimetableHandler) CreateEntry(c *gin.Context) {
	var req model.TimetableRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	entry := req.Entry()
	if err := h.timetableService.Create(c.Request.Context(), entry); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

// UpdateEntry godoc
// PUT /api/v1/admin/timetable/:id
func (h *TimetableHandler) UpdateEntry(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.TimetableRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	entry := req.Entry()
	if err := h.timetableService.Update(c.Request.Context(), id, entry); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry godoc
// DELETE /api/v1/admin/timetable/:id
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.timetableService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Deleted(c)
}

// Grid godoc
// GET /api/v1/admin/timetable?batch_id=&department_id=&semester_id=&section_id=
// GET /api/v1/teacher/timetable?batch_id=&department_id=&semester_id=&section_id=
// Returns the weekly grid of an explicit scope.
func (h *TimetableHandler) Grid(c *gin.Context) {
	var q model.ScopeQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	grid, err := h.timetableService.Grid(c.Request.Context(), q.Scope())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, grid)
}

// StudentGrid godoc
// GET /api/v1/student/timetable?semester_id=
// Returns the weekly grid of the caller's own scope.
func (h *TimetableHandler) StudentGrid(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var q semesterQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	grid, err := h.timetableService.Grid(c.Request.Context(), claims.StudentScope(q.SemesterID))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, grid)
}
