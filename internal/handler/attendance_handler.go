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

// AttendanceHandler handles marking, browsing and correcting attendance.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// ─── Teacher ───────────────────────────────────────────────────────

type rosterQuery struct {
	model.ScopeQuery
	CourseID int `form:"course_id" binding:"required,min=1"`
}

// Roster godoc
// GET /api/v1/teacher/roster?course_id=&batch_id=&department_id=&semester_id=&section_id=
// Lists the students to mark for an allocated course.
func (h *AttendanceHandler) Roster(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var q rosterQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	students, err := h.attendanceService.Roster(c.Request.Context(), claims.UserID, q.CourseID, q.Scope())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// Mark godoc
// POST /api/v1/teacher/attendance
// Records one session. A practical session is expanded across every
// practical slot of the course on that weekday.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	result, err := h.attendanceService.Mark(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ─── Student ───────────────────────────────────────────────────────

// MyAttendance godoc
// GET /api/v1/student/courses/:id/attendance
// Lists the caller's own records for one course.
func (h *AttendanceHandler) MyAttendance(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, ok := intParam(c, "id")
	if !ok {
		return
	}

	records, err := h.attendanceService.StudentAttendance(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		failFromError(c, err)
		return
	}

	present := 0
	for _, r := range records {
		if r.Status == model.StatusPresent {
			present++
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"records":    records,
		"total":      len(records),
		"present":    present,
		"percentage": service.Percentage(present, len(records)),
	})
}

// ─── Admin ─────────────────────────────────────────────────────────

// Search godoc
// GET /api/v1/admin/attendance?course_id=&batch_id=&department_id=&semester_id=&section_id=&student_id=&date=
func (h *AttendanceHandler) Search(c *gin.Context) {
	var q model.AttendanceSearch
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	records, err := h.attendanceService.Search(c.Request.Context(), q)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"records": records})
}

// UpdateStatus godoc
// PUT /api/v1/admin/attendance/:id
func (h *AttendanceHandler) UpdateStatus(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	if err := h.attendanceService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// DeleteRecord godoc
// DELETE /api/v1/admin/attendance/:id
func (h *AttendanceHandler) DeleteRecord(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.attendanceService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Deleted(c)
}
