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

// ReportHandler serves attendance percentage reports.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// AdminReport godoc
// GET /api/v1/admin/reports?batch_id=&department_id=&semester_id=&section_id=&course_id=
// Summarizes every student of the scope. course_id is optional.
func (h *ReportHandler) AdminReport(c *gin.Context) {
	var q model.ReportQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	rows, err := h.reportService.AdminReport(c.Request.Context(), q.Scope(), q.CourseID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rows": rows})
}

// TeacherReport godoc
// GET /api/v1/teacher/reports?batch_id=&department_id=&semester_id=&section_id=&course_id=
// Summarizes one allocated course. course_id is required.
func (h *ReportHandler) TeacherReport(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var q model.ReportQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}
	if q.CourseID == 0 {
		response.ValidationFailed(c, map[string]string{"course_id": "course_id is required"})
		return
	}

	rows, err := h.reportService.TeacherReport(c.Request.Context(), claims.UserID, q.CourseID, q.Scope())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rows": rows})
}
