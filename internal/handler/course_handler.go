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

// CourseHandler handles course and allocation endpoints for every role.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ─── Admin ─────────────────────────────────────────────────────────

// CreateCourse godoc
// POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	course := &model.Course{Name: req.Name, Scope: req.Scope()}
	if err := h.courseService.CreateCourse(c.Request.Context(), course); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// ListCourses godoc
// GET /api/v1/admin/courses?batch_id=&department_id=&semester_id=&section_id=
// Lists the courses of exactly the given scope.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var q model.ScopeQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	courses, err := h.courseService.ListCourses(c.Request.Context(), q.Scope())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// DeleteCourse godoc
// DELETE /api/v1/admin/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Deleted(c)
}

// Allocate godoc
// POST /api/v1/admin/allocations
// Assigns a teacher to a course. An existing allocation for the same
// course and scope is reported as ALLOCATION_EXISTS unless force is set,
// in which case it is reassigned and the previous teacher is returned.
func (h *CourseHandler) Allocate(c *gin.Context) {
	var req model.AllocateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	result, err := h.courseService.Allocate(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replaced {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// ListAllocations godoc
// GET /api/v1/admin/allocations?batch_id=&department_id=&semester_id=&section_id=
func (h *CourseHandler) ListAllocations(c *gin.Context) {
	var q model.ScopeQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	allocations, err := h.courseService.ListAllocations(c.Request.Context(), q.Scope())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"allocations": allocations})
}

// ─── Teacher ───────────────────────────────────────────────────────

// ListTeacherCourses godoc
// GET /api/v1/teacher/courses?batch_id=&department_id=&semester_id=&section_id=
// Lists only the courses allocated to the caller in the given scope.
func (h *CourseHandler) ListTeacherCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var q model.ScopeQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	courses, err := h.courseService.ListTeacherCourses(c.Request.Context(), claims.UserID, q.Scope())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// ─── Student ───────────────────────────────────────────────────────

type semesterQuery struct {
	SemesterID int `form:"semester_id" binding:"required,min=1"`
}

// ListStudentCourses godoc
// GET /api/v1/student/courses?semester_id=
// Lists the courses of the caller's own scope for a semester.
func (h *CourseHandler) ListStudentCourses(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var q semesterQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	courses, err := h.courseService.ListCourses(c.Request.Context(), claims.StudentScope(q.SemesterID))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}
