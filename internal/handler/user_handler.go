package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stemsi/presensi-backend/internal/response"
	"github.com/stemsi/presensi-backend/internal/service"
	"github.com/stemsi/presensi-backend/internal/validator"
)

// UserHandler handles admin-facing teacher and student management.
type UserHandler struct {
	userService    *service.UserService
	maxImportBytes int64
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, maxImportBytes int64) *UserHandler {
	return &UserHandler{userService: userService, maxImportBytes: maxImportBytes}
}

// CreateUser godoc
// POST /api/v1/admin/users
// Creates a teacher or a student.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// ImportUsers godoc
// POST /api/v1/admin/users/import
// Bulk-creates users from a CSV or XLSX upload (form field "file"). The
// whole file is rejected if any row is invalid.
func (h *UserHandler) ImportUsers(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if header.Size > h.maxImportBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	rows, err := service.ParseUserImport(header.Filename, file)
	if err != nil {
		failFromError(c, err)
		return
	}

	result, err := h.userService.Import(c.Request.Context(), rows)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

type listStudentsQuery struct {
	BatchID      int  `form:"batch_id" binding:"required,min=1"`
	DepartmentID int  `form:"department_id" binding:"required,min=1"`
	SectionID    *int `form:"section_id" binding:"omitempty,min=0"`
	Page         int  `form:"page" binding:"omitempty,min=1"`
	PerPage      int  `form:"per_page" binding:"omitempty,min=1,max=200"`
}

// ListStudents godoc
// GET /api/v1/admin/students?batch_id=&department_id=&section_id=&page=&per_page=
// Lists students of a cohort ordered by their structured ID. Omitting
// section_id lists the whole cohort; section_id=0 lists unsectioned
// students only.
func (h *UserHandler) ListStudents(c *gin.Context) {
	var q listStudentsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	filter := repository.StudentFilter{BatchID: q.BatchID, DepartmentID: q.DepartmentID}
	if q.SectionID != nil {
		ref := model.SectionFromPtr(q.SectionID)
		filter.Section = &ref
	}

	students, pagination, err := h.userService.ListStudents(c.Request.Context(), filter, q.Page, q.PerPage)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"students": students}, pagination)
}

// ListTeachers godoc
// GET /api/v1/admin/teachers
func (h *UserHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.userService.ListTeachers(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"teachers": teachers})
}

// UpdateStudent godoc
// PUT /api/v1/admin/students/:id
// Edits a student. Their active sessions are revoked.
func (h *UserHandler) UpdateStudent(c *gin.Context) {
	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	user, err := h.userService.UpdateStudent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// UpdateTeacher godoc
// PUT /api/v1/admin/teachers/:id
func (h *UserHandler) UpdateTeacher(c *gin.Context) {
	var req model.UpdateTeacherRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	user, err := h.userService.UpdateTeacher(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// DeleteUser godoc
// DELETE /api/v1/admin/users/:id
// Deletes a teacher or student. The administrator cannot be deleted.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, err)
		return
	}

	response.Deleted(c)
}
