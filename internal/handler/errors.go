package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/presensi-backend/internal/repository"
	"github.com/stemsi/presensi-backend/internal/response"
	"github.com/stemsi/presensi-backend/internal/service"
)

// failFromError maps a service or repository error onto the response
// envelope. Unrecognised errors are attached to the context for the
// request logger and reported as INTERNAL_ERROR.
func failFromError(c *gin.Context, err error) {
	var rowErr *service.ImportRowError
	switch {
	case errors.As(err, &rowErr):
		fields := map[string]string{"row": strconv.Itoa(rowErr.Row), "detail": rowErr.Error()}
		for k, v := range rowErr.Fields {
			fields[k] = v
		}
		response.FailWithFields(c, http.StatusBadRequest, response.ErrImportRejected, fields)

	case errors.Is(err, service.ErrNotAllocated):
		response.Fail(c, http.StatusForbidden, response.ErrNotAllocated)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAdminExists):
		response.Fail(c, http.StatusConflict, response.ErrAdminExists)

	case errors.Is(err, service.ErrSectionScopeMismatch), errors.Is(err, service.ErrCourseScopeMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrScopeMismatch)
	case errors.Is(err, service.ErrSemesterRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrSemesterRequired)
	case errors.Is(err, service.ErrInvalidDateRange), errors.Is(err, service.ErrInvalidTimeRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidRange)
	case errors.Is(err, service.ErrNoStudentStatuses):
		response.ValidationFailed(c, map[string]string{"statuses": err.Error()})
	case errors.Is(err, service.ErrAdmissionDateRequired):
		response.ValidationFailed(c, map[string]string{"admission_date": err.Error()})
	case errors.Is(err, service.ErrUnknownStudent), errors.Is(err, service.ErrDuplicateStudent):
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrUnknownStudent, err.Error())
	case errors.Is(err, service.ErrNotATeacher):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidReference)
	case errors.Is(err, service.ErrUnsupportedImport):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrMalformedImport):
		response.FailWithDetail(c, http.StatusBadRequest, response.ErrImportRejected, err.Error())

	case errors.Is(err, service.ErrAllocationExists):
		response.Fail(c, http.StatusConflict, response.ErrAllocationExists)
	case errors.Is(err, service.ErrDuplicateTimetableEntry):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateEntry)
	case errors.Is(err, service.ErrSlotOccupied):
		response.Fail(c, http.StatusConflict, response.ErrSlotOccupied)
	case errors.Is(err, service.ErrAlreadyMarked):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyMarked)

	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, repository.ErrForeignKey):
		if c.Request.Method == http.MethodDelete {
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidReference)

	default:
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// intParam parses a positive integer path parameter, writing INVALID_ID
// and returning false when it is malformed.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
