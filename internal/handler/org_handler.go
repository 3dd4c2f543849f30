package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/response"
	"github.com/stemsi/presensi-backend/internal/service"
	"github.com/stemsi/presensi-backend/internal/validator"
)

// OrgHandler handles CRUD for batches, departments and semesters. Each
// method returns a handler bound to one OrgKind so the three resources
// share a single implementation.
type OrgHandler struct {
	orgService *service.OrgService
}

// NewOrgHandler creates a new OrgHandler.
func NewOrgHandler(orgService *service.OrgService) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

// List godoc
// GET /api/v1/admin/{batches|departments|semesters}
// GET /api/v1/catalog/{batches|departments|semesters}
func (h *OrgHandler) List(kind model.OrgKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		units, err := h.orgService.List(c.Request.Context(), kind)
		if err != nil {
			failFromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"items": units})
	}
}

// Create godoc
// POST /api/v1/admin/{batches|departments|semesters}
func (h *OrgHandler) Create(kind model.OrgKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.OrgUnitRequest
		if fields := validator.Bind(c, &req); fields != nil {
			response.ValidationFailed(c, fields)
			return
		}

		unit, err := h.orgService.Create(c.Request.Context(), kind, req.Name)
		if err != nil {
			failFromError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, gin.H{"item": unit})
	}
}

// Rename godoc
// PUT /api/v1/admin/{batches|departments|semesters}/:id
func (h *OrgHandler) Rename(kind model.OrgKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}

		var req model.OrgUnitRequest
		if fields := validator.Bind(c, &req); fields != nil {
			response.ValidationFailed(c, fields)
			return
		}

		unit, err := h.orgService.Rename(c.Request.Context(), kind, id, req.Name)
		if err != nil {
			failFromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"item": unit})
	}
}

// Delete godoc
// DELETE /api/v1/admin/{batches|departments|semesters}/:id
// Removes the unit together with every course, timetable entry and
// attendance record scoped to it.
func (h *OrgHandler) Delete(kind model.OrgKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}

		if err := h.orgService.Delete(c.Request.Context(), kind, id); err != nil {
			failFromError(c, err)
			return
		}
		response.Deleted(c)
	}
}
