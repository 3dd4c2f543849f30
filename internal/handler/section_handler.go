package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/response"
	"github.com/stemsi/presensi-backend/internal/service"
	"github.com/stemsi/presensi-backend/internal/validator"
)

// SectionHandler handles section management and lookup.
type SectionHandler struct {
	sectionService *service.SectionService
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(sectionService *service.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

type sectionPairQuery struct {
	BatchID      int `form:"batch_id" binding:"required,min=1"`
	DepartmentID int `form:"department_id" binding:"required,min=1"`
}

// ListSections godoc
// GET /api/v1/catalog/sections?batch_id=&department_id=
// Lists the sections of a (batch, department) pair. sections_enabled is
// false when the pair has none and scoping falls back to unsectioned.
func (h *SectionHandler) ListSections(c *gin.Context) {
	var q sectionPairQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	ctx := c.Request.Context()
	sections, err := h.sectionService.ListByPair(ctx, q.BatchID, q.DepartmentID)
	if err != nil {
		failFromError(c, err)
		return
	}
	enabled, err := h.sectionService.SectionsEnabled(ctx, q.BatchID, q.DepartmentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"sections":         sections,
		"sections_enabled": enabled,
	})
}

// CreateSection godoc
// POST /api/v1/admin/sections
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req model.CreateSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	section := &model.Section{
		Name:         req.Name,
		BatchID:      req.BatchID,
		DepartmentID: req.DepartmentID,
	}
	if err := h.sectionService.Create(c.Request.Context(), section); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"section": section})
}

// RenameSection godoc
// PUT /api/v1/admin/sections/:id
func (h *SectionHandler) RenameSection(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req model.OrgUnitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	section, err := h.sectionService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"section": section})
}

// DeleteSection godoc
// DELETE /api/v1/admin/sections/:id
// Scoped rows referencing the section fall back to unsectioned.
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.sectionService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	response.Deleted(c)
}
