package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/presensi-backend/internal/response"
	"github.com/stemsi/presensi-backend/internal/service"
)

// DashboardHandler serves the admin overview.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboardData godoc
// GET /api/v1/admin/dashboard?fresh=true
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	fresh, _ := strconv.ParseBool(c.Query("fresh"))

	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), fresh)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}
