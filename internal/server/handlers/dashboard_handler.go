package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planora/planora/internal/server/middleware"
	"github.com/planora/planora/internal/service"
)

// DashboardHandler serves the aggregated dashboard endpoint.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
