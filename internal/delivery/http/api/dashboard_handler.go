package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type DashboardHandler struct {
	dashboardUC domain.DashboardUsecase
}

func NewDashboardHandler(protected *gin.RouterGroup, dashboardUC domain.DashboardUsecase) {
	handler := &DashboardHandler{dashboardUC: dashboardUC}
	protected.GET("/dashboard/stats", handler.Stats)
}

// Stats godoc
// @Summary      Dashboard counters for the caller's role
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.DashboardStats}
// @Router       /dashboard/stats [get]
// @Security     BearerAuth
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID, role := caller(c)
	stats, err := h.dashboardUC.Stats(c.Request.Context(), userID, role)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Stats retrieved", stats)
}
