package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type ApplicationHandler struct {
	appUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, appUC domain.ApplicationUsecase, g Guards) {
	handler := &ApplicationHandler{appUC: appUC}

	applications := protected.Group("/applications")
	{
		applications.POST("", g.Seeker, handler.Apply)
		applications.GET("", handler.List)
		applications.GET("/:id", handler.Get)
		applications.POST("/:id/update_status", g.Company, handler.UpdateStatus)
		applications.DELETE("/:id", g.Seeker, handler.Cancel)
	}
}

// Apply godoc
// @Summary      Apply to a company
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ApplyInput  true  "Application"
// @Success      201   {object}  response.Response{data=domain.Application}
// @Failure      409   {object}  response.Response
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req domain.ApplyInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	app, err := h.appUC.Apply(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Application submitted", app)
}

// List godoc
// @Summary      List applications
// @Description  Seekers see their own; companies see received ones and may filter by status.
// @Tags         applications
// @Produce      json
// @Param        status  query     string  false  "pending|viewed|accepted|rejected|hired"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=domain.PaginatedResult[domain.Application]}
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, role := caller(c)
	res, err := h.appUC.List(c.Request.Context(), userID, role, c.Query("status"), pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Applications retrieved", res)
}

// Get godoc
// @Summary      Get an application
// @Tags         applications
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response{data=domain.Application}
// @Router       /applications/{id} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, role := caller(c)
	app, err := h.appUC.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application retrieved", app)
}

// UpdateStatus godoc
// @Summary      Move an application along its lifecycle
// @Tags         applications
// @Accept       json
// @Param        id    path      string                               true  "Application ID"
// @Param        body  body      domain.UpdateApplicationStatusInput  true  "Status"
// @Success      200   {object}  response.Response{data=domain.Application}
// @Failure      409   {object}  response.Response
// @Router       /applications/{id}/update_status [post]
// @Security     BearerAuth
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateApplicationStatusInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	app, err := h.appUC.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application status updated", app)
}

// Cancel godoc
// @Summary      Withdraw an application
// @Tags         applications
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Router       /applications/{id} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	userID, _ := caller(c)
	if err := h.appUC.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Application withdrawn", nil)
}
