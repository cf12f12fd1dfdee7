package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase, g Guards) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin", g.Admin)
	{
		admin.GET("/users", handler.ListUsers)
		admin.POST("/users/:id/active", handler.SetActive)
		admin.POST("/users/:id/credits", handler.GrantCredits)
	}
}

// ListUsers godoc
// @Summary      List users
// @Tags         admin
// @Param        role   query     string  false  "seeker|company|admin"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.User]}
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *AdminHandler) ListUsers(c *gin.Context) {
	res, err := h.adminUC.ListUsers(c.Request.Context(), domain.Role(c.Query("role")), pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved", res)
}

// SetActive godoc
// @Summary      Enable or disable an account
// @Tags         admin
// @Accept       json
// @Param        id    path      string                 true  "User ID"
// @Param        body  body      domain.SetActiveInput  true  "State"
// @Success      200   {object}  response.Response{data=domain.User}
// @Router       /admin/users/{id}/active [post]
// @Security     BearerAuth
func (h *AdminHandler) SetActive(c *gin.Context) {
	var req domain.SetActiveInput
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := caller(c)
	user, err := h.adminUC.SetActive(c.Request.Context(), adminID, c.Param("id"), *req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User updated", user)
}

// GrantCredits godoc
// @Summary      Grant scout credits to a company
// @Tags         admin
// @Accept       json
// @Param        id    path      string                    true  "User ID"
// @Param        body  body      domain.GrantCreditsInput  true  "Amount"
// @Success      200   {object}  response.Response{data=domain.User}
// @Router       /admin/users/{id}/credits [post]
// @Security     BearerAuth
func (h *AdminHandler) GrantCredits(c *gin.Context) {
	var req domain.GrantCreditsInput
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := caller(c)
	user, err := h.adminUC.GrantCredits(c.Request.Context(), adminID, c.Param("id"), req.Amount)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Credits granted", user)
}
