package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profile := protected.Group("/profile")
	{
		profile.GET("/me", handler.GetMe)
		profile.PUT("/me", handler.UpdateMe)
	}
}

// GetMe godoc
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Router       /profile/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, _ := caller(c)
	user, err := h.profileUC.GetMe(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", user)
}

// UpdateMe godoc
// @Summary      Update own profile
// @Description  Seekers may only send seeker_profile, companies only company_profile.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        body  body      domain.UpdateProfileInput  true  "Profile fields"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Router       /profile/me [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	var req domain.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	user, err := h.profileUC.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user)
}
