package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/config"
	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, g Guards) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register-user", g.Limit(config.ActionRegister), handler.RegisterSeeker)
		publicAuth.POST("/register-company", g.Limit(config.ActionRegister), handler.RegisterCompany)
		publicAuth.POST("/login", g.Limit(config.ActionLogin), handler.Login)
	}

	protected.GET("/auth/me", handler.Me)
}

// RegisterSeeker godoc
// @Summary      Register a job seeker
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RegisterSeekerInput  true  "Seeker registration"
// @Success      201   {object}  response.Response{data=domain.AuthResult}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/register-user [post]
func (h *AuthHandler) RegisterSeeker(c *gin.Context) {
	var req domain.RegisterSeekerInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authUC.RegisterSeeker(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", res)
}

// RegisterCompany godoc
// @Summary      Register a company
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RegisterCompanyInput  true  "Company registration"
// @Success      201   {object}  response.Response{data=domain.AuthResult}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /auth/register-company [post]
func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var req domain.RegisterCompanyInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authUC.RegisterCompany(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", res)
}

// Login godoc
// @Summary      Log in
// @Description  Returns a bearer token. Accounts with two-factor enabled must send otp.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LoginInput  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.AuthResult}
// @Failure      401   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	req.ClientIP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	res, err := h.authUC.Login(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", res)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := caller(c)
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", user)
}
