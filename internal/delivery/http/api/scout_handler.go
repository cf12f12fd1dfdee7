package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/config"
	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type ScoutHandler struct {
	scoutUC domain.ScoutUsecase
}

func NewScoutHandler(protected *gin.RouterGroup, scoutUC domain.ScoutUsecase, g Guards) {
	handler := &ScoutHandler{scoutUC: scoutUC}

	scouts := protected.Group("/scouts")
	{
		scouts.POST("", g.Company, g.Limit(config.ActionScoutSend), handler.Send)
		scouts.POST("/draft", g.Company, handler.Draft)
		scouts.GET("", handler.List)
		scouts.GET("/:id", handler.Get)
		scouts.POST("/:id/view", g.Seeker, handler.MarkViewed)
		scouts.POST("/:id/respond", g.Seeker, handler.Respond)
	}
}

// Send godoc
// @Summary      Send a scout to a seeker
// @Description  Spends one ticket of the job posting's ledger, or one global scout credit when the posting has no ledger.
// @Tags         scouts
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SendScoutInput  true  "Scout"
// @Success      201   {object}  response.Response{data=domain.Scout}
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response  "budget_exhausted or duplicate"
// @Failure      429   {object}  response.Response
// @Router       /scouts [post]
// @Security     BearerAuth
func (h *ScoutHandler) Send(c *gin.Context) {
	var req domain.SendScoutInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	scout, err := h.scoutUC.Send(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Scout sent", scout)
}

// Draft godoc
// @Summary      Draft a scout message with text generation
// @Tags         scouts
// @Accept       json
// @Produce      json
// @Param        body  body      domain.DraftScoutInput  true  "Draft request"
// @Success      200   {object}  response.Response{data=domain.ScoutDraft}
// @Failure      503   {object}  response.Response
// @Router       /scouts/draft [post]
// @Security     BearerAuth
func (h *ScoutHandler) Draft(c *gin.Context) {
	var req domain.DraftScoutInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	draft, err := h.scoutUC.Draft(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Draft generated", draft)
}

// List godoc
// @Summary      List scouts
// @Description  Seekers see received scouts (group=company groups them by sender); companies see sent scouts.
// @Tags         scouts
// @Produce      json
// @Param        group  query     string  false  "company"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /scouts [get]
// @Security     BearerAuth
func (h *ScoutHandler) List(c *gin.Context) {
	userID, role := caller(c)
	ctx := c.Request.Context()

	switch c.Query("group") {
	case "":
		res, err := h.scoutUC.List(ctx, userID, role, pageFrom(c))
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Scouts retrieved", res)
	case "company":
		if role != domain.RoleSeeker {
			c.Error(apperror.Forbidden("Only seekers can group received scouts"))
			return
		}
		res, err := h.scoutUC.ListGrouped(ctx, userID, pageFrom(c))
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Scouts retrieved", res)
	default:
		c.Error(apperror.BadRequest("group must be company"))
	}
}

// Get godoc
// @Summary      Get a scout
// @Tags         scouts
// @Param        id   path      string  true  "Scout ID"
// @Success      200  {object}  response.Response{data=domain.Scout}
// @Router       /scouts/{id} [get]
// @Security     BearerAuth
func (h *ScoutHandler) Get(c *gin.Context) {
	userID, role := caller(c)
	scout, err := h.scoutUC.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Scout retrieved", scout)
}

// MarkViewed godoc
// @Summary      Mark a received scout as viewed
// @Tags         scouts
// @Param        id   path      string  true  "Scout ID"
// @Success      200  {object}  response.Response{data=domain.Scout}
// @Failure      409  {object}  response.Response
// @Router       /scouts/{id}/view [post]
// @Security     BearerAuth
func (h *ScoutHandler) MarkViewed(c *gin.Context) {
	userID, _ := caller(c)
	scout, err := h.scoutUC.MarkViewed(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Scout viewed", scout)
}

// Respond godoc
// @Summary      Respond to a received scout
// @Tags         scouts
// @Param        id   path      string  true  "Scout ID"
// @Success      200  {object}  response.Response{data=domain.Scout}
// @Failure      409  {object}  response.Response
// @Router       /scouts/{id}/respond [post]
// @Security     BearerAuth
func (h *ScoutHandler) Respond(c *gin.Context) {
	userID, _ := caller(c)
	scout, err := h.scoutUC.Respond(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Scout responded", scout)
}
