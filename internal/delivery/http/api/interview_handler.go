package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

func NewInterviewHandler(protected *gin.RouterGroup, interviewUC domain.InterviewUsecase) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	slots := protected.Group("/interviews/slots")
	{
		slots.POST("", handler.Propose)
		slots.GET("", handler.List)
		slots.POST("/:id/accept", handler.Accept)
		slots.POST("/:id/decline", handler.Decline)
		slots.POST("/:id/expire", handler.Expire)
	}
}

// Propose godoc
// @Summary      Propose interview slots
// @Description  Companies must name seeker_id; seekers propose for themselves.
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ProposeSlotsInput  true  "Slots"
// @Success      201   {object}  response.Response{data=[]domain.InterviewSlot}
// @Router       /interviews/slots [post]
// @Security     BearerAuth
func (h *InterviewHandler) Propose(c *gin.Context) {
	var req domain.ProposeSlotsInput
	if !bindJSON(c, &req) {
		return
	}
	userID, role := caller(c)
	slots, err := h.interviewUC.Propose(c.Request.Context(), userID, role, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Slots proposed", slots)
}

// List godoc
// @Summary      List interview slots
// @Tags         interviews
// @Param        job_posting_id  query     string  false  "Job posting ID"
// @Param        seeker_id       query     string  false  "Seeker ID"
// @Param        page            query     int     false  "Page number"
// @Param        limit           query     int     false  "Page size"
// @Success      200             {object}  response.Response{data=domain.PaginatedResult[domain.InterviewSlot]}
// @Router       /interviews/slots [get]
// @Security     BearerAuth
func (h *InterviewHandler) List(c *gin.Context) {
	userID, role := caller(c)
	slots, err := h.interviewUC.List(c.Request.Context(), userID, role, c.Query("job_posting_id"), c.Query("seeker_id"), pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Slots retrieved", slots)
}

func (h *InterviewHandler) answer(c *gin.Context, message string, action func(userID string, role domain.Role, id string) (*domain.InterviewSlot, error)) {
	userID, role := caller(c)
	slot, err := action(userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, message, slot)
}

// Accept godoc
// @Summary      Accept a proposed slot
// @Description  Declines the pair's other proposals and charges a ticket when the posting has a ledger.
// @Tags         interviews
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  response.Response{data=domain.InterviewSlot}
// @Failure      409  {object}  response.Response
// @Router       /interviews/slots/{id}/accept [post]
// @Security     BearerAuth
func (h *InterviewHandler) Accept(c *gin.Context) {
	h.answer(c, "Slot accepted", func(userID string, role domain.Role, id string) (*domain.InterviewSlot, error) {
		return h.interviewUC.Accept(c.Request.Context(), userID, role, id)
	})
}

// Decline godoc
// @Summary      Decline a proposed slot
// @Tags         interviews
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  response.Response{data=domain.InterviewSlot}
// @Router       /interviews/slots/{id}/decline [post]
// @Security     BearerAuth
func (h *InterviewHandler) Decline(c *gin.Context) {
	h.answer(c, "Slot declined", func(userID string, role domain.Role, id string) (*domain.InterviewSlot, error) {
		return h.interviewUC.Decline(c.Request.Context(), userID, role, id)
	})
}

// Expire godoc
// @Summary      Withdraw a proposed slot
// @Tags         interviews
// @Param        id   path      string  true  "Slot ID"
// @Success      200  {object}  response.Response{data=domain.InterviewSlot}
// @Router       /interviews/slots/{id}/expire [post]
// @Security     BearerAuth
func (h *InterviewHandler) Expire(c *gin.Context) {
	h.answer(c, "Slot expired", func(userID string, role domain.Role, id string) (*domain.InterviewSlot, error) {
		return h.interviewUC.Expire(c.Request.Context(), userID, role, id)
	})
}
