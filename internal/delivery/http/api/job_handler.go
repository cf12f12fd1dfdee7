package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type JobHandler struct {
	jobUC    domain.JobUsecase
	ledgerUC domain.LedgerUsecase
}

func NewJobHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase, ledgerUC domain.LedgerUsecase, g Guards) {
	handler := &JobHandler{jobUC: jobUC, ledgerUC: ledgerUC}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.POST("", g.Company, handler.Create)
		jobs.GET("/:id", handler.Get)
		jobs.PUT("/:id", g.Company, handler.Update)
	}

	// Budget management; ownership is checked per posting
	budget := protected.Group("/jobs/:id", g.CompanyOrAdmin)
	{
		budget.GET("/cap_plan", handler.GetCapPlan)
		budget.POST("/cap_plan/set", handler.SetCapPlan)
		budget.GET("/tickets", handler.GetTickets)
		budget.POST("/tickets/issue", handler.IssueTickets)
		budget.POST("/tickets/consume", handler.ConsumeTicket)
		budget.POST("/tickets/reset", handler.ResetTickets)
		budget.POST("/tickets/settings", handler.UpdateTicketSettings)
		budget.GET("/tickets/consumptions", handler.ListConsumptions)
	}
}

// List godoc
// @Summary      List job postings
// @Description  Companies see their own postings; everyone else sees open postings.
// @Tags         jobs
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.JobPosting]}
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	userID, role := caller(c)
	res, err := h.jobUC.List(c.Request.Context(), userID, role, pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs retrieved", res)
}

// Create godoc
// @Summary      Create a job posting
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        body  body      domain.JobInput  true  "Job posting"
// @Success      201   {object}  response.Response{data=domain.JobPosting}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req domain.JobInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	job, err := h.jobUC.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}

// Get godoc
// @Summary      Get a job posting
// @Tags         jobs
// @Param        id   path      string  true  "Job posting ID"
// @Success      200  {object}  response.Response{data=domain.JobPosting}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) Get(c *gin.Context) {
	userID, role := caller(c)
	job, err := h.jobUC.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job retrieved", job)
}

// Update godoc
// @Summary      Update a job posting
// @Tags         jobs
// @Accept       json
// @Param        id    path      string           true  "Job posting ID"
// @Param        body  body      domain.JobInput  true  "Job posting"
// @Success      200   {object}  response.Response{data=domain.JobPosting}
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	var req domain.JobInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	job, err := h.jobUC.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

// GetCapPlan godoc
// @Summary      Get the spending cap of a posting
// @Tags         budget
// @Param        id   path      string  true  "Job posting ID"
// @Success      200  {object}  response.Response{data=domain.JobCapPlan}
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/cap_plan [get]
// @Security     BearerAuth
func (h *JobHandler) GetCapPlan(c *gin.Context) {
	userID, role := caller(c)
	plan, err := h.ledgerUC.GetCapPlan(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Cap plan retrieved", plan)
}

// SetCapPlan godoc
// @Summary      Set the spending cap of a posting
// @Description  cap_percent must be 20, 22 or 25.
// @Tags         budget
// @Accept       json
// @Param        id    path      string               true  "Job posting ID"
// @Param        body  body      domain.CapPlanInput  true  "Cap plan"
// @Success      200   {object}  response.Response{data=domain.JobCapPlan}
// @Failure      400   {object}  response.Response
// @Router       /jobs/{id}/cap_plan/set [post]
// @Security     BearerAuth
func (h *JobHandler) SetCapPlan(c *gin.Context) {
	var req domain.CapPlanInput
	if !bindJSON(c, &req) {
		return
	}
	userID, role := caller(c)
	plan, err := h.ledgerUC.SetCapPlan(c.Request.Context(), userID, role, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Cap plan updated", plan)
}

// GetTickets godoc
// @Summary      Get the ticket ledger of a posting
// @Tags         budget
// @Param        id   path      string  true  "Job posting ID"
// @Success      200  {object}  response.Response{data=domain.JobTicketLedger}
// @Router       /jobs/{id}/tickets [get]
// @Security     BearerAuth
func (h *JobHandler) GetTickets(c *gin.Context) {
	userID, role := caller(c)
	ledger, err := h.ledgerUC.GetTickets(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Ticket ledger retrieved", ledger)
}

// IssueTickets godoc
// @Summary      Issue tickets to a posting
// @Tags         budget
// @Accept       json
// @Param        id    path      string                    true  "Job posting ID"
// @Param        body  body      domain.IssueTicketsInput  true  "Tickets"
// @Success      200   {object}  response.Response{data=domain.JobTicketLedger}
// @Router       /jobs/{id}/tickets/issue [post]
// @Security     BearerAuth
func (h *JobHandler) IssueTickets(c *gin.Context) {
	var req domain.IssueTicketsInput
	if !bindJSON(c, &req) {
		return
	}
	userID, role := caller(c)
	ledger, err := h.ledgerUC.IssueTickets(c.Request.Context(), userID, role, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Tickets issued", ledger)
}

// ConsumeTicket godoc
// @Summary      Consume one ticket
// @Tags         budget
// @Accept       json
// @Param        id    path      string               true  "Job posting ID"
// @Param        body  body      domain.ConsumeInput  true  "Consumption"
// @Success      201   {object}  response.Response{data=domain.TicketConsumption}
// @Failure      409   {object}  response.Response
// @Router       /jobs/{id}/tickets/consume [post]
// @Security     BearerAuth
func (h *JobHandler) ConsumeTicket(c *gin.Context) {
	var req domain.ConsumeInput
	if !bindJSON(c, &req) {
		return
	}
	userID, role := caller(c)
	consumption, err := h.ledgerUC.Consume(c.Request.Context(), userID, role, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Ticket consumed", consumption)
}

// ResetTickets godoc
// @Summary      Reset the ticket period
// @Tags         budget
// @Param        id   path      string  true  "Job posting ID"
// @Success      200  {object}  response.Response{data=domain.JobTicketLedger}
// @Router       /jobs/{id}/tickets/reset [post]
// @Security     BearerAuth
func (h *JobHandler) ResetTickets(c *gin.Context) {
	userID, role := caller(c)
	ledger, err := h.ledgerUC.Reset(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Tickets reset", ledger)
}

// UpdateTicketSettings godoc
// @Summary      Update ledger settings
// @Tags         budget
// @Accept       json
// @Param        id    path      string                      true  "Job posting ID"
// @Param        body  body      domain.LedgerSettingsInput  true  "Settings"
// @Success      200   {object}  response.Response{data=domain.JobTicketLedger}
// @Router       /jobs/{id}/tickets/settings [post]
// @Security     BearerAuth
func (h *JobHandler) UpdateTicketSettings(c *gin.Context) {
	var req domain.LedgerSettingsInput
	if !bindJSON(c, &req) {
		return
	}
	userID, role := caller(c)
	ledger, err := h.ledgerUC.UpdateSettings(c.Request.Context(), userID, role, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Settings updated", ledger)
}

// ListConsumptions godoc
// @Summary      Ticket consumption log
// @Tags         budget
// @Param        id     path      string  true   "Job posting ID"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.TicketConsumption]}
// @Router       /jobs/{id}/tickets/consumptions [get]
// @Security     BearerAuth
func (h *JobHandler) ListConsumptions(c *gin.Context) {
	userID, role := caller(c)
	res, err := h.ledgerUC.ListConsumptions(c.Request.Context(), userID, role, c.Param("id"), pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Consumptions retrieved", res)
}
