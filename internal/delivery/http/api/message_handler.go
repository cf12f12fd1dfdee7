package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type MessageHandler struct {
	messageUC domain.MessageUsecase
}

func NewMessageHandler(protected *gin.RouterGroup, messageUC domain.MessageUsecase) {
	handler := &MessageHandler{messageUC: messageUC}

	messages := protected.Group("/messages")
	{
		messages.POST("", handler.Send)
		messages.GET("", handler.List)
		messages.GET("/:id/thread", handler.Thread)
		messages.POST("/:id/read", handler.MarkRead)
	}
}

// Send godoc
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SendMessageInput  true  "Message"
// @Success      201   {object}  response.Response{data=domain.Message}
// @Router       /messages [post]
// @Security     BearerAuth
func (h *MessageHandler) Send(c *gin.Context) {
	var req domain.SendMessageInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	msg, err := h.messageUC.Send(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// List godoc
// @Summary      List messages
// @Tags         messages
// @Param        box    query     string  false  "inbox|sent"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.Message]}
// @Router       /messages [get]
// @Security     BearerAuth
func (h *MessageHandler) List(c *gin.Context) {
	userID, _ := caller(c)
	res, err := h.messageUC.List(c.Request.Context(), userID, c.Query("box"), pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Messages retrieved", res)
}

// Thread godoc
// @Summary      Conversation a message belongs to
// @Tags         messages
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response{data=[]domain.Message}
// @Router       /messages/{id}/thread [get]
// @Security     BearerAuth
func (h *MessageHandler) Thread(c *gin.Context) {
	userID, _ := caller(c)
	thread, err := h.messageUC.Thread(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Thread retrieved", thread)
}

// MarkRead godoc
// @Summary      Mark a received message as read
// @Tags         messages
// @Param        id   path      string  true  "Message ID"
// @Success      200  {object}  response.Response{data=domain.Message}
// @Router       /messages/{id}/read [post]
// @Security     BearerAuth
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, _ := caller(c)
	msg, err := h.messageUC.MarkRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message marked as read", msg)
}
