package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/security"
)

const HeaderBillingSignature = "X-Billing-Signature"

// maxWebhookBody bounds the webhook payload read into memory.
const maxWebhookBody = 64 << 10

type BillingHandler struct {
	billingUC domain.BillingUsecase
	secret    string
	secLog    *security.SecurityLogger
}

func NewBillingHandler(public, protected *gin.RouterGroup, billingUC domain.BillingUsecase, webhookSecret string, secLog *security.SecurityLogger) {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	handler := &BillingHandler{billingUC: billingUC, secret: webhookSecret, secLog: secLog}

	public.POST("/billing/checkout-result", handler.CheckoutResult)
	protected.GET("/billing/records", handler.ListMine)
}

// CheckoutResult godoc
// @Summary      Record a payment provider checkout outcome
// @Description  Authenticated by an HMAC-SHA256 hex signature of the raw body in X-Billing-Signature. Replays of the same external_ref return 200 without side effects.
// @Tags         billing
// @Accept       json
// @Param        X-Billing-Signature  header    string                      true  "Body signature"
// @Param        body                 body      domain.CheckoutResultInput  true  "Checkout result"
// @Success      201                  {object}  response.Response{data=domain.BillingRecord}
// @Success      200                  {object}  response.Response{data=domain.BillingRecord}
// @Failure      401                  {object}  response.Response
// @Router       /billing/checkout-result [post]
func (h *BillingHandler) CheckoutResult(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.Error(apperror.BadRequest("Could not read request body"))
		return
	}
	if !security.VerifySignature(h.secret, raw, c.GetHeader(HeaderBillingSignature)) {
		h.secLog.LogBillingRejected(c.Request.Context(), c.ClientIP(), c.GetString(string(domain.KeyRequestID)))
		c.Error(apperror.Unauthorized("Invalid billing signature"))
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var req domain.CheckoutResultInput
	if !bindJSON(c, &req) {
		return
	}
	record, created, err := h.billingUC.RecordCheckoutResult(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	if !created {
		response.Success(c, http.StatusOK, "Checkout already recorded", record)
		return
	}
	response.Success(c, http.StatusCreated, "Checkout recorded", record)
}

// ListMine godoc
// @Summary      Own billing history
// @Tags         billing
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.BillingRecord]}
// @Router       /billing/records [get]
// @Security     BearerAuth
func (h *BillingHandler) ListMine(c *gin.Context) {
	userID, _ := caller(c)
	res, err := h.billingUC.ListMine(c.Request.Context(), userID, pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Billing records retrieved", res)
}
