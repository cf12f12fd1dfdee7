package domain

import (
	"context"
	"time"
)

const (
	BillingStatusSucceeded = "succeeded"
	BillingStatusFailed    = "failed"
	BillingStatusCanceled  = "canceled"
)

// BillingRecord stores the outcome of an external checkout. ExternalRef is
// unique so replayed webhooks are recorded once.
type BillingRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ExternalRef    string    `json:"external_ref"`
	PlanTier       string    `json:"plan_tier"`
	CreditsGranted int       `json:"credits_granted"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

type CheckoutResultInput struct {
	UserID         string `json:"user_id" binding:"required,uuid"`
	ExternalRef    string `json:"external_ref" binding:"required,max=200"`
	PlanTier       string `json:"plan_tier" binding:"required,max=50"`
	CreditsGranted int    `json:"credits_granted" binding:"gte=0"`
	Amount         int64  `json:"amount" binding:"gte=0"`
	Currency       string `json:"currency" binding:"omitempty,len=3"`
	Status         string `json:"status" binding:"required,oneof=succeeded failed canceled"`
}

type BillingRepository interface {
	// Create returns ErrDuplicate when external_ref was already recorded.
	Create(ctx context.Context, record *BillingRecord) error
	GetByExternalRef(ctx context.Context, ref string) (*BillingRecord, error)
	ListByUser(ctx context.Context, userID string, page Page) ([]BillingRecord, int64, error)
}

type BillingUsecase interface {
	// RecordCheckoutResult stores the outcome; a replay returns the stored
	// record and created=false.
	RecordCheckoutResult(ctx context.Context, in CheckoutResultInput) (record *BillingRecord, created bool, err error)
	ListMine(ctx context.Context, userID string, page Page) (*PaginatedResult[BillingRecord], error)
}
