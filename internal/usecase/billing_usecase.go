package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/logger"
)

type billingUsecase struct {
	billingRepo domain.BillingRepository
	userRepo    domain.UserRepository
	tx          domain.Transactor
}

func NewBillingUsecase(billingRepo domain.BillingRepository, userRepo domain.UserRepository, tx domain.Transactor) domain.BillingUsecase {
	return &billingUsecase{billingRepo: billingRepo, userRepo: userRepo, tx: tx}
}

// RecordCheckoutResult stores a provider checkout outcome once per external
// reference. A succeeded checkout moves the user to the purchased plan and
// grants its credits in the same transaction. Replays return the stored
// record with created=false.
func (u *billingUsecase) RecordCheckoutResult(ctx context.Context, in domain.CheckoutResultInput) (*domain.BillingRecord, bool, error) {
	existing, err := u.billingRepo.GetByExternalRef(ctx, in.ExternalRef)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, mapError(err, "Billing record")
	}

	if _, err := u.userRepo.GetByID(ctx, in.UserID); err != nil {
		return nil, false, mapError(err, "User")
	}

	record := &domain.BillingRecord{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		ExternalRef:    in.ExternalRef,
		PlanTier:       in.PlanTier,
		CreditsGranted: in.CreditsGranted,
		Amount:         in.Amount,
		Currency:       strings.ToUpper(in.Currency),
		Status:         in.Status,
		CreatedAt:      time.Now(),
	}
	if record.Currency == "" {
		record.Currency = "JPY"
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.billingRepo.Create(ctx, record); err != nil {
			return err
		}
		if record.Status != domain.BillingStatusSucceeded {
			return nil
		}
		user, err := u.userRepo.LockByID(ctx, record.UserID)
		if err != nil {
			return err
		}
		if record.CreditsGranted > 0 {
			if err := user.GrantScoutCredits(record.CreditsGranted); err != nil {
				return err
			}
			if err := u.userRepo.UpdateScoutCredits(ctx, user.ID, user.ScoutCreditsTotal, user.ScoutCreditsUsed); err != nil {
				return err
			}
		}
		return u.userRepo.UpdatePlanTier(ctx, user.ID, record.PlanTier)
	})
	if isDuplicate(err) {
		// Lost a race with a concurrent delivery of the same event.
		stored, getErr := u.billingRepo.GetByExternalRef(ctx, in.ExternalRef)
		if getErr != nil {
			return nil, false, mapError(getErr, "Billing record")
		}
		return stored, false, nil
	}
	if err != nil {
		return nil, false, mapError(err, "Billing record")
	}

	logger.Log.Info("Checkout recorded",
		"user_id", record.UserID, "external_ref", record.ExternalRef, "status", record.Status)
	return record, true, nil
}

func (u *billingUsecase) ListMine(ctx context.Context, userID string, page domain.Page) (*domain.PaginatedResult[domain.BillingRecord], error) {
	records, total, err := u.billingRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, mapError(err, "Billing record")
	}
	return domain.NewPaginatedResult(records, total, page), nil
}
