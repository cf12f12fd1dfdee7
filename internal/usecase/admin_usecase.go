package usecase

import (
	"context"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/security"
)

type adminUsecase struct {
	userRepo domain.UserRepository
	tx       domain.Transactor
	secLog   *security.SecurityLogger
}

func NewAdminUsecase(userRepo domain.UserRepository, tx domain.Transactor, secLog *security.SecurityLogger) domain.AdminUsecase {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	return &adminUsecase{userRepo: userRepo, tx: tx, secLog: secLog}
}

// ListUsers returns paginated users, optionally filtered by role
func (u *adminUsecase) ListUsers(ctx context.Context, role domain.Role, page domain.Page) (*domain.PaginatedResult[domain.User], error) {
	if role != "" && !role.Valid() {
		return nil, apperror.BadRequest("Invalid role filter")
	}
	users, total, err := u.userRepo.List(ctx, role, page)
	if err != nil {
		return nil, mapError(err, "User")
	}
	return domain.NewPaginatedResult(users, total, page), nil
}

// SetActive enables or disables an account. Admins cannot disable themselves.
func (u *adminUsecase) SetActive(ctx context.Context, adminID, userID string, active bool) (*domain.User, error) {
	if adminID == userID && !active {
		return nil, apperror.BadRequest("You cannot deactivate your own account")
	}
	if err := u.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, mapError(err, "User")
	}
	if !active {
		u.secLog.LogAdminAction(ctx, security.EventUserDisabled, adminID, userID, nil)
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapError(err, "User")
	}
	return user, nil
}

// GrantCredits adds scout credits to a company account.
func (u *adminUsecase) GrantCredits(ctx context.Context, adminID, userID string, amount int) (*domain.User, error) {
	var user *domain.User
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		target, err := u.userRepo.LockByID(ctx, userID)
		if err != nil {
			return err
		}
		if target.Role != domain.RoleCompany {
			return apperror.BadRequest("Scout credits can only be granted to companies")
		}
		if err := target.GrantScoutCredits(amount); err != nil {
			return apperror.BadRequest("amount must be positive")
		}
		if err := u.userRepo.UpdateScoutCredits(ctx, target.ID, target.ScoutCreditsTotal, target.ScoutCreditsUsed); err != nil {
			return err
		}
		user = target
		return nil
	})
	if err != nil {
		return nil, mapError(err, "User")
	}
	u.secLog.LogAdminAction(ctx, security.EventCreditsGranted, adminID, userID, map[string]any{"amount": amount})
	return user, nil
}
