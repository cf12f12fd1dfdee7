package usecase

import (
	"context"
	"time"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type profileUsecase struct {
	userRepo domain.UserRepository
	tx       domain.Transactor
}

func NewProfileUsecase(userRepo domain.UserRepository, tx domain.Transactor) domain.ProfileUsecase {
	return &profileUsecase{userRepo: userRepo, tx: tx}
}

func (u *profileUsecase) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetWithProfile(ctx, userID)
	if err != nil {
		return nil, mapError(err, "User")
	}
	return user, nil
}

// UpdateMe patches the caller's account and the profile block of their role.
// Sending the other role's block is rejected.
func (u *profileUsecase) UpdateMe(ctx context.Context, userID string, in domain.UpdateProfileInput) (*domain.User, error) {
	user, err := u.userRepo.GetWithProfile(ctx, userID)
	if err != nil {
		return nil, mapError(err, "User")
	}

	switch user.Role {
	case domain.RoleSeeker:
		if in.Company != nil || in.CompanyName != nil {
			return nil, apperror.BadRequest("Seekers cannot set company fields")
		}
	case domain.RoleCompany:
		if in.Seeker != nil {
			return nil, apperror.BadRequest("Companies cannot set seeker fields")
		}
	default:
		if in.Seeker != nil || in.Company != nil || in.CompanyName != nil {
			return nil, apperror.BadRequest("Admins have no profile block")
		}
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if in.DisplayName != nil || in.CompanyName != nil {
			name := user.DisplayName
			if in.DisplayName != nil {
				name = *in.DisplayName
			}
			if err := u.userRepo.UpdateDisplayName(ctx, userID, name, in.CompanyName); err != nil {
				return err
			}
		}
		now := time.Now()
		if in.Seeker != nil {
			p := *in.Seeker
			p.UserID = userID
			p.UpdatedAt = now
			if err := u.userRepo.UpsertSeekerProfile(ctx, &p); err != nil {
				return err
			}
		}
		if in.Company != nil {
			p := *in.Company
			p.UserID = userID
			p.UpdatedAt = now
			if err := u.userRepo.UpsertCompanyProfile(ctx, &p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err, "User")
	}
	return u.GetMe(ctx, userID)
}
