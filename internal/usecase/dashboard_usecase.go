package usecase

import (
	"context"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type dashboardUsecase struct {
	repo domain.DashboardRepository
}

func NewDashboardUsecase(repo domain.DashboardRepository) domain.DashboardUsecase {
	return &dashboardUsecase{repo: repo}
}

// Stats returns the counters for the caller's role.
func (u *dashboardUsecase) Stats(ctx context.Context, userID string, role domain.Role) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{Role: role}
	var err error
	switch role {
	case domain.RoleSeeker:
		stats.Seeker, err = u.repo.SeekerStats(ctx, userID)
	case domain.RoleCompany:
		stats.Company, err = u.repo.CompanyStats(ctx, userID)
	case domain.RoleAdmin:
		stats.Admin, err = u.repo.AdminStats(ctx)
	default:
		return nil, apperror.Forbidden("Unknown role")
	}
	if err != nil {
		return nil, mapError(err, "Dashboard")
	}
	return stats, nil
}
