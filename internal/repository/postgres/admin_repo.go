package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type dashboardRepo struct {
	base
}

func NewDashboardRepository(db *pgxpool.Pool) domain.DashboardRepository {
	return &dashboardRepo{base{db: db}}
}

func (r *dashboardRepo) SeekerStats(ctx context.Context, userID string) (*domain.SeekerDashboardStats, error) {
	stats := &domain.SeekerDashboardStats{}
	err := r.q(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM resumes WHERE user_id = $1),
			(SELECT COUNT(*) FROM applications WHERE applicant_id = $1),
			(SELECT COUNT(*) FROM scouts WHERE seeker_id = $1),
			(SELECT COUNT(*) FROM scouts WHERE seeker_id = $1 AND status = 'sent'),
			(SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read),
			(SELECT COUNT(*) FROM interview_slots WHERE seeker_id = $1 AND status = 'accepted' AND start_time > NOW())`,
		userID,
	).Scan(
		&stats.Resumes, &stats.Applications, &stats.ScoutsReceived,
		&stats.UnreadScouts, &stats.UnreadMessages, &stats.UpcomingInterviews,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *dashboardRepo) CompanyStats(ctx context.Context, userID string) (*domain.CompanyDashboardStats, error) {
	stats := &domain.CompanyDashboardStats{}
	err := r.q(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM job_postings WHERE company_id = $1),
			(SELECT COUNT(*) FROM job_postings WHERE company_id = $1 AND status = 'open'),
			(SELECT COUNT(*) FROM scouts WHERE company_id = $1),
			(SELECT COUNT(*) FROM scouts WHERE company_id = $1 AND status = 'responded'),
			(SELECT COUNT(*) FROM applications WHERE company_id = $1),
			(SELECT COUNT(*) FROM applications WHERE company_id = $1 AND status = 'pending'),
			(SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read),
			(SELECT GREATEST(0, scout_credits_total - scout_credits_used) FROM users WHERE id = $1)`,
		userID,
	).Scan(
		&stats.JobPostings, &stats.OpenJobPostings, &stats.ScoutsSent, &stats.ScoutsResponded,
		&stats.ApplicationsReceived, &stats.PendingApplications, &stats.UnreadMessages,
		&stats.ScoutCreditsRemaining,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *dashboardRepo) AdminStats(ctx context.Context) (*domain.AdminDashboardStats, error) {
	stats := &domain.AdminDashboardStats{}
	err := r.q(ctx).QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE role = 'company'),
			COUNT(*) FILTER (WHERE role = 'seeker'),
			COUNT(*) FILTER (WHERE NOT is_active)
		FROM users`,
	).Scan(
		&stats.TotalUsers, &stats.UsersByRole.Admin, &stats.UsersByRole.Company,
		&stats.UsersByRole.Seeker, &stats.InactiveUsers,
	)
	if err != nil {
		return nil, err
	}

	err = r.q(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM job_postings),
			(SELECT COUNT(*) FROM scouts),
			(SELECT COUNT(*) FROM applications)`,
	).Scan(&stats.TotalJobPostings, &stats.TotalScouts, &stats.TotalApplications)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
