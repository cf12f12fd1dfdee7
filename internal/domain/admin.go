package domain

import "context"

// DashboardStats holds role-conditioned counters; only the block for the
// caller's role is populated.
type DashboardStats struct {
	Role    Role                  `json:"role"`
	Seeker  *SeekerDashboardStats  `json:"seeker,omitempty"`
	Company *CompanyDashboardStats `json:"company,omitempty"`
	Admin   *AdminDashboardStats   `json:"admin,omitempty"`
}

type SeekerDashboardStats struct {
	Resumes            int64 `json:"resumes"`
	Applications       int64 `json:"applications"`
	ScoutsReceived     int64 `json:"scoutsReceived"`
	UnreadScouts       int64 `json:"unreadScouts"`
	UnreadMessages     int64 `json:"unreadMessages"`
	UpcomingInterviews int64 `json:"upcomingInterviews"`
}

type CompanyDashboardStats struct {
	JobPostings           int64 `json:"jobPostings"`
	OpenJobPostings       int64 `json:"openJobPostings"`
	ScoutsSent            int64 `json:"scoutsSent"`
	ScoutsResponded       int64 `json:"scoutsResponded"`
	ApplicationsReceived  int64 `json:"applicationsReceived"`
	PendingApplications   int64 `json:"pendingApplications"`
	UnreadMessages        int64 `json:"unreadMessages"`
	ScoutCreditsRemaining int   `json:"scoutCreditsRemaining"`
}

type AdminDashboardStats struct {
	TotalUsers        int64       `json:"totalUsers"`
	UsersByRole       UsersByRole `json:"usersByRole"`
	InactiveUsers     int64       `json:"inactiveUsers"`
	TotalJobPostings  int64       `json:"totalJobPostings"`
	TotalScouts       int64       `json:"totalScouts"`
	TotalApplications int64       `json:"totalApplications"`
}

type UsersByRole struct {
	Admin   int64 `json:"admin"`
	Company int64 `json:"company"`
	Seeker  int64 `json:"seeker"`
}

type DashboardRepository interface {
	SeekerStats(ctx context.Context, userID string) (*SeekerDashboardStats, error)
	CompanyStats(ctx context.Context, userID string) (*CompanyDashboardStats, error)
	AdminStats(ctx context.Context) (*AdminDashboardStats, error)
}

type DashboardUsecase interface {
	Stats(ctx context.Context, userID string, role Role) (*DashboardStats, error)
}

type SetActiveInput struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type GrantCreditsInput struct {
	Amount int `json:"amount" binding:"required,gt=0,lte=100000"`
}

type AdminUsecase interface {
	ListUsers(ctx context.Context, role Role, page Page) (*PaginatedResult[User], error)
	SetActive(ctx context.Context, adminID, userID string, active bool) (*User, error)
	GrantCredits(ctx context.Context, adminID, userID string, amount int) (*User, error)
}
