package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleSeeker  Role = "seeker"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleSeeker || r == RoleCompany || r == RoleAdmin
}

const PlanTierFree = "free"

// User is one row per identity. The role decides which profile block may be
// present: Seeker for seekers, Company for companies, neither for admins.
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	DisplayName       string     `json:"display_name"`
	CompanyName       *string    `json:"company_name,omitempty"`
	IsActive          bool       `json:"is_active"`
	ScoutCreditsTotal int        `json:"scout_credits_total"`
	ScoutCreditsUsed  int        `json:"scout_credits_used"`
	PlanTier          string     `json:"plan_tier"`
	TOTPSecret        *string    `json:"-"`
	TOTPEnabled       bool       `json:"totp_enabled"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastLoginAt       *time.Time `json:"-"`

	Seeker  *SeekerProfile  `json:"seeker_profile,omitempty"`
	Company *CompanyProfile `json:"company_profile,omitempty"`
}

// ScoutCreditsRemaining is never negative: used ≤ total is a table constraint.
func (u *User) ScoutCreditsRemaining() int {
	if remaining := u.ScoutCreditsTotal - u.ScoutCreditsUsed; remaining > 0 {
		return remaining
	}
	return 0
}

// ConsumeScoutCredit spends one global scout credit.
func (u *User) ConsumeScoutCredit() error {
	if u.ScoutCreditsUsed >= u.ScoutCreditsTotal {
		return ErrCreditsExhausted
	}
	u.ScoutCreditsUsed++
	return nil
}

// GrantScoutCredits adds n credits; totals never decrease.
func (u *User) GrantScoutCredits(n int) error {
	if n <= 0 {
		return ErrValidation
	}
	u.ScoutCreditsTotal += n
	return nil
}

type SeekerProfile struct {
	UserID        string     `json:"user_id"`
	FirstName     *string    `json:"first_name,omitempty" binding:"omitempty,max=100,valid_name"`
	LastName      *string    `json:"last_name,omitempty" binding:"omitempty,max=100,valid_name"`
	Phone         *string    `json:"phone,omitempty" binding:"omitempty,valid_phone"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Prefecture    *string    `json:"prefecture,omitempty" binding:"omitempty,prefecture"`
	DesiredSalary *int       `json:"desired_salary,omitempty" binding:"omitempty,gte=0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CompanyProfile struct {
	UserID              string    `json:"user_id"`
	Headquarters        *string   `json:"headquarters,omitempty" binding:"omitempty,max=200"`
	EmployeeCount       *int      `json:"employee_count,omitempty" binding:"omitempty,gte=0"`
	Website             *string   `json:"website,omitempty" binding:"omitempty,url"`
	Industry            *string   `json:"industry,omitempty" binding:"omitempty,max=100"`
	Description         *string   `json:"description,omitempty" binding:"omitempty,max=5000"`
	BillingContactName  *string   `json:"billing_contact_name,omitempty" binding:"omitempty,max=100"`
	BillingContactEmail *string   `json:"billing_contact_email,omitempty" binding:"omitempty,email"`
	BillingContactPhone *string   `json:"billing_contact_phone,omitempty" binding:"omitempty,valid_phone"`
	BillingAddress      *string   `json:"billing_address,omitempty" binding:"omitempty,max=300"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UserSummary is the joined display block attached to scouts, applications and messages.
type UserSummary struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	CompanyName *string `json:"company_name,omitempty"`
	Prefecture  *string `json:"prefecture,omitempty"`
}

type UserRepository interface {
	// Create inserts the user and, inside the same transaction, the profile
	// block matching its role.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetWithProfile(ctx context.Context, id string) (*User, error)
	// LockByID reads the user row with FOR UPDATE; must run inside a transaction.
	LockByID(ctx context.Context, id string) (*User, error)
	UpdateScoutCredits(ctx context.Context, id string, total, used int) error
	UpdateDisplayName(ctx context.Context, id, displayName string, companyName *string) error
	UpsertSeekerProfile(ctx context.Context, profile *SeekerProfile) error
	UpsertCompanyProfile(ctx context.Context, profile *CompanyProfile) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePlanTier(ctx context.Context, id, planTier string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, role Role, page Page) ([]User, int64, error)
}

type RegisterSeekerInput struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,max=100,no_emoji"`
}

type RegisterCompanyInput struct {
	Email               string  `json:"email" binding:"required,email,max=254"`
	Password            string  `json:"password" binding:"required,min=8,max=72"`
	DisplayName         string  `json:"display_name" binding:"required,max=100,no_emoji"`
	CompanyName         string  `json:"company_name" binding:"required,max=200"`
	Headquarters        *string `json:"headquarters" binding:"omitempty,max=200"`
	EmployeeCount       *int    `json:"employee_count" binding:"omitempty,gte=0"`
	BillingContactName  *string `json:"billing_contact_name" binding:"omitempty,max=100"`
	BillingContactEmail *string `json:"billing_contact_email" binding:"omitempty,email"`
}

type LoginInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	OTP       string `json:"otp" binding:"omitempty,len=6,numeric"`
	ClientIP  string `json:"-"`
	UserAgent string `json:"-"`
}

type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthUsecase interface {
	RegisterSeeker(ctx context.Context, in RegisterSeekerInput) (*AuthResult, error)
	RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

// UpdateProfileInput carries the editable fields; only the block matching
// the caller's role is accepted.
type UpdateProfileInput struct {
	DisplayName *string         `json:"display_name" binding:"omitempty,max=100,no_emoji"`
	CompanyName *string         `json:"company_name" binding:"omitempty,max=200"`
	Seeker      *SeekerProfile  `json:"seeker_profile"`
	Company     *CompanyProfile `json:"company_profile"`
}

type ProfileUsecase interface {
	GetMe(ctx context.Context, userID string) (*User, error)
	UpdateMe(ctx context.Context, userID string, in UpdateProfileInput) (*User, error)
}
