package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/logger"
	"go-scout-backend/pkg/security"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID, email, role string) (string, time.Time, error)
}

// LoginGuard tracks failed logins and blocks brute force attempts.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

type authUsecase struct {
	userRepo      domain.UserRepository
	tokens        TokenIssuer
	guard         LoginGuard
	secLog        *security.SecurityLogger
	signupCredits int
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens TokenIssuer,
	guard LoginGuard,
	secLog *security.SecurityLogger,
	signupCredits int,
) domain.AuthUsecase {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	return &authUsecase{
		userRepo:      userRepo,
		tokens:        tokens,
		guard:         guard,
		secLog:        secLog,
		signupCredits: signupCredits,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnHash spends a bcrypt comparison so unknown emails take as long as
// wrong passwords.
func burnHash(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = security.HashPassword("not-a-real-password")
	})
	_ = security.CheckPassword(dummyHash, password)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}

func (u *authUsecase) register(ctx context.Context, user *domain.User, password string) (*domain.AuthResult, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	now := time.Now()
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PasswordHash = hash
	user.IsActive = true
	user.PlanTier = domain.PlanTierFree
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := u.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("Email is already registered")
		}
		return nil, mapError(err, "User")
	}
	return u.issue(user)
}

func (u *authUsecase) issue(user *domain.User) (*domain.AuthResult, error) {
	token, exp, err := u.tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (u *authUsecase) RegisterSeeker(ctx context.Context, in domain.RegisterSeekerInput) (*domain.AuthResult, error) {
	return u.register(ctx, &domain.User{
		Email:       in.Email,
		Role:        domain.RoleSeeker,
		DisplayName: in.DisplayName,
	}, in.Password)
}

func (u *authUsecase) RegisterCompany(ctx context.Context, in domain.RegisterCompanyInput) (*domain.AuthResult, error) {
	companyName := in.CompanyName
	return u.register(ctx, &domain.User{
		Email:             in.Email,
		Role:              domain.RoleCompany,
		DisplayName:       in.DisplayName,
		CompanyName:       &companyName,
		ScoutCreditsTotal: u.signupCredits,
		Company: &domain.CompanyProfile{
			Headquarters:        in.Headquarters,
			EmployeeCount:       in.EmployeeCount,
			BillingContactName:  in.BillingContactName,
			BillingContactEmail: in.BillingContactEmail,
		},
	}, in.Password)
}

// Login checks credentials (and a TOTP code when enabled) and issues a token.
// Failures are counted per email and IP; a blocked pair is refused before the
// password is looked at.
func (u *authUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	reqID := requestID(ctx)

	// 1. Refuse blocked callers
	blocked, err := u.guard.IsBlocked(ctx, email, in.ClientIP)
	if err != nil {
		logger.Log.Warn("Login block check failed", "error", err)
	}
	if blocked {
		return nil, apperror.RateLimited("Too many failed login attempts. Try again later.")
	}

	// 2. Verify credentials
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, mapError(err, "User")
	}
	switch {
	case user == nil:
		burnHash(in.Password)
		return nil, u.fail(ctx, email, in, reqID, "unknown_email")
	case security.CheckPassword(user.PasswordHash, in.Password) != nil:
		return nil, u.fail(ctx, email, in, reqID, "wrong_password")
	}

	// 3. Second factor
	if user.TOTPEnabled && user.TOTPSecret != nil {
		if in.OTP == "" {
			return nil, apperror.Unauthorized("Two-factor code required")
		}
		if !security.ValidateTOTP(in.OTP, *user.TOTPSecret) {
			return nil, u.fail(ctx, email, in, reqID, "invalid_otp")
		}
	}

	if !user.IsActive {
		u.secLog.LogLoginFailed(ctx, email, in.ClientIP, in.UserAgent, reqID, "inactive")
		return nil, apperror.Forbidden("Account is disabled")
	}

	// 4. Success
	if err := u.guard.ClearAttempts(ctx, email, in.ClientIP); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}
	now := time.Now()
	if err := u.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.Log.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}
	u.secLog.LogLoginSuccess(ctx, user.ID, in.ClientIP, in.UserAgent, reqID)
	return u.issue(user)
}

func (u *authUsecase) fail(ctx context.Context, email string, in domain.LoginInput, reqID, reason string) error {
	blocked, _, err := u.guard.RecordFailedAttempt(ctx, email, in.ClientIP, in.UserAgent, reqID)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Debug("Failed to record login attempt", "reason", reason, "error", err)
	}
	if blocked {
		return apperror.RateLimited("Too many failed login attempts. Try again later.")
	}
	return apperror.Unauthorized("Invalid email or password")
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetWithProfile(ctx, id)
	if err != nil {
		return nil, mapError(err, "User")
	}
	return user, nil
}
