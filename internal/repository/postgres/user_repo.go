package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type userRepo struct {
	base
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{base{db: db}}
}

const userColumns = `id, email, password_hash, role, display_name, company_name, is_active,
	scout_credits_total, scout_credits_used, plan_tier, totp_secret, totp_enabled,
	created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.DisplayName, &u.CompanyName, &u.IsActive,
		&u.ScoutCreditsTotal, &u.ScoutCreditsUsed, &u.PlanTier, &u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.inTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO users (id, email, password_hash, role, display_name, company_name, is_active,
				scout_credits_total, scout_credits_used, plan_tier, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		_, err := r.q(ctx).Exec(ctx, query,
			user.ID, user.Email, user.PasswordHash, user.Role, user.DisplayName, user.CompanyName, user.IsActive,
			user.ScoutCreditsTotal, user.ScoutCreditsUsed, user.PlanTier, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return duplicate(err)
		}

		switch user.Role {
		case domain.RoleSeeker:
			if user.Seeker == nil {
				user.Seeker = &domain.SeekerProfile{}
			}
			user.Seeker.UserID = user.ID
			return r.UpsertSeekerProfile(ctx, user.Seeker)
		case domain.RoleCompany:
			if user.Company == nil {
				user.Company = &domain.CompanyProfile{}
			}
			user.Company.UserID = user.ID
			return r.UpsertCompanyProfile(ctx, user.Company)
		}
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.q(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.q(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *userRepo) LockByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.q(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// GetWithProfile loads the user and the profile block matching its role.
func (r *userRepo) GetWithProfile(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch u.Role {
	case domain.RoleSeeker:
		u.Seeker, err = r.getSeekerProfile(ctx, id)
	case domain.RoleCompany:
		u.Company, err = r.getCompanyProfile(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) UpdateScoutCredits(ctx context.Context, id string, total, used int) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE users SET scout_credits_total = $2, scout_credits_used = $3, updated_at = NOW() WHERE id = $1`,
		id, total, used)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "user")
}

func (r *userRepo) UpdateDisplayName(ctx context.Context, id, displayName string, companyName *string) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE users SET display_name = $2, company_name = COALESCE($3, company_name), updated_at = NOW() WHERE id = $1`,
		id, displayName, companyName)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "user")
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "user")
}

func (r *userRepo) UpdatePlanTier(ctx context.Context, id, planTier string) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE users SET plan_tier = $2, updated_at = NOW() WHERE id = $1`, id, planTier)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "user")
}

func (r *userRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.q(ctx).Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

// List returns users newest first, optionally filtered by role.
func (r *userRepo) List(ctx context.Context, role domain.Role, page domain.Page) ([]domain.User, int64, error) {
	where := ""
	args := []any{}
	if role != "" {
		where = "WHERE role = $1"
		args = append(args, role)
	}

	total, err := r.count(ctx, `SELECT COUNT(*) FROM users `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `SELECT ` + userColumns + ` FROM users ` + where +
		` ORDER BY created_at DESC LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	rows, err := r.q(ctx).Query(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}
