package postgres

import (
	"context"

	"go-scout-backend/internal/domain"
)

// Profile blocks live in their own tables but belong to userRepo: the domain
// only ever reaches them through the owning user.

func (r *userRepo) getSeekerProfile(ctx context.Context, userID string) (*domain.SeekerProfile, error) {
	query := `
		SELECT user_id, first_name, last_name, phone, birth_date, prefecture, desired_salary,
		       created_at, updated_at
		FROM seeker_profiles
		WHERE user_id = $1`

	var p domain.SeekerProfile
	err := r.q(ctx).QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Phone, &p.BirthDate, &p.Prefecture, &p.DesiredSalary,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "seeker profile")
	}
	return &p, nil
}

func (r *userRepo) getCompanyProfile(ctx context.Context, userID string) (*domain.CompanyProfile, error) {
	query := `
		SELECT user_id, headquarters, employee_count, website, industry, description,
		       billing_contact_name, billing_contact_email, billing_contact_phone, billing_address,
		       created_at, updated_at
		FROM company_profiles
		WHERE user_id = $1`

	var p domain.CompanyProfile
	err := r.q(ctx).QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Headquarters, &p.EmployeeCount, &p.Website, &p.Industry, &p.Description,
		&p.BillingContactName, &p.BillingContactEmail, &p.BillingContactPhone, &p.BillingAddress,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, "company profile")
	}
	return &p, nil
}

// UpsertSeekerProfile creates or replaces the seeker block (1 per user).
func (r *userRepo) UpsertSeekerProfile(ctx context.Context, p *domain.SeekerProfile) error {
	query := `
		INSERT INTO seeker_profiles (user_id, first_name, last_name, phone, birth_date, prefecture, desired_salary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			birth_date = EXCLUDED.birth_date,
			prefecture = EXCLUDED.prefecture,
			desired_salary = EXCLUDED.desired_salary,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	return r.q(ctx).QueryRow(ctx, query,
		p.UserID, p.FirstName, p.LastName, p.Phone, p.BirthDate, p.Prefecture, p.DesiredSalary,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// UpsertCompanyProfile creates or replaces the company block (1 per user).
func (r *userRepo) UpsertCompanyProfile(ctx context.Context, p *domain.CompanyProfile) error {
	query := `
		INSERT INTO company_profiles (
			user_id, headquarters, employee_count, website, industry, description,
			billing_contact_name, billing_contact_email, billing_contact_phone, billing_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			headquarters = EXCLUDED.headquarters,
			employee_count = EXCLUDED.employee_count,
			website = EXCLUDED.website,
			industry = EXCLUDED.industry,
			description = EXCLUDED.description,
			billing_contact_name = EXCLUDED.billing_contact_name,
			billing_contact_email = EXCLUDED.billing_contact_email,
			billing_contact_phone = EXCLUDED.billing_contact_phone,
			billing_address = EXCLUDED.billing_address,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	return r.q(ctx).QueryRow(ctx, query,
		p.UserID, p.Headquarters, p.EmployeeCount, p.Website, p.Industry, p.Description,
		p.BillingContactName, p.BillingContactEmail, p.BillingContactPhone, p.BillingAddress,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}
