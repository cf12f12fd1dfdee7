package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type applicationRepo struct {
	base
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{base{db: db}}
}

const applicationSelect = `
	SELECT a.id, a.applicant_id, a.company_id, a.resume_id, a.job_posting_id, a.status,
	       a.applied_at, a.viewed_at, a.updated_at,
	       ap.display_name, sp.prefecture,
	       co.display_name, co.company_name,
	       r.title
	FROM applications a
	JOIN users ap ON ap.id = a.applicant_id
	LEFT JOIN seeker_profiles sp ON sp.user_id = a.applicant_id
	JOIN users co ON co.id = a.company_id
	LEFT JOIN resumes r ON r.id = a.resume_id`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	applicant := &domain.UserSummary{}
	company := &domain.UserSummary{}
	if err := row.Scan(
		&a.ID, &a.ApplicantID, &a.CompanyID, &a.ResumeID, &a.JobPostingID, &a.Status,
		&a.AppliedAt, &a.ViewedAt, &a.UpdatedAt,
		&applicant.DisplayName, &applicant.Prefecture,
		&company.DisplayName, &company.CompanyName,
		&a.ResumeTitle,
	); err != nil {
		return nil, err
	}
	applicant.ID = a.ApplicantID
	company.ID = a.CompanyID
	a.Applicant = applicant
	a.Company = company
	return &a, nil
}

// Create relies on applications_applicant_company_key; a second application
// to the same company surfaces as ErrDuplicate.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, applicant_id, company_id, resume_id, job_posting_id, status, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q(ctx).Exec(ctx, query,
		app.ID, app.ApplicantID, app.CompanyID, app.ResumeID, app.JobPostingID, app.Status, app.AppliedAt, app.UpdatedAt)
	return duplicate(err)
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	a, err := scanApplication(r.q(ctx).QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "application")
	}
	return a, nil
}

// LockByID locks the application row; the joined rows are not locked.
func (r *applicationRepo) LockByID(ctx context.Context, id string) (*domain.Application, error) {
	a, err := scanApplication(r.q(ctx).QueryRow(ctx, applicationSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id))
	if err != nil {
		return nil, notFound(err, "application")
	}
	return a, nil
}

func (r *applicationRepo) list(ctx context.Context, where string, args []any, page domain.Page) ([]domain.Application, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM applications a WHERE `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := applicationSelect + ` WHERE ` + where +
		` ORDER BY a.applied_at DESC, a.id LIMIT $` + itoa(n+1) + ` OFFSET $` + itoa(n+2)
	rows, err := r.q(ctx).Query(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, *a)
	}
	return apps, total, rows.Err()
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string, page domain.Page) ([]domain.Application, int64, error) {
	return r.list(ctx, "a.applicant_id = $1", []any{applicantID}, page)
}

// ListByCompany optionally narrows to one status.
func (r *applicationRepo) ListByCompany(ctx context.Context, companyID, status string, page domain.Page) ([]domain.Application, int64, error) {
	if status == "" {
		return r.list(ctx, "a.company_id = $1", []any{companyID}, page)
	}
	return r.list(ctx, "a.company_id = $1 AND a.status = $2", []any{companyID, status}, page)
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, app *domain.Application) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE applications SET status = $2, viewed_at = $3, updated_at = $4 WHERE id = $1`,
		app.ID, app.Status, app.ViewedAt, app.UpdatedAt)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "application")
}

func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "application")
}

func (r *applicationRepo) ExistsBetween(ctx context.Context, applicantID, companyID string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE applicant_id = $1 AND company_id = $2)`,
		applicantID, companyID).Scan(&exists)
	return exists, err
}
