package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type jobRepo struct {
	base
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{base{db: db}}
}

const jobSelect = `
	SELECT j.id, j.company_id, j.title, j.description, j.status, j.created_at, j.updated_at,
	       u.company_name
	FROM job_postings j
	JOIN users u ON u.id = j.company_id`

func scanJob(row pgx.Row) (*domain.JobPosting, error) {
	var j domain.JobPosting
	if err := row.Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Status, &j.CreatedAt, &j.UpdatedAt,
		&j.CompanyName,
	); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	query := `
		INSERT INTO job_postings (id, company_id, title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q(ctx).Exec(ctx, query,
		job.ID, job.CompanyID, job.Title, job.Description, job.Status, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	job, err := scanJob(r.q(ctx).QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "job posting")
	}
	return job, nil
}

func (r *jobRepo) list(ctx context.Context, where string, arg any, page domain.Page) ([]domain.JobPosting, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM job_postings j WHERE `+where, arg)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q(ctx).Query(ctx, jobSelect+` WHERE `+where+` ORDER BY j.created_at DESC LIMIT $2 OFFSET $3`,
		arg, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []domain.JobPosting{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepo) ListByCompany(ctx context.Context, companyID string, page domain.Page) ([]domain.JobPosting, int64, error) {
	return r.list(ctx, "j.company_id = $1", companyID, page)
}

func (r *jobRepo) ListOpen(ctx context.Context, page domain.Page) ([]domain.JobPosting, int64, error) {
	return r.list(ctx, "j.status = $1", domain.JobStatusOpen, page)
}

func (r *jobRepo) Update(ctx context.Context, job *domain.JobPosting) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE job_postings SET title = $2, description = $3, status = $4, updated_at = $5 WHERE id = $1`,
		job.ID, job.Title, job.Description, job.Status, job.UpdatedAt)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "job posting")
}
