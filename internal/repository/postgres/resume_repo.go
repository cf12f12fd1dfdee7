package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"go-scout-backend/internal/domain"
)

type resumeRepo struct {
	base
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{base{db: db}}
}

const resumeColumns = `id, user_id, title, skills, self_pr, desired_job, desired_industries, desired_locations,
	is_active, submitted_at, created_at, updated_at`

func scanResume(row pgx.Row) (*domain.Resume, error) {
	var r domain.Resume
	err := row.Scan(
		&r.ID, &r.UserID, &r.Title, &r.Skills, &r.SelfPR, &r.DesiredJob,
		pq.Array(&r.DesiredIndustries), pq.Array(&r.DesiredLocations),
		&r.IsActive, &r.SubmittedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if r.DesiredIndustries == nil {
		r.DesiredIndustries = []string{}
	}
	if r.DesiredLocations == nil {
		r.DesiredLocations = []string{}
	}
	r.Experiences = []domain.Experience{}
	return &r, nil
}

func (r *resumeRepo) Create(ctx context.Context, resume *domain.Resume) error {
	return r.inTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO resumes (id, user_id, title, skills, self_pr, desired_job,
				desired_industries, desired_locations, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		_, err := r.q(ctx).Exec(ctx, query,
			resume.ID, resume.UserID, resume.Title, resume.Skills, resume.SelfPR, resume.DesiredJob,
			pq.Array(resume.DesiredIndustries), pq.Array(resume.DesiredLocations),
			resume.IsActive, resume.CreatedAt, resume.UpdatedAt,
		)
		if err != nil {
			return duplicate(err)
		}
		return r.insertExperiences(ctx, resume)
	})
}

func (r *resumeRepo) insertExperiences(ctx context.Context, resume *domain.Resume) error {
	query := `
		INSERT INTO experiences (id, resume_id, company, period_from, period_to, employment_type, position, tasks, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, e := range resume.Experiences {
		if _, err := r.q(ctx).Exec(ctx, query,
			e.ID, resume.ID, e.Company, e.PeriodFrom, e.PeriodTo, e.EmploymentType, e.Position, e.Tasks, e.Order,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *resumeRepo) loadExperiences(ctx context.Context, resumes []*domain.Resume) error {
	if len(resumes) == 0 {
		return nil
	}
	ids := make([]string, len(resumes))
	byID := make(map[string]*domain.Resume, len(resumes))
	for i, res := range resumes {
		ids[i] = res.ID
		byID[res.ID] = res
	}

	query := `
		SELECT id, resume_id, company, period_from, period_to, employment_type, position, tasks, sort_order
		FROM experiences
		WHERE resume_id::text = ANY($1)
		ORDER BY resume_id, sort_order`
	rows, err := r.q(ctx).Query(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Experience
		if err := rows.Scan(
			&e.ID, &e.ResumeID, &e.Company, &e.PeriodFrom, &e.PeriodTo, &e.EmploymentType, &e.Position, &e.Tasks, &e.Order,
		); err != nil {
			return err
		}
		if res, ok := byID[e.ResumeID]; ok {
			res.Experiences = append(res.Experiences, e)
		}
	}
	return rows.Err()
}

func (r *resumeRepo) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	res, err := scanResume(r.q(ctx).QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "resume")
	}
	if err := r.loadExperiences(ctx, []*domain.Resume{res}); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resumeRepo) GetActiveByUser(ctx context.Context, userID string) (*domain.Resume, error) {
	res, err := scanResume(r.q(ctx).QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 AND is_active`, userID))
	if err != nil {
		return nil, notFound(err, "active resume")
	}
	if err := r.loadExperiences(ctx, []*domain.Resume{res}); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *resumeRepo) ListByUser(ctx context.Context, userID string, page domain.Page) ([]domain.Resume, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q(ctx).Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	var ptrs []*domain.Resume
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		ptrs = append(ptrs, res)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadExperiences(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	resumes := make([]domain.Resume, len(ptrs))
	for i, p := range ptrs {
		resumes[i] = *p
	}
	return resumes, total, nil
}

// Update rewrites the row and replaces the experience list in one transaction.
func (r *resumeRepo) Update(ctx context.Context, resume *domain.Resume) error {
	return r.inTx(ctx, func(ctx context.Context) error {
		query := `
			UPDATE resumes SET title = $2, skills = $3, self_pr = $4, desired_job = $5,
				desired_industries = $6, desired_locations = $7, updated_at = $8
			WHERE id = $1`
		tag, err := r.q(ctx).Exec(ctx, query,
			resume.ID, resume.Title, resume.Skills, resume.SelfPR, resume.DesiredJob,
			pq.Array(resume.DesiredIndustries), pq.Array(resume.DesiredLocations), resume.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if err := affected(tag.RowsAffected(), "resume"); err != nil {
			return err
		}
		if _, err := r.q(ctx).Exec(ctx, `DELETE FROM experiences WHERE resume_id = $1`, resume.ID); err != nil {
			return err
		}
		return r.insertExperiences(ctx, resume)
	})
}

func (r *resumeRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "resume")
}

// Activate clears the flag on the owner's other resumes first so the partial
// unique index never sees two active rows.
func (r *resumeRepo) Activate(ctx context.Context, userID, id string) error {
	return r.inTx(ctx, func(ctx context.Context) error {
		if _, err := r.q(ctx).Exec(ctx,
			`UPDATE resumes SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND id <> $2 AND is_active`,
			userID, id); err != nil {
			return err
		}
		tag, err := r.q(ctx).Exec(ctx,
			`UPDATE resumes SET is_active = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return duplicate(err)
		}
		return affected(tag.RowsAffected(), "resume")
	})
}

func (r *resumeRepo) MarkSubmitted(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE resumes SET submitted_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "resume")
}
