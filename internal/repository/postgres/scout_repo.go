package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type scoutRepo struct {
	base
}

func NewScoutRepository(db *pgxpool.Pool) domain.ScoutRepository {
	return &scoutRepo{base{db: db}}
}

const scoutSelect = `
	SELECT s.id, s.company_id, s.seeker_id, s.job_posting_id, s.status, s.message,
	       s.scouted_at, s.viewed_at, s.responded_at, s.expires_at,
	       sk.display_name, sp.prefecture,
	       co.display_name, co.company_name,
	       j.title
	FROM scouts s
	JOIN users sk ON sk.id = s.seeker_id
	LEFT JOIN seeker_profiles sp ON sp.user_id = s.seeker_id
	JOIN users co ON co.id = s.company_id
	LEFT JOIN job_postings j ON j.id = s.job_posting_id`

func scanScout(row pgx.Row) (*domain.Scout, error) {
	var s domain.Scout
	seeker := &domain.UserSummary{}
	company := &domain.UserSummary{}
	if err := row.Scan(
		&s.ID, &s.CompanyID, &s.SeekerID, &s.JobPostingID, &s.Status, &s.Message,
		&s.ScoutedAt, &s.ViewedAt, &s.RespondedAt, &s.ExpiresAt,
		&seeker.DisplayName, &seeker.Prefecture,
		&company.DisplayName, &company.CompanyName,
		&s.JobTitle,
	); err != nil {
		return nil, err
	}
	seeker.ID = s.SeekerID
	company.ID = s.CompanyID
	s.Seeker = seeker
	s.Company = company
	return &s, nil
}

func (r *scoutRepo) Create(ctx context.Context, s *domain.Scout) error {
	query := `
		INSERT INTO scouts (id, company_id, seeker_id, job_posting_id, status, message, scouted_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q(ctx).Exec(ctx, query,
		s.ID, s.CompanyID, s.SeekerID, s.JobPostingID, s.Status, s.Message, s.ScoutedAt, s.ExpiresAt)
	return duplicate(err)
}

func (r *scoutRepo) GetByID(ctx context.Context, id string) (*domain.Scout, error) {
	s, err := scanScout(r.q(ctx).QueryRow(ctx, scoutSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "scout")
	}
	return s, nil
}

func (r *scoutRepo) LockByID(ctx context.Context, id string) (*domain.Scout, error) {
	s, err := scanScout(r.q(ctx).QueryRow(ctx, scoutSelect+` WHERE s.id = $1 FOR UPDATE OF s`, id))
	if err != nil {
		return nil, notFound(err, "scout")
	}
	return s, nil
}

func (r *scoutRepo) list(ctx context.Context, column, id string, page domain.Page) ([]domain.Scout, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM scouts s WHERE `+column+` = $1`, id)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q(ctx).Query(ctx,
		scoutSelect+` WHERE `+column+` = $1 ORDER BY s.scouted_at DESC, s.id LIMIT $2 OFFSET $3`,
		id, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	scouts := []domain.Scout{}
	for rows.Next() {
		s, err := scanScout(rows)
		if err != nil {
			return nil, 0, err
		}
		scouts = append(scouts, *s)
	}
	return scouts, total, rows.Err()
}

func (r *scoutRepo) ListBySeeker(ctx context.Context, seekerID string, page domain.Page) ([]domain.Scout, int64, error) {
	return r.list(ctx, "s.seeker_id", seekerID, page)
}

func (r *scoutRepo) ListByCompany(ctx context.Context, companyID string, page domain.Page) ([]domain.Scout, int64, error) {
	return r.list(ctx, "s.company_id", companyID, page)
}

func (r *scoutRepo) UpdateStatus(ctx context.Context, s *domain.Scout) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE scouts SET status = $2, viewed_at = $3, responded_at = $4 WHERE id = $1`,
		s.ID, s.Status, s.ViewedAt, s.RespondedAt)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "scout")
}

func (r *scoutRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE scouts SET status = 'expired' WHERE status IN ('sent', 'viewed') AND expires_at IS NOT NULL AND expires_at < $1`,
		now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *scoutRepo) ExistsBetween(ctx context.Context, companyID, seekerID string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM scouts WHERE company_id = $1 AND seeker_id = $2)`,
		companyID, seekerID).Scan(&exists)
	return exists, err
}
