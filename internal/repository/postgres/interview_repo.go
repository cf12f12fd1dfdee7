package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type interviewRepo struct {
	base
}

func NewInterviewRepository(db *pgxpool.Pool) domain.InterviewRepository {
	return &interviewRepo{base{db: db}}
}

const slotColumns = `s.id, s.job_posting_id, s.seeker_id, s.proposed_by, s.start_time, s.end_time,
	s.status, s.accepted_at, s.ticket_consumption_id, s.created_at`

func scanSlot(row pgx.Row) (*domain.InterviewSlot, error) {
	var s domain.InterviewSlot
	if err := row.Scan(
		&s.ID, &s.JobPostingID, &s.SeekerID, &s.ProposedBy, &s.StartTime, &s.EndTime,
		&s.Status, &s.AcceptedAt, &s.TicketConsumptionID, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSlots(rows pgx.Rows) ([]domain.InterviewSlot, error) {
	defer rows.Close()
	slots := []domain.InterviewSlot{}
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

func (r *interviewRepo) CreateMany(ctx context.Context, slots []domain.InterviewSlot) error {
	return r.inTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO interview_slots (id, job_posting_id, seeker_id, proposed_by, start_time, end_time, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		for _, s := range slots {
			if _, err := r.q(ctx).Exec(ctx, query,
				s.ID, s.JobPostingID, s.SeekerID, s.ProposedBy, s.StartTime, s.EndTime, s.Status, s.CreatedAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*domain.InterviewSlot, error) {
	s, err := scanSlot(r.q(ctx).QueryRow(ctx, `SELECT `+slotColumns+` FROM interview_slots s WHERE s.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "interview slot")
	}
	return s, nil
}

func (r *interviewRepo) LockByID(ctx context.Context, id string) (*domain.InterviewSlot, error) {
	s, err := scanSlot(r.q(ctx).QueryRow(ctx, `SELECT `+slotColumns+` FROM interview_slots s WHERE s.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "interview slot")
	}
	return s, nil
}

// list pages slots matching where, soonest first. from must alias
// interview_slots as s.
func (r *interviewRepo) list(ctx context.Context, from, where string, page domain.Page, args ...any) ([]domain.InterviewSlot, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM `+from+` WHERE `+where, args...)
	if err != nil {
		return nil, 0, err
	}

	n := len(args)
	rows, err := r.q(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY s.start_time, s.id LIMIT $%d OFFSET $%d`, slotColumns, from, where, n+1, n+2),
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	slots, err := collectSlots(rows)
	if err != nil {
		return nil, 0, err
	}
	return slots, total, nil
}

func (r *interviewRepo) ListByPair(ctx context.Context, jobPostingID, seekerID string, page domain.Page) ([]domain.InterviewSlot, int64, error) {
	return r.list(ctx, `interview_slots s`, `s.job_posting_id = $1 AND s.seeker_id = $2`, page, jobPostingID, seekerID)
}

func (r *interviewRepo) ListBySeeker(ctx context.Context, seekerID string, page domain.Page) ([]domain.InterviewSlot, int64, error) {
	return r.list(ctx, `interview_slots s`, `s.seeker_id = $1`, page, seekerID)
}

func (r *interviewRepo) ListByCompany(ctx context.Context, companyID string, page domain.Page) ([]domain.InterviewSlot, int64, error) {
	return r.list(ctx, `interview_slots s JOIN job_postings j ON j.id = s.job_posting_id`, `j.company_id = $1`, page, companyID)
}

// UpdateStatus maps a second accepted slot for the pair to ErrDuplicate.
func (r *interviewRepo) UpdateStatus(ctx context.Context, s *domain.InterviewSlot) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE interview_slots SET status = $2, accepted_at = $3, ticket_consumption_id = $4 WHERE id = $1`,
		s.ID, s.Status, s.AcceptedAt, s.TicketConsumptionID)
	if err != nil {
		return duplicate(err)
	}
	return affected(tag.RowsAffected(), "interview slot")
}

func (r *interviewRepo) DeclineOtherProposed(ctx context.Context, jobPostingID, seekerID, keepID string) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE interview_slots SET status = 'declined'
		WHERE job_posting_id = $1 AND seeker_id = $2 AND id <> $3 AND status = 'proposed'`,
		jobPostingID, seekerID, keepID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *interviewRepo) ExpirePast(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE interview_slots SET status = 'expired' WHERE status = 'proposed' AND start_time < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
