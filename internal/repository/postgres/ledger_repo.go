package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type ledgerRepo struct {
	base
}

func NewLedgerRepository(db *pgxpool.Pool) domain.LedgerRepository {
	return &ledgerRepo{base{db: db}}
}

const capPlanColumns = `job_posting_id, cap_percent, cap_amount_limit, total_cost, cap_reached_at, created_at, updated_at`

func scanCapPlan(row pgx.Row) (*domain.JobCapPlan, error) {
	var p domain.JobCapPlan
	if err := row.Scan(
		&p.JobPostingID, &p.CapPercent, &p.CapAmountLimit, &p.TotalCost, &p.CapReachedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

const ledgerColumns = `job_posting_id, tickets_total, tickets_used, bonus_tickets_total, rollover_allowed,
	last_reset_at, created_at, updated_at`

func scanLedger(row pgx.Row) (*domain.JobTicketLedger, error) {
	var l domain.JobTicketLedger
	if err := row.Scan(
		&l.JobPostingID, &l.TicketsTotal, &l.TicketsUsed, &l.BonusTicketsTotal, &l.RolloverAllowed,
		&l.LastResetAt, &l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ledgerRepo) GetCapPlan(ctx context.Context, jobID string) (*domain.JobCapPlan, error) {
	p, err := scanCapPlan(r.q(ctx).QueryRow(ctx,
		`SELECT `+capPlanColumns+` FROM job_cap_plans WHERE job_posting_id = $1`, jobID))
	if err != nil {
		return nil, notFound(err, "cap plan")
	}
	return p, nil
}

func (r *ledgerRepo) LockCapPlan(ctx context.Context, jobID string) (*domain.JobCapPlan, error) {
	p, err := scanCapPlan(r.q(ctx).QueryRow(ctx,
		`SELECT `+capPlanColumns+` FROM job_cap_plans WHERE job_posting_id = $1 FOR UPDATE`, jobID))
	if err != nil {
		return nil, notFound(err, "cap plan")
	}
	return p, nil
}

func (r *ledgerRepo) SaveCapPlan(ctx context.Context, p *domain.JobCapPlan) error {
	query := `
		INSERT INTO job_cap_plans (job_posting_id, cap_percent, cap_amount_limit, total_cost, cap_reached_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (job_posting_id) DO UPDATE SET
			cap_percent = EXCLUDED.cap_percent,
			cap_amount_limit = EXCLUDED.cap_amount_limit,
			total_cost = EXCLUDED.total_cost,
			cap_reached_at = EXCLUDED.cap_reached_at,
			updated_at = NOW()
		RETURNING created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		p.JobPostingID, p.CapPercent, p.CapAmountLimit, p.TotalCost, p.CapReachedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *ledgerRepo) GetLedger(ctx context.Context, jobID string) (*domain.JobTicketLedger, error) {
	l, err := scanLedger(r.q(ctx).QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM job_ticket_ledgers WHERE job_posting_id = $1`, jobID))
	if err != nil {
		return nil, notFound(err, "ticket ledger")
	}
	return l, nil
}

func (r *ledgerRepo) LockLedger(ctx context.Context, jobID string) (*domain.JobTicketLedger, error) {
	l, err := scanLedger(r.q(ctx).QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM job_ticket_ledgers WHERE job_posting_id = $1 FOR UPDATE`, jobID))
	if err != nil {
		return nil, notFound(err, "ticket ledger")
	}
	return l, nil
}

func (r *ledgerRepo) EnsureLedger(ctx context.Context, jobID string) error {
	_, err := r.q(ctx).Exec(ctx,
		`INSERT INTO job_ticket_ledgers (job_posting_id) VALUES ($1) ON CONFLICT (job_posting_id) DO NOTHING`, jobID)
	return err
}

func (r *ledgerRepo) SaveLedger(ctx context.Context, l *domain.JobTicketLedger) error {
	query := `
		UPDATE job_ticket_ledgers SET
			tickets_total = $2, tickets_used = $3, bonus_tickets_total = $4,
			rollover_allowed = $5, last_reset_at = $6, updated_at = NOW()
		WHERE job_posting_id = $1
		RETURNING updated_at`
	err := r.q(ctx).QueryRow(ctx, query,
		l.JobPostingID, l.TicketsTotal, l.TicketsUsed, l.BonusTicketsTotal, l.RolloverAllowed, l.LastResetAt,
	).Scan(&l.UpdatedAt)
	return notFound(err, "ticket ledger")
}

func (r *ledgerRepo) InsertConsumption(ctx context.Context, c *domain.TicketConsumption) error {
	query := `
		INSERT INTO ticket_consumptions (id, job_posting_id, seeker_id, scout_id, application_id,
			interview_slot_id, interview_date, unit_cost, notes, consumed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q(ctx).Exec(ctx, query,
		c.ID, c.JobPostingID, c.SeekerID, c.ScoutID, c.ApplicationID,
		c.InterviewSlotID, c.InterviewDate, c.UnitCost, c.Notes, c.ConsumedAt)
	return err
}

// ListConsumptions returns the append-only log newest first.
func (r *ledgerRepo) ListConsumptions(ctx context.Context, jobID string, page domain.Page) ([]domain.TicketConsumption, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM ticket_consumptions WHERE job_posting_id = $1`, jobID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, job_posting_id, seeker_id, scout_id, application_id, interview_slot_id,
		       interview_date, unit_cost, notes, consumed_at
		FROM ticket_consumptions
		WHERE job_posting_id = $1
		ORDER BY consumed_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q(ctx).Query(ctx, query, jobID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.TicketConsumption{}
	for rows.Next() {
		var c domain.TicketConsumption
		if err := rows.Scan(
			&c.ID, &c.JobPostingID, &c.SeekerID, &c.ScoutID, &c.ApplicationID, &c.InterviewSlotID,
			&c.InterviewDate, &c.UnitCost, &c.Notes, &c.ConsumedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
