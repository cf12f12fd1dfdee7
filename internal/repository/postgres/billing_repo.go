package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type billingRepo struct {
	base
}

func NewBillingRepository(db *pgxpool.Pool) domain.BillingRepository {
	return &billingRepo{base{db: db}}
}

const billingColumns = `id, user_id, external_ref, plan_tier, credits_granted, amount, currency, status, created_at`

func scanBilling(row pgx.Row) (*domain.BillingRecord, error) {
	var b domain.BillingRecord
	if err := row.Scan(
		&b.ID, &b.UserID, &b.ExternalRef, &b.PlanTier, &b.CreditsGranted, &b.Amount, &b.Currency, &b.Status, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *billingRepo) Create(ctx context.Context, b *domain.BillingRecord) error {
	query := `
		INSERT INTO billing_records (id, user_id, external_ref, plan_tier, credits_granted, amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q(ctx).Exec(ctx, query,
		b.ID, b.UserID, b.ExternalRef, b.PlanTier, b.CreditsGranted, b.Amount, b.Currency, b.Status, b.CreatedAt)
	return duplicate(err)
}

func (r *billingRepo) GetByExternalRef(ctx context.Context, ref string) (*domain.BillingRecord, error) {
	b, err := scanBilling(r.q(ctx).QueryRow(ctx, `SELECT `+billingColumns+` FROM billing_records WHERE external_ref = $1`, ref))
	if err != nil {
		return nil, notFound(err, "billing record")
	}
	return b, nil
}

func (r *billingRepo) ListByUser(ctx context.Context, userID string, page domain.Page) ([]domain.BillingRecord, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM billing_records WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q(ctx).Query(ctx,
		`SELECT `+billingColumns+` FROM billing_records WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := []domain.BillingRecord{}
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *b)
	}
	return records, total, rows.Err()
}
