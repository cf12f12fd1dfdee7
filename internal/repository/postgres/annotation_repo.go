package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type annotationRepo struct {
	base
}

func NewAnnotationRepository(db *pgxpool.Pool) domain.AnnotationRepository {
	return &annotationRepo{base{db: db}}
}

const annotationColumns = `id, resume_id, subject, anchor_id, start_offset, end_offset, quote,
	is_resolved, resolved_at, created_by, resolved_by, created_at`

func scanAnnotation(row pgx.Row) (*domain.Annotation, error) {
	var a domain.Annotation
	if err := row.Scan(
		&a.ID, &a.ResumeID, &a.Subject, &a.AnchorID, &a.StartOffset, &a.EndOffset, &a.Quote,
		&a.IsResolved, &a.ResolvedAt, &a.CreatedBy, &a.ResolvedBy, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *annotationRepo) Create(ctx context.Context, a *domain.Annotation) error {
	query := `
		INSERT INTO annotations (id, resume_id, subject, anchor_id, start_offset, end_offset, quote, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q(ctx).Exec(ctx, query,
		a.ID, a.ResumeID, a.Subject, a.AnchorID, a.StartOffset, a.EndOffset, a.Quote, a.CreatedBy, a.CreatedAt)
	return err
}

func (r *annotationRepo) GetByID(ctx context.Context, id string) (*domain.Annotation, error) {
	a, err := scanAnnotation(r.q(ctx).QueryRow(ctx, `SELECT `+annotationColumns+` FROM annotations WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "annotation")
	}
	return a, nil
}

// ListByResume orders annotations by their position in the text.
func (r *annotationRepo) ListByResume(ctx context.Context, resumeID string, page domain.Page) ([]domain.Annotation, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM annotations WHERE resume_id = $1`, resumeID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.q(ctx).Query(ctx,
		`SELECT `+annotationColumns+` FROM annotations WHERE resume_id = $1 ORDER BY start_offset, created_at, id LIMIT $2 OFFSET $3`,
		resumeID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []domain.Annotation{}
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}

func (r *annotationRepo) Resolve(ctx context.Context, a *domain.Annotation) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE annotations SET is_resolved = $2, resolved_at = $3, resolved_by = $4 WHERE id = $1`,
		a.ID, a.IsResolved, a.ResolvedAt, a.ResolvedBy)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "annotation")
}
