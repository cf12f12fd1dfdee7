package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type messageRepo struct {
	base
}

func NewMessageRepository(db *pgxpool.Pool) domain.MessageRepository {
	return &messageRepo{base{db: db}}
}

const messageSelect = `
	SELECT m.id, m.sender_id, m.receiver_id, m.subject, m.content, m.is_read, m.parent_id,
	       m.application_id, m.scout_id, m.annotation_id, m.created_at,
	       u.display_name, u.company_name
	FROM messages m
	JOIN users u ON u.id = m.sender_id`

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	sender := &domain.UserSummary{}
	if err := row.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Subject, &m.Content, &m.IsRead, &m.ParentID,
		&m.ApplicationID, &m.ScoutID, &m.AnnotationID, &m.CreatedAt,
		&sender.DisplayName, &sender.CompanyName,
	); err != nil {
		return nil, err
	}
	sender.ID = m.SenderID
	m.Sender = sender
	return &m, nil
}

func collectMessages(rows pgx.Rows) ([]domain.Message, error) {
	defer rows.Close()
	msgs := []domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}

func (r *messageRepo) Create(ctx context.Context, m *domain.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, subject, content, is_read, parent_id,
			application_id, scout_id, annotation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q(ctx).Exec(ctx, query,
		m.ID, m.SenderID, m.ReceiverID, m.Subject, m.Content, m.IsRead, m.ParentID,
		m.ApplicationID, m.ScoutID, m.AnnotationID, m.CreatedAt)
	return err
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	m, err := scanMessage(r.q(ctx).QueryRow(ctx, messageSelect+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "message")
	}
	return m, nil
}

func (r *messageRepo) listBy(ctx context.Context, column, userID string, page domain.Page) ([]domain.Message, int64, error) {
	total, err := r.count(ctx, `SELECT COUNT(*) FROM messages m WHERE `+column+` = $1`, userID)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.q(ctx).Query(ctx,
		messageSelect+` WHERE `+column+` = $1 ORDER BY m.created_at DESC, m.id LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	msgs, err := collectMessages(rows)
	return msgs, total, err
}

func (r *messageRepo) ListInbox(ctx context.Context, userID string, page domain.Page) ([]domain.Message, int64, error) {
	return r.listBy(ctx, "m.receiver_id", userID, page)
}

func (r *messageRepo) ListSent(ctx context.Context, userID string, page domain.Page) ([]domain.Message, int64, error) {
	return r.listBy(ctx, "m.sender_id", userID, page)
}

// Thread walks up to the root of id and returns the whole tree, oldest first.
func (r *messageRepo) Thread(ctx context.Context, id string) ([]domain.Message, error) {
	query := `
		WITH RECURSIVE up AS (
			SELECT id, parent_id FROM messages WHERE id = $1
			UNION ALL
			SELECT p.id, p.parent_id FROM messages p JOIN up ON up.parent_id = p.id
		),
		root AS (
			SELECT id FROM up WHERE parent_id IS NULL LIMIT 1
		),
		down AS (
			SELECT id FROM messages WHERE id = (SELECT id FROM root)
			UNION ALL
			SELECT c.id FROM messages c JOIN down ON c.parent_id = down.id
		)` + messageSelect + `
		WHERE m.id IN (SELECT id FROM down)
		ORDER BY m.created_at, m.id`
	rows, err := r.q(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

func (r *messageRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(tag.RowsAffected(), "message")
}
