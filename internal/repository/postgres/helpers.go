package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/database"
)

// base gives every repository the transaction-aware connection.
type base struct {
	db *pgxpool.Pool
}

func (b base) q(ctx context.Context) database.Querier {
	return database.Conn(ctx, b.db)
}

// inTx runs fn in the caller's transaction, or a new one when there is none.
func (b base) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.NewTxManager(b.db).WithinTx(ctx, fn)
}

func (b base) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := b.q(ctx).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// notFound maps pgx.ErrNoRows onto domain.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// duplicate maps a unique violation onto domain.ErrDuplicate.
func duplicate(err error) error {
	if constraint, ok := database.IsUniqueViolation(err); ok {
		return fmt.Errorf("%s: %w", constraint, domain.ErrDuplicate)
	}
	return err
}

// affected turns a zero-row update into ErrNotFound.
func affected(n int64, what string) error {
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
