package domain

import "context"

// Transactor runs fn in one store transaction. Hooks registered with
// AfterCommit run only if the outermost transaction commits.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	AfterCommit(ctx context.Context, hook func())
}
