package services_test

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// fakeTx stands in for a pgx transaction in unit tests. Only Commit and
// Rollback are ever called; the embedded interface panics on anything else.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(s string) *string    { return &s }
