package memory

import (
	"context"
	"sync"

	"github.com/topiklearn/srs-api/internal/store"
)

// Transactor implements store.Transactor by serializing all callers with a
// mutex. fn receives a nil *sql.Tx, which the memory stores' WithTx
// ignores. Coarser than the SQL backend's row locks, but it preserves the
// contract that matters: two reviews of the same item observe each other's
// results in some strict order.
type Transactor struct {
	mu sync.Mutex
}

// NewTransactor creates a serializing in-memory transactor.
func NewTransactor() *Transactor {
	return &Transactor{}
}

// Ensure Transactor implements store.Transactor
var _ store.Transactor = (*Transactor)(nil)

// RunInTransaction implements store.Transactor. Rollback is not simulated:
// callers must treat an error return as "nothing happened", which holds for
// the review path because the single progress upsert is the last write.
func (t *Transactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(ctx, nil)
}
