package metrics

import (
	"context"
	"errors"
	"math"

	"foncier/server/internal/domain"
)

// ErrNonFiniteAmount reports a transaction amount that would poison every
// running sum. Such a record must abort the aggregation loudly rather
// than flow into a metric that looks valid.
var ErrNonFiniteAmount = errors.New("non-finite transaction amount in aggregation input")

// broadcaster fans one transaction stream out to n independent branch
// channels with a bounded per-branch buffer. A full buffer blocks the
// producer until the slowest consumer catches up; elements are never
// dropped.
type broadcaster struct {
	branches []chan domain.Transaction
}

func newBroadcaster(n, buffer int) *broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	branches := make([]chan domain.Transaction, n)
	for i := range branches {
		branches[i] = make(chan domain.Transaction, buffer)
	}
	return &broadcaster{branches: branches}
}

// branch returns the receive side of one fan-out branch.
func (b *broadcaster) branch(i int) <-chan domain.Transaction {
	return b.branches[i]
}

// run publishes every transaction to every branch, then closes all
// branches. It returns early on context cancellation or on a non-finite
// amount; the branches are closed either way so that consumers always
// drain and terminate.
func (b *broadcaster) run(ctx context.Context, txs []domain.Transaction) error {
	defer func() {
		for _, ch := range b.branches {
			close(ch)
		}
	}()

	for _, tx := range txs {
		if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
			return ErrNonFiniteAmount
		}
		for _, ch := range b.branches {
			select {
			case ch <- tx:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}
