// Package checker implements the proof strategies raced against each
// other to decide a reachability query: bounded model checking,
// k-induction, the plain inductive-invariant check, and the
// state-equation relaxation. Each strategy drives a private solver
// through the incremental smtlib encodings.
package checker

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jt05610/reach"
)

// ErrNoVerdict marks a strategy run that finished without producing a
// verdict; the caller treats it as a lost race, not an error to
// surface.
var ErrNoVerdict = errors.New("no verdict")

// Checker is one proof strategy. Prove blocks until a verdict is
// reached, the context is cancelled, or the solver aborts; in the two
// latter cases it returns an error and the verdict must be ignored.
type Checker interface {
	Name() string
	Prove(ctx context.Context) (reach.Verdict, error)
}

// BoundCell is the single-slot channel K-Induction uses to hand BMC a
// safe unrolling bound. The producer overwrites at most meaningfully
// once per run; the consumer polls without blocking.
type BoundCell struct {
	v atomic.Int64
}

func NewBoundCell() *BoundCell {
	c := &BoundCell{}
	c.v.Store(-1)
	return c
}

// Set publishes bound k, overwriting any previous value.
func (c *BoundCell) Set(k int) {
	c.v.Store(int64(k))
}

// Get polls the cell without blocking.
func (c *BoundCell) Get() (int, bool) {
	v := c.v.Load()
	if v < 0 {
		return 0, false
	}
	return int(v), true
}

func cancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
