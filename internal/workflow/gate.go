package workflow

// gate.go keeps a session to one workflow run at a time.
//
// A run takes the gate without blocking; a second file selection while the
// first run is in flight is refused rather than queued. Wait is used on
// shutdown to let the in-flight run finish.

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate is a single-slot, non-blocking run gate.
type Gate struct {
	sem    *semaphore.Weighted
	active atomic.Int32
}

// NewGate creates an open gate.
func NewGate() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// TryAcquire takes the gate if it is free.
// The caller MUST call Release when the run completes (use defer).
func (g *Gate) TryAcquire() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.active.Add(1)
	return true
}

// Release frees the gate taken by TryAcquire.
func (g *Gate) Release() {
	g.active.Add(-1)
	g.sem.Release(1)
}

// Active reports whether a run holds the gate.
func (g *Gate) Active() bool {
	return g.active.Load() > 0
}

// Wait blocks until no run holds the gate or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.sem.Release(1)
	return nil
}
