package workflow

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGate_SingleSlot(t *testing.T) {
	g := NewGate()

	if !g.TryAcquire() {
		t.Fatal("first TryAcquire failed")
	}
	if !g.Active() {
		t.Error("Active() = false while held")
	}
	if g.TryAcquire() {
		t.Fatal("second TryAcquire succeeded while held")
	}

	g.Release()
	if g.Active() {
		t.Error("Active() = true after Release")
	}
	if !g.TryAcquire() {
		t.Fatal("TryAcquire after Release failed")
	}
	g.Release()
}

func TestGate_WaitReturnsAfterRelease(t *testing.T) {
	g := NewGate()
	g.TryAcquire()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("Wait returned while gate was held")
	case <-time.After(30 * time.Millisecond):
	}

	g.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Release")
	}

	if !g.TryAcquire() {
		t.Error("Wait left the gate held")
	}
}

func TestGate_WaitHonorsContext(t *testing.T) {
	g := NewGate()
	g.TryAcquire()
	defer g.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := g.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want DeadlineExceeded", err)
	}
}
