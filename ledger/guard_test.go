package ledger

import (
	"errors"
	"sync"
	"testing"
)

func TestGuardSerializesTransitions(t *testing.T) {
	g := newInvocationGuard()

	if err := g.acquireExecute(); err != nil {
		t.Fatalf("acquireExecute: %v", err)
	}
	if got := g.State(); got != "Executing" {
		t.Errorf("state = %s, want Executing", got)
	}

	// Queries remain legal while a transition is in flight.
	if err := g.checkConcurrent(); err != nil {
		t.Errorf("checkConcurrent during execute: %v", err)
	}

	// A second transition blocks until the first completes.
	acquired := make(chan struct{})
	go func() {
		if err := g.acquireExecute(); err == nil {
			g.completeExecute()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second transition ran while the first held the guard")
	default:
	}

	g.completeExecute()
	<-acquired
	if got := g.State(); got != "Idle" {
		t.Errorf("state = %s, want Idle", got)
	}
}

func TestGuardClose(t *testing.T) {
	g := newInvocationGuard()
	g.close()
	g.close() // idempotent

	if got := g.State(); got != "Closed" {
		t.Errorf("state = %s, want Closed", got)
	}
	if err := g.acquireExecute(); !errors.Is(err, ErrClosed) {
		t.Errorf("acquireExecute after close: %v, want ErrClosed", err)
	}
	if err := g.checkConcurrent(); !errors.Is(err, ErrClosed) {
		t.Errorf("checkConcurrent after close: %v, want ErrClosed", err)
	}
}

func TestGuardCloseWaitsForInFlight(t *testing.T) {
	g := newInvocationGuard()
	if err := g.acquireExecute(); err != nil {
		t.Fatalf("acquireExecute: %v", err)
	}

	var wg sync.WaitGroup
	closed := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("close returned while a transition was in flight")
	default:
	}

	g.completeExecute()
	wg.Wait()
	if err := g.acquireExecute(); !errors.Is(err, ErrClosed) {
		t.Errorf("acquireExecute after close: %v, want ErrClosed", err)
	}
}
