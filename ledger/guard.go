package ledger

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// invocationState tracks what the host is doing.
type invocationState uint32

const (
	// stateIdle: no transition in flight. Queries allowed.
	stateIdle invocationState = iota
	// stateExecuting: one transition in flight. The next transition
	// waits; queries still read committed state.
	stateExecuting
	// stateClosed: the ledger is shut down. Everything fails.
	stateClosed
)

func (s invocationState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateExecuting:
		return "Executing"
	case stateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// invocationGuard enforces the host's execution model: state
// transitions run as single, isolated, non-reentrant units of work,
// while queries run concurrently against committed state.
type invocationGuard struct {
	state atomic.Uint32
	// Serializes transitions (SubmitTx, Airdrop).
	seqMu sync.Mutex
}

func newInvocationGuard() *invocationGuard {
	g := &invocationGuard{}
	g.state.Store(uint32(stateIdle))
	return g
}

// State returns the current state, for logging.
func (g *invocationGuard) State() string {
	return invocationState(g.state.Load()).String()
}

// acquireExecute waits for any in-flight transition, then claims the
// execution lock. Fails once the guard is closed.
func (g *invocationGuard) acquireExecute() error {
	if invocationState(g.state.Load()) == stateClosed {
		return ErrClosed
	}
	g.seqMu.Lock()
	if invocationState(g.state.Load()) == stateClosed {
		g.seqMu.Unlock()
		return ErrClosed
	}
	g.state.Store(uint32(stateExecuting))
	return nil
}

// completeExecute releases the execution lock.
func (g *invocationGuard) completeExecute() {
	g.state.Store(uint32(stateIdle))
	g.seqMu.Unlock()
}

// checkConcurrent verifies that concurrent reads are allowed.
func (g *invocationGuard) checkConcurrent() error {
	if invocationState(g.state.Load()) == stateClosed {
		return ErrClosed
	}
	return nil
}

// close waits for any in-flight transition and shuts the guard.
// Idempotent.
func (g *invocationGuard) close() {
	if invocationState(g.state.Load()) == stateClosed {
		return
	}
	g.seqMu.Lock()
	g.state.Store(uint32(stateClosed))
	g.seqMu.Unlock()
}
