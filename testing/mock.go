// Package plumetest provides test utilities for plume development:
// configurable slot and clock mocks, a funded test harness, and a
// compliance suite that verifies the record contract over any
// Connection.
package plumetest

import (
	"errors"
	"sync/atomic"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/types"
)

// Compile-time interface checks.
var (
	_ plume.Slot  = (*MockSlot)(nil)
	_ plume.Clock = MockClock{}
)

// ErrMockSlotInUse is what the default MockSlot returns for a second
// Init, standing in for the host's already-initialized failure.
var ErrMockSlotInUse = errors.New("plumetest: mock slot already initialized")

// MockSlot is a configurable in-memory slot for program unit tests.
// The default behavior records the first Init and rejects any
// further one. Set InitFn to override.
type MockSlot struct {
	Addr   types.SlotAddress
	InitFn func(capacity int, payer types.Identity, data []byte) error

	// Recorded by the default Init behavior.
	Capacity int
	Payer    types.Identity
	Data     []byte

	InitCalls atomic.Int64
}

func (m *MockSlot) Address() types.SlotAddress { return m.Addr }

func (m *MockSlot) Init(capacity int, payer types.Identity, data []byte) error {
	m.InitCalls.Add(1)
	if m.InitFn != nil {
		return m.InitFn(capacity, payer, data)
	}
	if m.Data != nil {
		return ErrMockSlotInUse
	}
	m.Capacity = capacity
	m.Payer = payer
	m.Data = make([]byte, len(data))
	copy(m.Data, data)
	return nil
}

// MockClock is a configurable clock. The zero value reads as the
// zero instant; set At or NowFn.
type MockClock struct {
	At    types.Timestamp
	NowFn func() types.Timestamp
}

func (m MockClock) Now() types.Timestamp {
	if m.NowFn != nil {
		return m.NowFn()
	}
	return m.At
}

// ClockAt returns a clock pinned to the given unix second.
func ClockAt(unixSeconds int64) MockClock {
	return MockClock{At: types.Timestamp{Seconds: unixSeconds}}
}
