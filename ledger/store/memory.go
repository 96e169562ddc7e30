package store

import (
	"context"
	"sync"

	"github.com/plumeledger/plume/types"
)

// Compile-time interface check.
var _ Store = (*Memory)(nil)

// Memory is an in-memory Store for tests and single-process
// development clusters.
type Memory struct {
	mu       sync.RWMutex
	slots    map[types.SlotAddress][]byte
	order    []types.SlotAddress
	balances map[types.Identity]uint64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		slots:    make(map[types.SlotAddress][]byte),
		balances: make(map[types.Identity]uint64),
	}
}

// memTxn stages mutations; they merge into the store only if the
// Update callback succeeds.
type memTxn struct {
	m        *Memory
	newSlots map[types.SlotAddress][]byte
	newOrder []types.SlotAddress
	balances map[types.Identity]uint64
}

func (tx *memTxn) CreateSlot(addr types.SlotAddress, data []byte) error {
	if _, ok := tx.m.slots[addr]; ok {
		return ErrSlotExists
	}
	if _, ok := tx.newSlots[addr]; ok {
		return ErrSlotExists
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	tx.newSlots[addr] = cp
	tx.newOrder = append(tx.newOrder, addr)
	return nil
}

func (tx *memTxn) Balance(id types.Identity) (uint64, error) {
	if amount, ok := tx.balances[id]; ok {
		return amount, nil
	}
	return tx.m.balances[id], nil
}

func (tx *memTxn) SetBalance(id types.Identity, amount uint64) error {
	tx.balances[id] = amount
	return nil
}

func (m *Memory) Update(_ context.Context, fn func(Txn) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTxn{
		m:        m,
		newSlots: make(map[types.SlotAddress][]byte),
		balances: make(map[types.Identity]uint64),
	}
	if err := fn(tx); err != nil {
		return err
	}
	for addr, data := range tx.newSlots {
		m.slots[addr] = data
	}
	m.order = append(m.order, tx.newOrder...)
	for id, amount := range tx.balances {
		m.balances[id] = amount
	}
	return nil
}

func (m *Memory) GetSlot(_ context.Context, addr types.SlotAddress) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[addr]
	if !ok {
		return nil, ErrSlotNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *Memory) ListSlots(_ context.Context, filter *types.MemFilter, limit int) ([]SlotRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []SlotRow
	for _, addr := range m.order {
		data := m.slots[addr]
		if filter != nil && !filter.Match(data) {
			continue
		}
		cp := make([]byte, len(data))
		copy(cp, data)
		rows = append(rows, SlotRow{Address: addr, Data: cp})
		if limit > 0 && len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (m *Memory) Balance(_ context.Context, id types.Identity) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[id], nil
}

func (m *Memory) Close() error { return nil }
