// Package store provides slot and balance storage for a plume
// ledger host.
//
// Slots are raw fixed-capacity byte blobs keyed by address. The
// store enforces the single-use slot guarantee: creating a slot that
// already exists fails with ErrSlotExists, which is how exactly one
// of two racing creations wins.
package store

import (
	"context"
	"errors"

	"github.com/plumeledger/plume/types"
)

var (
	// ErrSlotExists reports a creation against an already
	// initialized slot.
	ErrSlotExists = errors.New("store: slot already initialized")
	// ErrSlotNotFound reports a read of a slot that holds nothing.
	ErrSlotNotFound = errors.New("store: slot not found")
)

// SlotRow is a raw slot as stored.
type SlotRow struct {
	Address types.SlotAddress
	Data    []byte
}

// Txn is the mutation surface available inside an Update. All
// mutations in one Update land atomically or not at all.
type Txn interface {
	// CreateSlot stores data under addr. Exclusive create-if-absent:
	// fails with ErrSlotExists if the slot is already initialized.
	CreateSlot(addr types.SlotAddress, data []byte) error

	// Balance returns the identity's funding balance (0 if unknown).
	Balance(id types.Identity) (uint64, error)

	// SetBalance overwrites the identity's funding balance.
	SetBalance(id types.Identity, amount uint64) error
}

// Store is the durable backing of a ledger host.
type Store interface {
	// Update runs fn in a single atomic transaction. If fn returns
	// an error, every mutation it made is rolled back and the same
	// error is returned.
	Update(ctx context.Context, fn func(Txn) error) error

	// GetSlot returns the raw bytes stored at addr.
	GetSlot(ctx context.Context, addr types.SlotAddress) ([]byte, error)

	// ListSlots returns committed slots whose raw bytes match the
	// filter (nil = all), up to limit (0 = no limit). Order is
	// unspecified but stable per backend.
	ListSlots(ctx context.Context, filter *types.MemFilter, limit int) ([]SlotRow, error)

	// Balance reads a funding balance outside any transaction.
	Balance(ctx context.Context, id types.Identity) (uint64, error)

	Close() error
}
