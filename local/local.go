// Package local provides a zero-copy, in-process plume connection.
//
// For collaborators compiled into the same binary as the ledger
// host, this adapter exposes the host as a Connection with no
// serialization overhead. Unlike closing the ledger itself, closing
// a local Connection is a no-op, so several collaborators can share
// one host.
package local

import (
	"context"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/ledger"
	"github.com/plumeledger/plume/types"
)

// Compile-time interface check.
var _ plume.Connection = (*Connection)(nil)

// Connection adapts a ledger host to the Connection interface.
type Connection struct {
	led *ledger.Ledger
}

// NewConnection creates an in-process connection to the given host.
func NewConnection(led *ledger.Ledger) *Connection {
	return &Connection{led: led}
}

func (c *Connection) SubmitTx(ctx context.Context, tx types.SignedTx) (types.TxResult, error) {
	return c.led.SubmitTx(ctx, tx)
}

func (c *Connection) GetRecord(ctx context.Context, addr types.SlotAddress) (types.StoredRecord, error) {
	return c.led.GetRecord(ctx, addr)
}

func (c *Connection) ListRecords(ctx context.Context, q types.RecordQuery) ([]types.StoredRecord, error) {
	return c.led.ListRecords(ctx, q)
}

func (c *Connection) Airdrop(ctx context.Context, id types.Identity, amount uint64) (types.AirdropReceipt, error) {
	return c.led.Airdrop(ctx, id, amount)
}

// Close is a no-op; the connection does not own the host.
func (c *Connection) Close() error { return nil }

// Ledger returns the underlying host for advanced use cases.
func (c *Connection) Ledger() *ledger.Ledger {
	return c.led
}
