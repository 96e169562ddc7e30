// Package plume defines the boundary between the tweet-record program
// and the ledger host that executes it.
//
// The core of the system is a single state transition: given an
// uninitialized storage [Slot], an authenticated author identity, and
// two text inputs, either commit a fully populated tweet record or
// fail with no partial write. Everything else — transaction
// submission, key generation, faucet funding, record listing — is a
// collaborator that reaches the core through a [Connection].
package plume

import (
	"context"

	"github.com/plumeledger/plume/types"
)

// Slot is an addressable storage location on the ledger. Slots are
// init-only: a slot holds nothing until Init succeeds, and can never
// be initialized twice.
type Slot interface {
	// Address returns the slot's ledger address.
	Address() types.SlotAddress

	// Init atomically reserves capacity bytes, charges the reservation
	// to payer, and stores data. The data must fill the reservation
	// exactly. Fails without side effects if the slot already holds a
	// record, or if the payer cannot fund the reservation.
	Init(capacity int, payer types.Identity, data []byte) error
}

// Clock reads the host ledger's authoritative time. The program never
// accepts caller-supplied timestamps.
type Clock interface {
	Now() types.Timestamp
}

// InstructionContext carries everything a single program invocation
// may touch: the one target slot, the one authenticated author, the
// host clock, and the capabilities the host granted.
//
// The host guarantees Author equals the identity that signed the
// creating request.
type InstructionContext struct {
	Slot   Slot
	Author types.Identity
	Clock  Clock
	System types.Capabilities
}

// Connection is a transport-agnostic connection to a plume ledger
// host. Both gRPC clients and in-process adapters implement this.
//
// SubmitTx is the only mutating entry point. GetRecord and
// ListRecords read committed state and are safe to call concurrently
// with submissions.
type Connection interface {
	// SubmitTx executes one signed creation transaction. Semantic
	// failures (validation rejections, slot reuse, insufficient
	// funds, bad signatures) are reported in the TxResult code; the
	// error return is reserved for transport and storage faults.
	SubmitTx(ctx context.Context, tx types.SignedTx) (types.TxResult, error)

	// GetRecord reads the record stored at addr.
	GetRecord(ctx context.Context, addr types.SlotAddress) (types.StoredRecord, error)

	// ListRecords enumerates committed records, optionally narrowed
	// by the query's byte-offset filter.
	ListRecords(ctx context.Context, q types.RecordQuery) ([]types.StoredRecord, error)

	// Airdrop credits amount to the identity's funding balance.
	// Test and development clusters only.
	Airdrop(ctx context.Context, id types.Identity, amount uint64) (types.AirdropReceipt, error)

	// Close terminates the connection.
	Close() error
}
