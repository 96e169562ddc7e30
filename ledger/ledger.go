// Package ledger implements the reference plume host: signature
// verification, rent funding, exclusive slot allocation, and the
// committed-state query surface.
//
// The program in package program owns the record semantics; this
// package supplies everything the program's contract assumes from
// its environment — authenticated identities, an authoritative
// clock, single-use slots, and atomic persistence.
package ledger

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/ledger/store"
	"github.com/plumeledger/plume/program"
	"github.com/plumeledger/plume/types"

	"github.com/google/uuid"
)

// Host failures. These originate here, not in the program, and reach
// callers unmodified.
var (
	ErrClosed            = errors.New("ledger: ledger is closed")
	ErrBadSignature      = errors.New("ledger: invalid transaction signature")
	ErrInsufficientFunds = errors.New("ledger: insufficient balance for allocation")

	// ErrSlotInUse reports a transaction targeting a slot that
	// already holds a record.
	ErrSlotInUse = store.ErrSlotExists
)

// DefaultRentPerByte prices slot allocation when Config leaves
// RentPerByte unset.
const DefaultRentPerByte uint64 = 10

// Config tunes a ledger host.
type Config struct {
	// RentPerByte prices slot capacity. 0 = DefaultRentPerByte.
	RentPerByte uint64
	// Clock overrides the authoritative clock. Nil = SystemClock.
	Clock plume.Clock
}

// Ledger is a single-node plume host over a slot store.
type Ledger struct {
	st          store.Store
	clock       plume.Clock
	rentPerByte uint64
	guard       *invocationGuard
	prog        program.Program
}

// Open creates a ledger host over the given store. The store may
// already hold records from a previous run.
func Open(st store.Store, cfg Config) *Ledger {
	if cfg.RentPerByte == 0 {
		cfg.RentPerByte = DefaultRentPerByte
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Ledger{
		st:          st,
		clock:       cfg.Clock,
		rentPerByte: cfg.RentPerByte,
		guard:       newInvocationGuard(),
	}
}

// RentFor returns the allocation charge for a record slot.
func (l *Ledger) RentFor(capacity int) uint64 {
	return l.rentPerByte * uint64(capacity)
}

// slotWriter binds the program's Slot contract to one store
// transaction. Init charges rent and creates the slot exclusively;
// nothing lands unless the whole transaction commits.
type slotWriter struct {
	addr        types.SlotAddress
	txn         store.Txn
	rentPerByte uint64
	charged     uint64
}

func (w *slotWriter) Address() types.SlotAddress { return w.addr }

func (w *slotWriter) Init(capacity int, payer types.Identity, data []byte) error {
	if len(data) != capacity {
		return fmt.Errorf("ledger: reservation is %d bytes, got %d bytes of data", capacity, len(data))
	}
	rent := w.rentPerByte * uint64(capacity)
	bal, err := w.txn.Balance(payer)
	if err != nil {
		return err
	}
	if bal < rent {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, rent, bal)
	}
	if err := w.txn.SetBalance(payer, bal-rent); err != nil {
		return err
	}
	if err := w.txn.CreateSlot(w.addr, data); err != nil {
		return err
	}
	w.charged = rent
	return nil
}

// captureClock records the reading handed to the program so the
// result can report the exact stamped time.
type captureClock struct {
	inner plume.Clock
	last  types.Timestamp
}

func (c *captureClock) Now() types.Timestamp {
	c.last = c.inner.Now()
	return c.last
}

// SubmitTx executes one signed creation transaction as a single,
// isolated, non-reentrant unit of work.
//
// Semantic failures — the program's two validation rejections, slot
// reuse, insufficient funds, bad signatures — are reported in the
// TxResult code and leave no state behind. The error return is
// reserved for storage faults and a closed ledger.
func (l *Ledger) SubmitTx(ctx context.Context, tx types.SignedTx) (types.TxResult, error) {
	if err := l.guard.acquireExecute(); err != nil {
		return types.TxResult{}, err
	}
	defer l.guard.completeExecute()

	if err := verifySignatures(tx); err != nil {
		res, _ := resultFor(err)
		return res, nil
	}

	clock := &captureClock{inner: l.clock}
	writer := &slotWriter{addr: tx.Body.Slot, rentPerByte: l.rentPerByte}

	err := l.st.Update(ctx, func(txn store.Txn) error {
		writer.txn = txn
		ictx := plume.InstructionContext{
			Slot:   writer,
			Author: tx.Body.Author,
			Clock:  clock,
			System: types.CapAllocate | types.CapClock,
		}
		return l.prog.Execute(ctx, ictx, tx.Body.Instr)
	})
	if err != nil {
		if res, ok := resultFor(err); ok {
			return res, nil
		}
		return types.TxResult{}, err
	}

	return types.TxResult{
		Code:    types.CodeOK,
		Slot:    tx.Body.Slot,
		Charged: writer.charged,
		Time:    clock.last,
	}, nil
}

// GetRecord reads the record committed at addr.
func (l *Ledger) GetRecord(ctx context.Context, addr types.SlotAddress) (types.StoredRecord, error) {
	if err := l.guard.checkConcurrent(); err != nil {
		return types.StoredRecord{}, err
	}
	raw, err := l.st.GetSlot(ctx, addr)
	if err != nil {
		return types.StoredRecord{}, err
	}
	rec, err := types.DecodeRecord(raw)
	if err != nil {
		return types.StoredRecord{}, err
	}
	return types.StoredRecord{Address: addr, Record: rec}, nil
}

// ListRecords enumerates committed records, narrowed by the query's
// byte-offset filter. Safe to call concurrently with submissions;
// reads see committed state only.
func (l *Ledger) ListRecords(ctx context.Context, q types.RecordQuery) ([]types.StoredRecord, error) {
	if err := l.guard.checkConcurrent(); err != nil {
		return nil, err
	}
	rows, err := l.st.ListSlots(ctx, q.Filter, int(q.Limit))
	if err != nil {
		return nil, err
	}
	out := make([]types.StoredRecord, 0, len(rows))
	for _, row := range rows {
		if !types.IsRecord(row.Data) {
			continue
		}
		rec, err := types.DecodeRecord(row.Data)
		if err != nil {
			return nil, fmt.Errorf("ledger: slot %s: %w", row.Address, err)
		}
		out = append(out, types.StoredRecord{Address: row.Address, Record: rec})
	}
	return out, nil
}

// Airdrop credits amount to the identity's funding balance and
// returns a ticketed receipt. Development clusters only; a public
// host would not grant CapFaucet.
func (l *Ledger) Airdrop(ctx context.Context, id types.Identity, amount uint64) (types.AirdropReceipt, error) {
	if err := l.guard.acquireExecute(); err != nil {
		return types.AirdropReceipt{}, err
	}
	defer l.guard.completeExecute()

	var after uint64
	err := l.st.Update(ctx, func(txn store.Txn) error {
		bal, err := txn.Balance(id)
		if err != nil {
			return err
		}
		after = bal + amount
		return txn.SetBalance(id, after)
	})
	if err != nil {
		return types.AirdropReceipt{}, err
	}
	return types.AirdropReceipt{
		Ticket:  uuid.NewString(),
		Amount:  amount,
		Balance: after,
	}, nil
}

// Balance reads an identity's funding balance.
func (l *Ledger) Balance(ctx context.Context, id types.Identity) (uint64, error) {
	if err := l.guard.checkConcurrent(); err != nil {
		return 0, err
	}
	return l.st.Balance(ctx, id)
}

// Close waits for any in-flight transition, then shuts the host and
// its store.
func (l *Ledger) Close() error {
	l.guard.close()
	return l.st.Close()
}

// verifySignatures checks that both the author key and the slot key
// signed the transaction body.
func verifySignatures(tx types.SignedTx) error {
	msg, err := tx.Body.SigningBytes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if len(tx.AuthorSig) != ed25519.SignatureSize ||
		!ed25519.Verify(ed25519.PublicKey(tx.Body.Author[:]), msg, tx.AuthorSig) {
		return fmt.Errorf("%w: author signature", ErrBadSignature)
	}
	if len(tx.SlotSig) != ed25519.SignatureSize ||
		!ed25519.Verify(ed25519.PublicKey(tx.Body.Slot[:]), msg, tx.SlotSig) {
		return fmt.Errorf("%w: slot signature", ErrBadSignature)
	}
	return nil
}

// resultFor maps semantic failures to result codes. Returns false
// for faults that should surface as plain errors.
func resultFor(err error) (types.TxResult, bool) {
	if r, ok := plume.IsRejection(err); ok {
		return types.TxResult{Code: r.Code, Info: r.Msg}, true
	}
	switch {
	case errors.Is(err, store.ErrSlotExists):
		return types.TxResult{Code: types.CodeSlotInUse, Info: "slot already initialized"}, true
	case errors.Is(err, ErrInsufficientFunds):
		return types.TxResult{Code: types.CodeInsufficientFunds, Info: err.Error()}, true
	case errors.Is(err, ErrBadSignature):
		return types.TxResult{Code: types.CodeBadSignature, Info: err.Error()}, true
	case errors.Is(err, program.ErrUnknownInstruction):
		return types.TxResult{Code: types.CodeUnknownInstruction, Info: err.Error()}, true
	}
	return types.TxResult{}, false
}
