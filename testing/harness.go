package plumetest

import (
	"context"
	"testing"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/client"
	"github.com/plumeledger/plume/ledger"
	"github.com/plumeledger/plume/ledger/store"
	"github.com/plumeledger/plume/types"
)

// FundingAmount comfortably covers several record allocations at the
// default rent.
const FundingAmount = 1_000_000

// Harness wires a complete in-memory ledger host for tests: memory
// store, pinned clock, default rent.
type Harness struct {
	t   *testing.T
	led *ledger.Ledger
}

// NewHarness creates a harness with the clock pinned to unixSeconds.
func NewHarness(t *testing.T, unixSeconds int64) *Harness {
	t.Helper()
	led := ledger.Open(store.NewMemory(), ledger.Config{Clock: ClockAt(unixSeconds)})
	t.Cleanup(func() { led.Close() })
	return &Harness{t: t, led: led}
}

// Ledger returns the underlying host for direct access.
func (h *Harness) Ledger() *ledger.Ledger {
	return h.led
}

// NewAuthor generates a keypair and funds it from the faucet.
func (h *Harness) NewAuthor() *client.Author {
	h.t.Helper()
	key, err := client.NewKeypair()
	if err != nil {
		h.t.Fatalf("NewKeypair: %v", err)
	}
	a := client.NewAuthor(h.led, key)
	if _, err := a.RequestAirdrop(context.Background(), FundingAmount); err != nil {
		h.t.Fatalf("RequestAirdrop: %v", err)
	}
	return a
}

// SendTweet submits a creation and fails the test unless it commits.
func (h *Harness) SendTweet(a *client.Author, topic, content string) types.SlotAddress {
	h.t.Helper()
	addr, res, err := a.SendTweet(context.Background(), topic, content)
	if err != nil {
		h.t.Fatalf("SendTweet(%q): %v", topic, err)
	}
	if !res.OK() {
		h.t.Fatalf("SendTweet(%q): code=%d info=%q", topic, res.Code, res.Info)
	}
	return addr
}

// MustReject submits a creation and fails the test unless it is
// rejected with exactly wantErr.
func (h *Harness) MustReject(a *client.Author, topic, content string, wantErr error) {
	h.t.Helper()
	_, _, err := a.SendTweet(context.Background(), topic, content)
	if err != wantErr {
		h.t.Fatalf("SendTweet: got %v, want %v", err, wantErr)
	}
}

// Record reads one committed record.
func (h *Harness) Record(addr types.SlotAddress) types.TweetRecord {
	h.t.Helper()
	stored, err := h.led.GetRecord(context.Background(), addr)
	if err != nil {
		h.t.Fatalf("GetRecord(%s): %v", addr, err)
	}
	return stored.Record
}

// Records enumerates all committed records.
func (h *Harness) Records() []types.StoredRecord {
	h.t.Helper()
	out, err := h.led.ListRecords(context.Background(), types.RecordQuery{})
	if err != nil {
		h.t.Fatalf("ListRecords: %v", err)
	}
	return out
}

// RecordsBy enumerates records matching the author filter.
func (h *Harness) RecordsBy(id types.Identity) []types.StoredRecord {
	h.t.Helper()
	f := types.AuthorFilter(id)
	out, err := h.led.ListRecords(context.Background(), types.RecordQuery{Filter: &f})
	if err != nil {
		h.t.Fatalf("ListRecords(author): %v", err)
	}
	return out
}

// Compile-time check: the ledger host is usable wherever a
// Connection is expected, which is what NewAuthor relies on.
var _ plume.Connection = (*ledger.Ledger)(nil)
