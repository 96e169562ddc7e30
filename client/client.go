package client

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/types"
)

// Author submits tweets and reads records over a Connection on
// behalf of one keypair.
type Author struct {
	conn plume.Connection
	key  *Keypair
}

// NewAuthor binds a keypair to a connection. The Author does not own
// the connection; closing it is the caller's concern.
func NewAuthor(conn plume.Connection, key *Keypair) *Author {
	return &Author{conn: conn, key: key}
}

// Identity returns the author's ledger identity.
func (a *Author) Identity() types.Identity {
	return a.key.Identity()
}

// SendTweet creates a record under a freshly generated slot keypair
// and submits it. On success it returns the new slot's address and
// the host's result. A failed result is also converted to its typed
// error, so callers can match plume.ErrTopicTooLong and friends
// directly.
func (a *Author) SendTweet(ctx context.Context, topic, content string) (types.SlotAddress, types.TxResult, error) {
	slotKey, err := NewKeypair()
	if err != nil {
		return types.SlotAddress{}, types.TxResult{}, err
	}

	tx, err := BuildCreateTx(a.key, slotKey, topic, content)
	if err != nil {
		return types.SlotAddress{}, types.TxResult{}, err
	}

	res, err := a.conn.SubmitTx(ctx, tx)
	if err != nil {
		return types.SlotAddress{}, types.TxResult{}, err
	}
	if !res.OK() {
		return slotKey.SlotAddress(), res, plume.ResultError(res)
	}
	return slotKey.SlotAddress(), res, nil
}

// RequestAirdrop funds the author's balance from the host faucet.
func (a *Author) RequestAirdrop(ctx context.Context, amount uint64) (types.AirdropReceipt, error) {
	return a.conn.Airdrop(ctx, a.key.Identity(), amount)
}

// Tweet reads one record by slot address.
func (a *Author) Tweet(ctx context.Context, addr types.SlotAddress) (types.StoredRecord, error) {
	return a.conn.GetRecord(ctx, addr)
}

// Tweets enumerates every committed record.
func (a *Author) Tweets(ctx context.Context) ([]types.StoredRecord, error) {
	return a.conn.ListRecords(ctx, types.RecordQuery{})
}

// TweetsBy returns exactly the records whose author field matches
// id, via the byte-offset filter against the stable record layout.
func (a *Author) TweetsBy(ctx context.Context, id types.Identity) ([]types.StoredRecord, error) {
	f := types.AuthorFilter(id)
	return a.conn.ListRecords(ctx, types.RecordQuery{Filter: &f})
}

// BuildCreateTx assembles and signs a creation transaction. Exposed
// for tooling that manages its own slot keypairs.
func BuildCreateTx(author, slotKey *Keypair, topic, content string) (types.SignedTx, error) {
	var nonce [8]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return types.SignedTx{}, fmt.Errorf("client: nonce: %w", err)
	}

	body := types.TxBody{
		Author: author.Identity(),
		Slot:   slotKey.SlotAddress(),
		Instr: types.Instruction{
			Kind:    types.InstrCreateRecord,
			Topic:   topic,
			Content: content,
		},
		Nonce: binary.LittleEndian.Uint64(nonce[:]),
	}
	msg, err := body.SigningBytes()
	if err != nil {
		return types.SignedTx{}, fmt.Errorf("client: signing bytes: %w", err)
	}
	return types.SignedTx{
		Body:      body,
		AuthorSig: author.Sign(msg),
		SlotSig:   slotKey.Sign(msg),
	}, nil
}
