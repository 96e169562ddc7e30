package plumetest

import (
	"context"
	"strings"
	"testing"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/client"
	"github.com/plumeledger/plume/types"
)

// RunConnectionCompliance verifies the record contract over any
// Connection implementation. The factory must return a fresh
// connection to an empty host with a working faucet; the suite
// closes each connection when its subtest ends.
//
// Both the in-process adapter and the gRPC transport run this same
// suite, so a record behaves identically no matter how it was
// submitted.
func RunConnectionCompliance(t *testing.T, factory func(t *testing.T) plume.Connection) {
	t.Helper()

	newAuthor := func(t *testing.T, conn plume.Connection) *client.Author {
		t.Helper()
		key, err := client.NewKeypair()
		if err != nil {
			t.Fatalf("NewKeypair: %v", err)
		}
		a := client.NewAuthor(conn, key)
		if _, err := a.RequestAirdrop(context.Background(), FundingAmount); err != nil {
			t.Fatalf("RequestAirdrop: %v", err)
		}
		return a
	}

	connect := func(t *testing.T) plume.Connection {
		t.Helper()
		conn := factory(t)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	t.Run("create_and_read_back", func(t *testing.T) {
		conn := connect(t)
		a := newAuthor(t, conn)
		ctx := context.Background()

		addr, res, err := a.SendTweet(ctx, "veganism", "Hummus, am I right?")
		if err != nil {
			t.Fatalf("SendTweet: %v", err)
		}
		if res.Time.IsZero() {
			t.Error("result must carry the stamped creation time")
		}

		stored, err := conn.GetRecord(ctx, addr)
		if err != nil {
			t.Fatalf("GetRecord: %v", err)
		}
		rec := stored.Record
		if rec.Author != a.Identity() {
			t.Errorf("author = %s, want %s", rec.Author, a.Identity())
		}
		if rec.Topic != "veganism" || rec.Content != "Hummus, am I right?" {
			t.Errorf("fields not stored verbatim: %+v", rec)
		}
		if rec.CreatedAt == 0 {
			t.Error("created_at must be a non-zero timestamp")
		}
	})

	t.Run("topic_byte_boundary", func(t *testing.T) {
		conn := connect(t)
		a := newAuthor(t, conn)
		ctx := context.Background()

		// 50 'a' runes is 50 bytes — far under the 200-byte ceiling.
		if _, _, err := a.SendTweet(ctx, strings.Repeat("a", 50), "ok"); err != nil {
			t.Fatalf("50-char topic: %v", err)
		}
		// Exactly at the ceiling.
		if _, _, err := a.SendTweet(ctx, strings.Repeat("a", types.MaxTopicBytes), "ok"); err != nil {
			t.Fatalf("topic at byte ceiling: %v", err)
		}
		// One byte over.
		_, _, err := a.SendTweet(ctx, strings.Repeat("a", types.MaxTopicBytes+1), "ok")
		if err != plume.ErrTopicTooLong {
			t.Fatalf("got %v, want ErrTopicTooLong", err)
		}
	})

	t.Run("content_too_long", func(t *testing.T) {
		conn := connect(t)
		a := newAuthor(t, conn)

		_, _, err := a.SendTweet(context.Background(), "valid", strings.Repeat("c", types.MaxContentBytes+1))
		if err != plume.ErrContentTooLong {
			t.Fatalf("got %v, want ErrContentTooLong", err)
		}
	})

	t.Run("validation_order", func(t *testing.T) {
		conn := connect(t)
		a := newAuthor(t, conn)

		_, _, err := a.SendTweet(context.Background(),
			strings.Repeat("a", types.MaxTopicBytes+1),
			strings.Repeat("c", types.MaxContentBytes+1))
		if err != plume.ErrTopicTooLong {
			t.Fatalf("both violations must report the topic first, got %v", err)
		}
	})

	t.Run("empty_topic_legal", func(t *testing.T) {
		conn := connect(t)
		a := newAuthor(t, conn)
		ctx := context.Background()

		addr, _, err := a.SendTweet(ctx, "", "no topic")
		if err != nil {
			t.Fatalf("empty topic: %v", err)
		}
		stored, err := conn.GetRecord(ctx, addr)
		if err != nil {
			t.Fatalf("GetRecord: %v", err)
		}
		if stored.Record.Topic != "" {
			t.Errorf("topic = %q, want empty", stored.Record.Topic)
		}
	})

	t.Run("slot_is_single_use", func(t *testing.T) {
		conn := connect(t)
		ctx := context.Background()

		authorKey := fundedKeypair(t, conn)
		slotKey, err := client.NewKeypair()
		if err != nil {
			t.Fatalf("NewKeypair: %v", err)
		}

		// First creation wins the slot.
		tx, err := client.BuildCreateTx(authorKey, slotKey, "first", "wins")
		if err != nil {
			t.Fatalf("BuildCreateTx: %v", err)
		}
		res, err := conn.SubmitTx(ctx, tx)
		if err != nil || !res.OK() {
			t.Fatalf("first creation: res=%+v err=%v", res, err)
		}

		// Second creation against the same slot always fails, even
		// with valid input.
		tx2, err := client.BuildCreateTx(authorKey, slotKey, "second", "loses")
		if err != nil {
			t.Fatalf("BuildCreateTx: %v", err)
		}
		res2, err := conn.SubmitTx(ctx, tx2)
		if err != nil {
			t.Fatalf("SubmitTx: %v", err)
		}
		if res2.OK() {
			t.Fatal("slot reuse must fail")
		}
		if res2.Code != types.CodeSlotInUse {
			t.Fatalf("code = %d, want CodeSlotInUse", res2.Code)
		}

		// The original record is intact.
		stored, err := conn.GetRecord(ctx, slotKey.SlotAddress())
		if err != nil {
			t.Fatalf("GetRecord: %v", err)
		}
		if stored.Record.Topic != "first" {
			t.Errorf("losing creation overwrote the slot: %+v", stored.Record)
		}
	})

	t.Run("author_filter_exactness", func(t *testing.T) {
		conn := connect(t)
		alice := newAuthor(t, conn)
		bob := newAuthor(t, conn)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			if _, _, err := alice.SendTweet(ctx, "from-alice", "a"); err != nil {
				t.Fatalf("alice SendTweet: %v", err)
			}
		}
		for i := 0; i < 2; i++ {
			if _, _, err := bob.SendTweet(ctx, "from-bob", "b"); err != nil {
				t.Fatalf("bob SendTweet: %v", err)
			}
		}

		got, err := alice.TweetsBy(ctx, alice.Identity())
		if err != nil {
			t.Fatalf("TweetsBy: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("alice filter returned %d records, want 3", len(got))
		}
		for _, r := range got {
			if r.Record.Author != alice.Identity() {
				t.Errorf("false positive: record by %s", r.Record.Author)
			}
		}

		all, err := alice.Tweets(ctx)
		if err != nil {
			t.Fatalf("Tweets: %v", err)
		}
		if len(all) != 5 {
			t.Fatalf("unfiltered listing returned %d records, want 5", len(all))
		}
	})

	t.Run("distinct_authors_distinct_records", func(t *testing.T) {
		conn := connect(t)
		alice := newAuthor(t, conn)
		bob := newAuthor(t, conn)
		ctx := context.Background()

		aAddr, _, err := alice.SendTweet(ctx, "", "from alice")
		if err != nil {
			t.Fatalf("alice SendTweet: %v", err)
		}
		bAddr, _, err := bob.SendTweet(ctx, "", "from bob")
		if err != nil {
			t.Fatalf("bob SendTweet: %v", err)
		}

		aRec, err := conn.GetRecord(ctx, aAddr)
		if err != nil {
			t.Fatalf("GetRecord: %v", err)
		}
		bRec, err := conn.GetRecord(ctx, bAddr)
		if err != nil {
			t.Fatalf("GetRecord: %v", err)
		}
		if aRec.Record.Author != alice.Identity() || bRec.Record.Author != bob.Identity() {
			t.Error("each record's author must match its own creator")
		}
		if aRec.Record.Author == bRec.Record.Author {
			t.Error("records from different identities share an author")
		}
	})
}

// fundedKeypair generates a keypair and funds it through the faucet,
// for tests that submit raw transactions instead of going through an
// Author.
func fundedKeypair(t *testing.T, conn plume.Connection) *client.Keypair {
	t.Helper()
	key, err := client.NewKeypair()
	if err != nil {
		t.Fatalf("NewKeypair: %v", err)
	}
	if _, err := conn.Airdrop(context.Background(), key.Identity(), FundingAmount); err != nil {
		t.Fatalf("Airdrop: %v", err)
	}
	return key
}
