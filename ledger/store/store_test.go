package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/plumeledger/plume/types"
)

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create_and_get", func(t *testing.T) {
		s := open(t)
		addr := types.SlotAddress{0x01}
		want := []byte("slot-bytes")

		err := s.Update(ctx, func(tx Txn) error {
			return tx.CreateSlot(addr, want)
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}

		got, err := s.GetSlot(ctx, addr)
		if err != nil {
			t.Fatalf("GetSlot: %v", err)
		}
		if string(got) != string(want) {
			t.Fatalf("GetSlot = %q, want %q", got, want)
		}
	})

	t.Run("slot_is_single_use", func(t *testing.T) {
		s := open(t)
		addr := types.SlotAddress{0x02}

		if err := s.Update(ctx, func(tx Txn) error { return tx.CreateSlot(addr, []byte("first")) }); err != nil {
			t.Fatalf("first create: %v", err)
		}
		err := s.Update(ctx, func(tx Txn) error { return tx.CreateSlot(addr, []byte("second")) })
		if !errors.Is(err, ErrSlotExists) {
			t.Fatalf("second create: got %v, want ErrSlotExists", err)
		}

		got, err := s.GetSlot(ctx, addr)
		if err != nil {
			t.Fatalf("GetSlot: %v", err)
		}
		if string(got) != "first" {
			t.Fatalf("losing create must not overwrite: got %q", got)
		}
	})

	t.Run("get_missing_slot", func(t *testing.T) {
		s := open(t)
		_, err := s.GetSlot(ctx, types.SlotAddress{0xEE})
		if !errors.Is(err, ErrSlotNotFound) {
			t.Fatalf("got %v, want ErrSlotNotFound", err)
		}
	})

	t.Run("failed_update_rolls_back", func(t *testing.T) {
		s := open(t)
		addr := types.SlotAddress{0x03}
		id := types.Identity{0x04}
		boom := errors.New("boom")

		err := s.Update(ctx, func(tx Txn) error {
			if err := tx.CreateSlot(addr, []byte("doomed")); err != nil {
				return err
			}
			if err := tx.SetBalance(id, 500); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Update: got %v, want callback error", err)
		}

		if _, err := s.GetSlot(ctx, addr); !errors.Is(err, ErrSlotNotFound) {
			t.Fatal("slot from failed update must not exist")
		}
		if bal, _ := s.Balance(ctx, id); bal != 0 {
			t.Fatalf("balance from failed update must not persist, got %d", bal)
		}
	})

	t.Run("balances", func(t *testing.T) {
		s := open(t)
		id := types.Identity{0x05}

		if bal, err := s.Balance(ctx, id); err != nil || bal != 0 {
			t.Fatalf("unknown identity: balance=%d err=%v, want 0, nil", bal, err)
		}
		err := s.Update(ctx, func(tx Txn) error { return tx.SetBalance(id, 1000) })
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		err = s.Update(ctx, func(tx Txn) error {
			bal, err := tx.Balance(id)
			if err != nil {
				return err
			}
			return tx.SetBalance(id, bal-300)
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if bal, _ := s.Balance(ctx, id); bal != 700 {
			t.Fatalf("balance = %d, want 700", bal)
		}
	})

	t.Run("list_with_filter", func(t *testing.T) {
		s := open(t)
		a := []byte{0xAA, 0x01, 0x01}
		b := []byte{0xAA, 0x02, 0x02}
		c := []byte{0xBB, 0x01, 0x01}

		err := s.Update(ctx, func(tx Txn) error {
			for i, data := range [][]byte{a, b, c} {
				if err := tx.CreateSlot(types.SlotAddress{byte(0x10 + i)}, data); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}

		all, err := s.ListSlots(ctx, nil, 0)
		if err != nil {
			t.Fatalf("ListSlots: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("ListSlots(nil) = %d rows, want 3", len(all))
		}

		f := &types.MemFilter{Offset: 0, Bytes: []byte{0xAA}}
		matched, err := s.ListSlots(ctx, f, 0)
		if err != nil {
			t.Fatalf("ListSlots: %v", err)
		}
		if len(matched) != 2 {
			t.Fatalf("filtered rows = %d, want 2", len(matched))
		}

		limited, err := s.ListSlots(ctx, f, 1)
		if err != nil {
			t.Fatalf("ListSlots: %v", err)
		}
		if len(limited) != 1 {
			t.Fatalf("limited rows = %d, want 1", len(limited))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemory()
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "plume.db"))
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plume.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	addr := types.SlotAddress{0x42}
	if err := s.Update(ctx, func(tx Txn) error { return tx.CreateSlot(addr, []byte("durable")) }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.GetSlot(ctx, addr)
	if err != nil {
		t.Fatalf("GetSlot after reopen: %v", err)
	}
	if string(got) != "durable" {
		t.Fatalf("GetSlot = %q, want %q", got, "durable")
	}
}
