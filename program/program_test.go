package program_test

import (
	"context"
	"strings"
	"testing"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/program"
	"github.com/plumeledger/plume/testing"
	"github.com/plumeledger/plume/types"
)

func newContext(slot *plumetest.MockSlot, clock plume.Clock) plume.InstructionContext {
	return plume.InstructionContext{
		Slot:   slot,
		Author: types.Identity{0x01, 0x02},
		Clock:  clock,
		System: types.CapAllocate | types.CapClock,
	}
}

func TestCreateRecord_CommitsRecord(t *testing.T) {
	slot := &plumetest.MockSlot{Addr: types.SlotAddress{0xAA}}
	clock := plumetest.ClockAt(1724630400)
	ictx := newContext(slot, clock)

	var p program.Program
	err := p.CreateRecord(context.Background(), ictx, "veganism", "Hummus, am I right?")
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	if got := slot.InitCalls.Load(); got != 1 {
		t.Fatalf("expected exactly one Init call, got %d", got)
	}
	if slot.Capacity != types.RequiredCapacity() {
		t.Errorf("allocated %d bytes, want RequiredCapacity()=%d", slot.Capacity, types.RequiredCapacity())
	}
	if slot.Payer != ictx.Author {
		t.Errorf("allocation charged to %s, want author %s", slot.Payer, ictx.Author)
	}

	rec, err := types.DecodeRecord(slot.Data)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.Author != ictx.Author {
		t.Errorf("author = %s, want %s", rec.Author, ictx.Author)
	}
	if rec.CreatedAt != 1724630400 {
		t.Errorf("created_at = %d, want host clock reading", rec.CreatedAt)
	}
	if rec.Topic != "veganism" || rec.Content != "Hummus, am I right?" {
		t.Errorf("fields not stored verbatim: %+v", rec)
	}
}

func TestCreateRecord_ValidationOrder(t *testing.T) {
	// Both fields over the limit: topic must be reported first.
	slot := &plumetest.MockSlot{}
	var p program.Program
	err := p.CreateRecord(context.Background(), newContext(slot, plumetest.ClockAt(1)),
		strings.Repeat("a", types.MaxTopicBytes+1),
		strings.Repeat("b", types.MaxContentBytes+1))
	if err != plume.ErrTopicTooLong {
		t.Fatalf("got %v, want ErrTopicTooLong", err)
	}
	if slot.InitCalls.Load() != 0 {
		t.Fatal("failed validation must leave no state changes")
	}
}

func TestCreateRecord_TopicBoundary(t *testing.T) {
	var p program.Program

	// 50 four-byte characters = exactly 200 bytes: legal.
	slot := &plumetest.MockSlot{}
	wide := strings.Repeat("\U0001F331", types.MaxTopicChars)
	if len(wide) != types.MaxTopicBytes {
		t.Fatalf("test input is %d bytes, want %d", len(wide), types.MaxTopicBytes)
	}
	if err := p.CreateRecord(context.Background(), newContext(slot, plumetest.ClockAt(1)), wide, "ok"); err != nil {
		t.Fatalf("topic at exact byte limit rejected: %v", err)
	}

	// One byte over: rejected.
	slot = &plumetest.MockSlot{}
	over := strings.Repeat("a", types.MaxTopicBytes+1)
	if err := p.CreateRecord(context.Background(), newContext(slot, plumetest.ClockAt(1)), over, "ok"); err != plume.ErrTopicTooLong {
		t.Fatalf("got %v, want ErrTopicTooLong", err)
	}
}

func TestCreateRecord_ContentTooLong(t *testing.T) {
	slot := &plumetest.MockSlot{}
	var p program.Program
	err := p.CreateRecord(context.Background(), newContext(slot, plumetest.ClockAt(1)),
		"valid topic", strings.Repeat("c", types.MaxContentBytes+1))
	if err != plume.ErrContentTooLong {
		t.Fatalf("got %v, want ErrContentTooLong", err)
	}
	if slot.InitCalls.Load() != 0 {
		t.Fatal("failed validation must leave no state changes")
	}
}

func TestCreateRecord_EmptyTopicLegal(t *testing.T) {
	slot := &plumetest.MockSlot{}
	var p program.Program
	if err := p.CreateRecord(context.Background(), newContext(slot, plumetest.ClockAt(9)), "", "no topic here"); err != nil {
		t.Fatalf("empty topic must be legal, got %v", err)
	}
	rec, err := types.DecodeRecord(slot.Data)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if rec.Topic != "" {
		t.Errorf("topic = %q, want empty", rec.Topic)
	}
}

func TestCreateRecord_RequiresAllocCapability(t *testing.T) {
	slot := &plumetest.MockSlot{}
	ictx := newContext(slot, plumetest.ClockAt(1))
	ictx.System = types.CapClock

	var p program.Program
	err := p.CreateRecord(context.Background(), ictx, "t", "c")
	if err != plume.ErrMissingCapability {
		t.Fatalf("got %v, want ErrMissingCapability", err)
	}
	if _, ok := plume.IsRejection(err); ok {
		t.Fatal("capability fault must not be a validation rejection")
	}
}

func TestCreateRecord_SlotFailurePassesThrough(t *testing.T) {
	slot := &plumetest.MockSlot{
		InitFn: func(int, types.Identity, []byte) error {
			return plumetest.ErrMockSlotInUse
		},
	}
	var p program.Program
	err := p.CreateRecord(context.Background(), newContext(slot, plumetest.ClockAt(1)), "t", "c")
	if err != plumetest.ErrMockSlotInUse {
		t.Fatalf("host failure must pass through unmodified, got %v", err)
	}
}

func TestExecute_UnknownInstruction(t *testing.T) {
	slot := &plumetest.MockSlot{}
	var p program.Program
	err := p.Execute(context.Background(), newContext(slot, plumetest.ClockAt(1)), types.Instruction{Kind: 0x7F})
	if err == nil {
		t.Fatal("expected error for unknown instruction kind")
	}
	if slot.InitCalls.Load() != 0 {
		t.Fatal("unknown instruction must not touch the slot")
	}
}
