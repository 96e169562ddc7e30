// Package program implements the tweet-record creation transition —
// the only state transition the plume ledger supports.
//
// The program is stateless: each invocation's working set is exactly
// the one slot and the one author identity carried by its
// instruction context. Hosts invoke it as a single, isolated,
// non-reentrant unit of work.
package program

import (
	"context"
	"fmt"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/types"
)

// ErrUnknownInstruction reports an instruction kind the program does
// not define. Host-level failure, not a validation rejection.
var ErrUnknownInstruction = fmt.Errorf("program: unknown instruction")

// Program is the instruction handler.
type Program struct{}

// Execute dispatches one instruction against its context.
func (p Program) Execute(ctx context.Context, ictx plume.InstructionContext, instr types.Instruction) error {
	switch instr.Kind {
	case types.InstrCreateRecord:
		return p.CreateRecord(ctx, ictx, instr.Topic, instr.Content)
	default:
		return fmt.Errorf("%w: kind 0x%02x", ErrUnknownInstruction, instr.Kind)
	}
}

// CreateRecord validates the inputs and commits a new TweetRecord
// into the context's slot.
//
// Validation order is observable: a request violating both limits
// fails with ErrTopicTooLong. Lengths are UTF-8 byte lengths checked
// against the byte ceilings the capacity reservation assumes. An
// empty topic is legal; only the ceilings are enforced.
//
// On success the slot is allocated at exactly
// types.RequiredCapacity() bytes, charged to the author, stamped
// with the host clock, and populated — all in one Init call, so a
// failure leaves no partial write behind.
func (p Program) CreateRecord(ctx context.Context, ictx plume.InstructionContext, topic, content string) error {
	if len(topic) > types.MaxTopicBytes {
		return plume.ErrTopicTooLong
	}
	if len(content) > types.MaxContentBytes {
		return plume.ErrContentTooLong
	}
	if !ictx.System.Has(types.CapAllocate) {
		return plume.ErrMissingCapability
	}

	rec := types.TweetRecord{
		Author:    ictx.Author,
		CreatedAt: ictx.Clock.Now().Seconds,
		Topic:     topic,
		Content:   content,
	}
	data, err := types.EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("program: encode record: %w", err)
	}
	return ictx.Slot.Init(types.RequiredCapacity(), ictx.Author, data)
}
