package types

import "github.com/blockberries/cramberry/pkg/cramberry"

// Instruction kinds. The creation transition is the only state
// transition the program supports.
const (
	InstrCreateRecord uint8 = 0x01
)

// Instruction is the program input carried by a transaction.
type Instruction struct {
	Kind    uint8  `cramberry:"1"`
	Topic   string `cramberry:"2"`
	Content string `cramberry:"3"`
}

// TxBody is the signed portion of a transaction: the author, the
// fresh slot the record will occupy, and the instruction itself.
type TxBody struct {
	Author Identity    `cramberry:"1"`
	Slot   SlotAddress `cramberry:"2"`
	Instr  Instruction `cramberry:"3"`
	// Nonce makes the signing bytes of otherwise identical requests
	// distinct. Chosen by the submitting client.
	Nonce uint64 `cramberry:"4"`
}

// SigningBytes returns the deterministic byte string that both the
// author key and the slot key must sign.
func (b TxBody) SigningBytes() ([]byte, error) {
	return cramberry.Marshal(b)
}

// SignedTx is a complete transaction envelope. The slot key signs
// alongside the author so that only the holder of the fresh keypair
// can claim that address.
type SignedTx struct {
	Body      TxBody `cramberry:"1"`
	AuthorSig []byte `cramberry:"2"`
	SlotSig   []byte `cramberry:"3"`
}

// Result codes for TxResult. Codes 1-2 are the program's two
// validation rejections; codes from CodeSlotInUse up originate from
// the host and are surfaced unmodified.
const (
	CodeOK                 uint32 = 0
	CodeTopicTooLong       uint32 = 1
	CodeContentTooLong     uint32 = 2
	CodeSlotInUse          uint32 = 16
	CodeInsufficientFunds  uint32 = 17
	CodeBadSignature       uint32 = 18
	CodeUnknownInstruction uint32 = 19
)

// TxResult reports the outcome of executing a transaction. A failed
// result means nothing was committed; failures are terminal for that
// request.
type TxResult struct {
	// Code 0 = success.
	Code uint32 `cramberry:"1"`
	// Info is a human-readable failure description.
	Info string `cramberry:"2"`
	// Slot is the address of the created record (success only).
	Slot SlotAddress `cramberry:"3"`
	// Charged is the rent deducted from the author (success only).
	Charged uint64 `cramberry:"4"`
	// Time is the host clock reading stamped into the record.
	Time Timestamp `cramberry:"5"`
}

// OK returns true if the transaction committed.
func (r TxResult) OK() bool { return r.Code == CodeOK }
