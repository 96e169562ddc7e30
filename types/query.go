package types

import "bytes"

// MemFilter matches raw slot bytes at a fixed offset. Its
// correctness depends entirely on the record layout being stable and
// byte-exact.
type MemFilter struct {
	Offset uint32 `cramberry:"1"`
	Bytes  []byte `cramberry:"2"`
}

// AuthorFilter matches records created by the given identity, using
// the stable AuthorOffset of the record layout.
func AuthorFilter(id Identity) MemFilter {
	return MemFilter{Offset: AuthorOffset, Bytes: id[:]}
}

// Match reports whether raw contains the filter bytes at the
// filter's offset.
func (f MemFilter) Match(raw []byte) bool {
	end := int(f.Offset) + len(f.Bytes)
	return end <= len(raw) && bytes.Equal(raw[f.Offset:end], f.Bytes)
}

// RecordQuery selects stored records.
type RecordQuery struct {
	// Filter narrows the result set. Nil = all records.
	Filter *MemFilter `cramberry:"1"`
	// Limit caps the number of results. 0 = no limit.
	Limit uint32 `cramberry:"2"`
}

// StoredRecord pairs a decoded record with its slot address.
type StoredRecord struct {
	Address SlotAddress `cramberry:"1"`
	Record  TweetRecord `cramberry:"2"`
}

// AirdropReceipt acknowledges a faucet credit.
type AirdropReceipt struct {
	// Ticket is the faucet-assigned id for this credit.
	Ticket string `cramberry:"1"`
	Amount uint64 `cramberry:"2"`
	// Balance is the identity's funding balance after the credit.
	Balance uint64 `cramberry:"3"`
}
