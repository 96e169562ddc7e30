package plumegrpc

import "github.com/plumeledger/plume/types"

// Transport-specific wrapper types for RPC methods whose interface
// signatures don't map to a single request/response struct.
// These are used only for gRPC serialization boundaries.

// SubmitTxRequest wraps the parameter for Connection.SubmitTx.
type SubmitTxRequest struct {
	Tx types.SignedTx `cramberry:"1"`
}

// GetRecordRequest wraps the parameter for Connection.GetRecord.
type GetRecordRequest struct {
	Address types.SlotAddress `cramberry:"1"`
}

// ListRecordsResponse wraps the return value of Connection.ListRecords.
type ListRecordsResponse struct {
	Records []types.StoredRecord `cramberry:"1"`
}

// AirdropRequest wraps the parameters for Connection.Airdrop.
type AirdropRequest struct {
	Identity types.Identity `cramberry:"1"`
	Amount   uint64         `cramberry:"2"`
}
