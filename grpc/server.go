package plumegrpc

import (
	"context"
	"net"

	"github.com/plumeledger/plume/ledger"
	"github.com/plumeledger/plume/types"

	"google.golang.org/grpc"
)

// Compile-time interface check.
var _ LedgerServiceServer = (*Server)(nil)

// Server exposes a ledger host as a gRPC service. No type
// conversion is needed — domain types are serialized directly via
// cramberry.
type Server struct {
	led *ledger.Ledger
}

// NewServer creates a gRPC server wrapping the given host.
func NewServer(led *ledger.Ledger) *Server {
	return &Server{led: led}
}

// Register adds the ledger service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	RegisterLedgerServiceServer(gs, s)
}

// Serve starts a gRPC server on the given listener.
func (s *Server) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// Ledger returns the underlying host for advanced use.
func (s *Server) Ledger() *ledger.Ledger {
	return s.led
}

// --- RPCs ---

func (s *Server) SubmitTx(ctx context.Context, req *SubmitTxRequest) (*types.TxResult, error) {
	res, err := s.led.SubmitTx(ctx, req.Tx)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Server) GetRecord(ctx context.Context, req *GetRecordRequest) (*types.StoredRecord, error) {
	rec, err := s.led.GetRecord(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Server) ListRecords(ctx context.Context, q *types.RecordQuery) (*ListRecordsResponse, error) {
	records, err := s.led.ListRecords(ctx, *q)
	if err != nil {
		return nil, err
	}
	return &ListRecordsResponse{Records: records}, nil
}

func (s *Server) Airdrop(ctx context.Context, req *AirdropRequest) (*types.AirdropReceipt, error) {
	receipt, err := s.led.Airdrop(ctx, req.Identity, req.Amount)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}
