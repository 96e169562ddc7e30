package plumegrpc

import (
	"context"
	"fmt"

	"github.com/plumeledger/plume/types"

	"google.golang.org/grpc"
)

const serviceName = "github.com/plumeledger/plume.v1.LedgerService"

// LedgerServiceServer is the server-side interface for the plume
// gRPC service.
type LedgerServiceServer interface {
	SubmitTx(context.Context, *SubmitTxRequest) (*types.TxResult, error)
	GetRecord(context.Context, *GetRecordRequest) (*types.StoredRecord, error)
	ListRecords(context.Context, *types.RecordQuery) (*ListRecordsResponse, error)
	Airdrop(context.Context, *AirdropRequest) (*types.AirdropReceipt, error)
}

// RegisterLedgerServiceServer registers the LedgerServiceServer on a
// gRPC server.
func RegisterLedgerServiceServer(s *grpc.Server, srv LedgerServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerSubmitTx(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(SubmitTxRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LedgerServiceServer).SubmitTx(ctx, req)
}

func handlerGetRecord(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(GetRecordRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LedgerServiceServer).GetRecord(ctx, req)
}

func handlerListRecords(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(types.RecordQuery)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LedgerServiceServer).ListRecords(ctx, req)
}

func handlerAirdrop(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(AirdropRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LedgerServiceServer).Airdrop(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor for plume.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitTx", Handler: handlerSubmitTx},
		{MethodName: "GetRecord", Handler: handlerGetRecord},
		{MethodName: "ListRecords", Handler: handlerListRecords},
		{MethodName: "Airdrop", Handler: handlerAirdrop},
	},
	Metadata: "github.com/plumeledger/plume/v1/service.cram",
}
