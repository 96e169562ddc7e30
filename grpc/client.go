package plumegrpc

import (
	"context"
	"fmt"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/types"

	"google.golang.org/grpc"
)

// Compile-time interface check.
var _ plume.Connection = (*Client)(nil)

// Client implements plume.Connection for remote ledger hosts over
// gRPC using cramberry serialization. No protobuf types or
// conversion layer required.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to a remote ledger host.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("plume client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) SubmitTx(ctx context.Context, tx types.SignedTx) (types.TxResult, error) {
	req := &SubmitTxRequest{Tx: tx}
	resp := new(types.TxResult)
	if err := c.cc.Invoke(ctx, fullMethod("SubmitTx"), req, resp); err != nil {
		return types.TxResult{}, err
	}
	return *resp, nil
}

func (c *Client) GetRecord(ctx context.Context, addr types.SlotAddress) (types.StoredRecord, error) {
	req := &GetRecordRequest{Address: addr}
	resp := new(types.StoredRecord)
	if err := c.cc.Invoke(ctx, fullMethod("GetRecord"), req, resp); err != nil {
		return types.StoredRecord{}, err
	}
	return *resp, nil
}

func (c *Client) ListRecords(ctx context.Context, q types.RecordQuery) ([]types.StoredRecord, error) {
	resp := new(ListRecordsResponse)
	if err := c.cc.Invoke(ctx, fullMethod("ListRecords"), &q, resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *Client) Airdrop(ctx context.Context, id types.Identity, amount uint64) (types.AirdropReceipt, error) {
	req := &AirdropRequest{Identity: id, Amount: amount}
	resp := new(types.AirdropReceipt)
	if err := c.cc.Invoke(ctx, fullMethod("Airdrop"), req, resp); err != nil {
		return types.AirdropReceipt{}, err
	}
	return *resp, nil
}
