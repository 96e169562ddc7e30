package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/plumeledger/plume/client"
	plumegrpc "github.com/plumeledger/plume/grpc"
	"github.com/plumeledger/plume/types"
)

// rootOptions holds global flags shared by every subcommand.
type rootOptions struct {
	Node    string
	KeyPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "plume",
		Short:         "plume - append-only tweet ledger client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			godotenv.Load()
			if opts.Node == "" {
				opts.Node = envOr("PLUME_NODE", "127.0.0.1:7450")
			}
			if opts.KeyPath == "" {
				opts.KeyPath = envOr("PLUME_KEY", defaultKeyPath())
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Node, "node", "", "ledger host address (default $PLUME_NODE or 127.0.0.1:7450)")
	cmd.PersistentFlags().StringVar(&opts.KeyPath, "key", "", "keypair file (default $PLUME_KEY or ~/.plume/id.key)")

	cmd.AddCommand(newKeygenCommand(opts))
	cmd.AddCommand(newAirdropCommand(opts))
	cmd.AddCommand(newSendCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newShowCommand(opts))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.key"
	}
	return home + "/.plume/id.key"
}

// dialNode connects to the configured host. Callers own the
// returned connection.
func dialNode(opts *rootOptions) (*plumegrpc.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return plumegrpc.Dial(ctx, opts.Node, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func loadAuthor(opts *rootOptions) (*client.Keypair, error) {
	key, err := client.LoadKeypair(opts.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("load keypair (run 'plume keygen' first?): %w", err)
	}
	return key, nil
}

func parseIdentity(s string) (types.Identity, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return types.Identity{}, fmt.Errorf("identity must be 64 hex chars")
	}
	return types.IdentityFromBytes(raw), nil
}

func parseSlotAddress(s string) (types.SlotAddress, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return types.SlotAddress{}, fmt.Errorf("slot address must be 64 hex chars")
	}
	return types.SlotAddressFromBytes(raw), nil
}
