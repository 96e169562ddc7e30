package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/plumeledger/plume/client"
	"github.com/plumeledger/plume/types"
)

func newKeygenCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a keypair and write it to the key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.KeyPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.KeyPath)
			}
			key, err := client.NewKeypair()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(opts.KeyPath), 0o700); err != nil {
				return err
			}
			if err := key.WriteFile(opts.KeyPath); err != nil {
				return err
			}
			fmt.Printf("wrote %s\nidentity: %s\n", opts.KeyPath, key.Identity())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")
	return cmd
}

func newAirdropCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop <amount>",
		Short: "Fund the identity from the host faucet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var amount uint64
			if _, err := fmt.Sscanf(args[0], "%d", &amount); err != nil {
				return fmt.Errorf("amount must be a positive integer")
			}
			key, err := loadAuthor(opts)
			if err != nil {
				return err
			}
			conn, err := dialNode(opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			receipt, err := conn.Airdrop(context.Background(), key.Identity(), amount)
			if err != nil {
				return err
			}
			fmt.Printf("ticket %s: +%d, balance %d\n", receipt.Ticket, receipt.Amount, receipt.Balance)
			return nil
		},
	}
}

func newSendCommand(opts *rootOptions) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "send <content>",
		Short: "Post a tweet record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadAuthor(opts)
			if err != nil {
				return err
			}
			conn, err := dialNode(opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			author := client.NewAuthor(conn, key)
			addr, res, err := author.SendTweet(context.Background(), topic, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("committed %s (charged %d)\n", addr, res.Charged)
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "topic (up to 50 chars)")
	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var (
		authorHex string
		mine      bool
		limit     uint32
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List committed records, optionally filtered by author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := dialNode(opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			q := types.RecordQuery{Limit: limit}
			switch {
			case mine:
				key, err := loadAuthor(opts)
				if err != nil {
					return err
				}
				f := types.AuthorFilter(key.Identity())
				q.Filter = &f
			case authorHex != "":
				id, err := parseIdentity(authorHex)
				if err != nil {
					return err
				}
				f := types.AuthorFilter(id)
				q.Filter = &f
			}

			records, err := conn.ListRecords(context.Background(), q)
			if err != nil {
				return err
			}
			for _, r := range records {
				printRecord(r)
			}
			fmt.Printf("%d record(s)\n", len(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&authorHex, "author", "", "filter by author identity (hex)")
	cmd.Flags().BoolVar(&mine, "mine", false, "filter by the key file's identity")
	cmd.Flags().Uint32Var(&limit, "limit", 0, "maximum records to return (0 = all)")
	return cmd
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slot-address>",
		Short: "Read one record by slot address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseSlotAddress(args[0])
			if err != nil {
				return err
			}
			conn, err := dialNode(opts)
			if err != nil {
				return err
			}
			defer conn.Close()

			stored, err := conn.GetRecord(context.Background(), addr)
			if err != nil {
				return err
			}
			printRecord(stored)
			return nil
		},
	}
}

func printRecord(r types.StoredRecord) {
	when := time.Unix(r.Record.CreatedAt, 0).UTC().Format(time.RFC3339)
	topic := r.Record.Topic
	if topic == "" {
		topic = "-"
	}
	fmt.Printf("%s\n  author %s\n  at     %s\n  topic  %s\n  %s\n",
		r.Address, r.Record.Author, when, topic, r.Record.Content)
}
