// Command plume is the ledger CLI: key management, faucet funding,
// posting records, and reading them back.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "plume:", err)
		os.Exit(1)
	}
}
