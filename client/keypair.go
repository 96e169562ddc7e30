// Package client implements the collaborator side of a plume
// ledger: key generation, transaction assembly and signing, faucet
// funding, and author-filtered record queries over any Connection.
package client

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/plumeledger/plume/types"
)

// Keypair is an ed25519 signing identity. The public key doubles as
// the ledger identity of an author and as the address of a fresh
// slot.
type Keypair struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// NewKeypair generates a fresh random keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("client: generate keypair: %w", err)
	}
	return &Keypair{pub: pub, priv: priv}, nil
}

// KeypairFromSeed derives a keypair from a 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("client: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Keypair{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// Identity returns the keypair's ledger identity.
func (k *Keypair) Identity() types.Identity {
	return types.IdentityFromBytes(k.pub)
}

// SlotAddress returns the keypair's public key as a slot address,
// for keypairs generated to name a new record slot.
func (k *Keypair) SlotAddress() types.SlotAddress {
	return types.SlotAddressFromBytes(k.pub)
}

// Sign signs msg with the private key.
func (k *Keypair) Sign(msg []byte) []byte {
	return ed25519.Sign(k.priv, msg)
}

// WriteFile persists the keypair's seed as hex, readable only by the
// owner.
func (k *Keypair) WriteFile(path string) error {
	seed := hex.EncodeToString(k.priv.Seed())
	if err := os.WriteFile(path, []byte(seed+"\n"), 0o600); err != nil {
		return fmt.Errorf("client: write keypair: %w", err)
	}
	return nil
}

// LoadKeypair reads a keypair persisted by WriteFile.
func LoadKeypair(path string) (*Keypair, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("client: read keypair: %w", err)
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("client: decode keypair %s: %w", path, err)
	}
	return KeypairFromSeed(seed)
}
