// Package types defines the core data types shared by the plume
// program, the ledger host, and clients.
//
// Wire-facing structs carry cramberry struct tags for deterministic
// binary serialization. The on-slot record layout is hand-encoded at
// fixed offsets (see record.go) so that byte-offset readers never
// depend on a codec.
package types

import "encoding/hex"

// Identity is the opaque 32-byte verified public key of an actor.
// The core treats it as a capability handed in by the host; no key
// scheme leaks into the record layout.
type Identity [32]byte

// SlotAddress is the 32-byte address of a storage slot.
type SlotAddress [32]byte

// Hash is a 32-byte cryptographic hash.
type Hash [32]byte

func (id Identity) String() string { return hex.EncodeToString(id[:]) }

func (a SlotAddress) String() string { return hex.EncodeToString(a[:]) }

// IdentityFromBytes copies b into an Identity. Short input is
// zero-padded; long input is truncated. Use for display/tooling, not
// for verification paths.
func IdentityFromBytes(b []byte) Identity {
	var id Identity
	copy(id[:], b)
	return id
}

// SlotAddressFromBytes copies b into a SlotAddress.
func SlotAddressFromBytes(b []byte) SlotAddress {
	var a SlotAddress
	copy(a[:], b)
	return a
}
