package types

import "strings"

// Capabilities is a bitfield of host-granted permissions attached to
// an instruction context. The host decides what each invocation may
// do; the program checks before acting.
type Capabilities uint8

const (
	// CapAllocate permits creating a slot charged to the author.
	CapAllocate Capabilities = 1 << iota
	// CapClock permits reading the host's authoritative clock.
	CapClock
	// CapFaucet permits minting airdrop credits (dev clusters only).
	CapFaucet
)

// Has returns true if all bits in mask are set.
func (c Capabilities) Has(mask Capabilities) bool {
	return c&mask == mask
}

// String returns a human-readable representation.
func (c Capabilities) String() string {
	var caps []string
	if c.Has(CapAllocate) {
		caps = append(caps, "Allocate")
	}
	if c.Has(CapClock) {
		caps = append(caps, "Clock")
	}
	if c.Has(CapFaucet) {
		caps = append(caps, "Faucet")
	}
	if len(caps) == 0 {
		return "none"
	}
	return strings.Join(caps, "|")
}
