package ledger

import (
	"time"

	"github.com/plumeledger/plume"
	"github.com/plumeledger/plume/types"
)

// Compile-time interface check.
var _ plume.Clock = SystemClock{}

// SystemClock reads the host's wall clock. This is the authoritative
// creation-time source for records on this ledger.
type SystemClock struct{}

func (SystemClock) Now() types.Timestamp {
	return types.TimeToTimestamp(time.Now())
}
