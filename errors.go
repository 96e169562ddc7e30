package plume

import (
	"errors"
	"fmt"

	"github.com/plumeledger/plume/types"
)

// RejectionError is a permanent validation rejection from the
// program. A rejected request never has partial effects; the caller
// must resubmit corrected input under a fresh slot.
//
// Exactly two rejections exist. Host-level failures (slot already
// initialized, insufficient funds, bad signature) are not
// RejectionErrors and pass through unmodified.
type RejectionError struct {
	Code uint32
	Msg  string
}

func (e *RejectionError) Error() string { return e.Msg }

var (
	// ErrTopicTooLong reports a topic exceeding types.MaxTopicBytes.
	ErrTopicTooLong = &RejectionError{Code: types.CodeTopicTooLong, Msg: "Topic is too long"}

	// ErrContentTooLong reports content exceeding types.MaxContentBytes.
	ErrContentTooLong = &RejectionError{Code: types.CodeContentTooLong, Msg: "Content is too long"}
)

// ErrMissingCapability reports an instruction context assembled
// without the allocation-granting system capability. This is a host
// configuration fault, not a validation rejection.
var ErrMissingCapability = errors.New("plume: allocation capability not granted")

// IsRejection checks whether an error is a RejectionError and returns it.
func IsRejection(err error) (*RejectionError, bool) {
	var r *RejectionError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// ResultError converts a failed TxResult back into its typed error.
// Returns nil for successful results. Program rejection codes map to
// the two named errors so callers observe the same error across
// transports.
func ResultError(r types.TxResult) error {
	switch r.Code {
	case types.CodeOK:
		return nil
	case types.CodeTopicTooLong:
		return ErrTopicTooLong
	case types.CodeContentTooLong:
		return ErrContentTooLong
	default:
		return fmt.Errorf("plume: transaction failed: code=%d %s", r.Code, r.Info)
	}
}
