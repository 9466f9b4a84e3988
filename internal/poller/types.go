// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/midas/internal/codec"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	Address string
	At      time.Time

	// State is valid only when Err is nil. On failure it carries the
	// address with Connected=false.
	State codec.State
	Err   error // non-nil means the poll cycle failed
}

// OK reports a successful cycle.
func (r PollResult) OK() bool { return r.Err == nil }
