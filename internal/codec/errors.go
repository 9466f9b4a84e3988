// internal/codec/errors.go
package codec

import "fmt"

// DecodeError reports a malformed register block.
type DecodeError struct {
	Register int    // 0-based register index, -1 for whole-block errors
	Reason   string // what was wrong
}

func (e *DecodeError) Error() string {
	if e.Register < 0 {
		return fmt.Sprintf("codec: malformed block: %s", e.Reason)
	}
	return fmt.Sprintf("codec: malformed register %d: %s", e.Register+1, e.Reason)
}

func decodeErrorf(reg int, format string, args ...any) *DecodeError {
	return &DecodeError{Register: reg, Reason: fmt.Sprintf(format, args...)}
}
