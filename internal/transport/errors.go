// internal/transport/errors.go
package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected means a request found no live connection.
	ErrNotConnected = errors.New("not connected")
	// ErrClosed means the transport was closed by its owner.
	ErrClosed = errors.New("transport closed")
)

// ConnectionError reports a failed connect attempt or a connection lost mid-request.
type ConnectionError struct {
	Op      string // connect, read, write
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("transport: %s %s: connection error: %v", e.Op, e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError reports a request that exceeded its deadline.
// The connection has been closed when this is returned.
type TimeoutError struct {
	Op      string
	Address string
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transport: %s %s: timeout: %v", e.Op, e.Address, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout lets callers treat it like a net.Error.
func (e *TimeoutError) Timeout() bool { return true }

// IsConnection reports whether err is a ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
