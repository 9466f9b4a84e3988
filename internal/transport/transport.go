// internal/transport/transport.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Protocol payload ceilings (250 bytes per exchange).
const (
	MaxReadRegisters  = 124
	MaxWriteRegisters = 62

	// WriteAddressStride is how far the start address advances per write chunk.
	WriteAddressStride = 124
)

const (
	defaultTimeout = time.Second
	addressSpace   = 1 << 16
)

// writeEnd is one past the last register a chunked write of n values touches.
func writeEnd(address uint16, n int) int {
	chunks := (n + MaxWriteRegisters - 1) / MaxWriteRegisters
	last := n - (chunks-1)*MaxWriteRegisters
	return int(address) + (chunks-1)*WriteAddressStride + last
}

// Config is the transport config for one device.
type Config struct {
	Address     string
	UnitID      uint8
	Timeout     time.Duration // connect and per-exchange deadline
	IdleTimeout time.Duration // 0 keeps idle connections open; expiry is checked on the next operation

	Logger *zerolog.Logger // nil disables logging
	Dial   Dialer          // nil means DialTCP
}

// Transport owns the connection to one device and serializes every
// exchange on it. The device ignores a request sent while it is still
// processing another, so there is never more than one in flight.
type Transport struct {
	cfg  Config
	log  zerolog.Logger
	dial Dialer

	// slot is the exclusive, non-reentrant execution slot.
	// Everything below it is guarded by holding the slot.
	slot     *semaphore.Weighted
	conn     Conn
	lastUsed time.Time
	closed   bool

	state atomic.Int32
}

// New creates a transport. It does not connect; the first operation does.
func New(cfg Config) *Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	dial := cfg.Dial
	if dial == nil {
		dial = DialTCP
	}
	return &Transport{
		cfg:  cfg,
		log:  log.With().Str("device", cfg.Address).Logger(),
		dial: dial,
		slot: semaphore.NewWeighted(1),
	}
}

// Address returns the configured device address.
func (t *Transport) Address() string { return t.cfg.Address }

// State returns the current connection state.
func (t *Transport) State() ConnectionState {
	return ConnectionState(t.state.Load())
}

func (t *Transport) setState(s ConnectionState) {
	t.state.Store(int32(s))
}

// Connect establishes the connection if there is none.
// One attempt, bounded by the configured timeout; no retry loop.
func (t *Transport) Connect(ctx context.Context) error {
	if err := t.acquire(ctx, "connect"); err != nil {
		return err
	}
	defer t.slot.Release(1)
	return t.connectLocked(ctx)
}

// ReadRegisters reads count holding registers starting at address.
// Requests above MaxReadRegisters are split into sequential reads whose
// results are concatenated in address order.
func (t *Transport) ReadRegisters(ctx context.Context, address uint16, count int) ([]uint16, error) {
	if count <= 0 {
		return nil, errors.New("transport: read count must be > 0")
	}
	if end := int(address) + count; end > addressSpace {
		return nil, fmt.Errorf("transport: read %d@%d runs past register %d", count, address, addressSpace-1)
	}
	if err := t.acquire(ctx, "read"); err != nil {
		return nil, err
	}
	defer t.slot.Release(1)

	if err := t.connectLocked(ctx); err != nil {
		return nil, err
	}

	out := make([]uint16, 0, count)
	for count > 0 {
		n := count
		if n > MaxReadRegisters {
			n = MaxReadRegisters
		}
		addr := address

		regs, err := t.exchange(ctx, "read", func(c Conn) ([]uint16, error) {
			return c.ReadHoldingRegisters(addr, uint16(n))
		})
		if err != nil {
			return nil, err
		}
		if len(regs) != n {
			return nil, fmt.Errorf("transport: read %d@%d: device returned %d registers", n, addr, len(regs))
		}

		out = append(out, regs...)
		address += MaxReadRegisters
		count -= n
	}
	return out, nil
}

// WriteRegisters writes values starting at address.
// More than MaxWriteRegisters values are sent as sequential chunks.
func (t *Transport) WriteRegisters(ctx context.Context, address uint16, values []uint16) error {
	if len(values) == 0 {
		return errors.New("transport: nothing to write")
	}
	if end := writeEnd(address, len(values)); end > addressSpace {
		return fmt.Errorf("transport: write %d@%d runs past register %d", len(values), address, addressSpace-1)
	}
	if err := t.acquire(ctx, "write"); err != nil {
		return err
	}
	defer t.slot.Release(1)

	if err := t.connectLocked(ctx); err != nil {
		return err
	}

	for len(values) > 0 {
		n := len(values)
		if n > MaxWriteRegisters {
			n = MaxWriteRegisters
		}
		addr, chunk := address, values[:n]

		if _, err := t.exchange(ctx, "write", func(c Conn) ([]uint16, error) {
			return nil, c.WriteMultipleRegisters(addr, chunk)
		}); err != nil {
			return err
		}

		values = values[n:]
		address += WriteAddressStride
	}
	return nil
}

// Close releases the connection. It waits for an in-flight exchange.
// Operations after Close fail with ErrClosed.
func (t *Transport) Close() error {
	_ = t.slot.Acquire(context.Background(), 1)
	defer t.slot.Release(1)

	t.closed = true
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.setState(Disconnected)
	return err
}

// ---- internal, slot held ----

func (t *Transport) acquire(ctx context.Context, op string) error {
	if err := t.slot.Acquire(ctx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &TimeoutError{Op: op, Address: t.cfg.Address, Err: err}
		}
		return fmt.Errorf("transport: %s: %w", op, err)
	}
	return nil
}

func (t *Transport) connectLocked(ctx context.Context) error {
	if t.closed {
		return &ConnectionError{Op: "connect", Address: t.cfg.Address, Err: ErrClosed}
	}
	if t.conn != nil {
		if t.cfg.IdleTimeout <= 0 || time.Since(t.lastUsed) < t.cfg.IdleTimeout {
			return nil
		}
		t.log.Debug().Dur("idle", time.Since(t.lastUsed)).Msg("idle connection expired")
		t.drop("idle", nil)
	}

	t.setState(Connecting)
	t.log.Debug().Msg("connecting")

	dctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	conn, err := t.dial(dctx, t.cfg)
	if err != nil {
		t.setState(Failed)
		t.log.Warn().Err(err).Msg("connect failed")
		return &ConnectionError{Op: "connect", Address: t.cfg.Address, Err: err}
	}

	t.conn = conn
	t.lastUsed = time.Now()
	t.setState(Connected)
	t.log.Debug().Msg("connected")
	return nil
}

type exchangeResult struct {
	regs []uint16
	err  error
}

// exchange runs one request on the live connection under the per-exchange
// deadline. On timeout or cancellation the connection is detached and
// closed in the background, so the caller returns at once and a late reply
// can never be read as the answer to the next request.
func (t *Transport) exchange(ctx context.Context, op string, fn func(Conn) ([]uint16, error)) ([]uint16, error) {
	if t.conn == nil {
		return nil, &ConnectionError{Op: op, Address: t.cfg.Address, Err: ErrNotConnected}
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	conn := t.conn
	done := make(chan exchangeResult, 1)
	go func() {
		regs, err := fn(conn)
		done <- exchangeResult{regs: regs, err: err}
	}()

	select {
	case r := <-done:
		t.lastUsed = time.Now()
		if r.err != nil {
			return nil, t.fail(op, r.err)
		}
		t.log.Trace().Str("op", op).Int("registers", len(r.regs)).Msg("exchange ok")
		return r.regs, nil

	case <-ctx.Done():
		t.detach(op, ctx.Err(), done)
		return nil, &TimeoutError{Op: op, Address: t.cfg.Address, Err: ctx.Err()}
	}
}

// fail classifies an exchange error and drops the connection unless the
// device answered with a Modbus exception.
func (t *Transport) fail(op string, err error) error {
	if isDeviceException(err) {
		return fmt.Errorf("transport: %s %s: %w", op, t.cfg.Address, err)
	}

	t.drop(op, err)

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &TimeoutError{Op: op, Address: t.cfg.Address, Err: err}
	}
	return &ConnectionError{Op: op, Address: t.cfg.Address, Err: err}
}

// detach forgets a connection whose request is still blocked and closes it
// in the background. Every dial builds a new connection, so the stale one
// is never reused.
func (t *Transport) detach(op string, cause error, done <-chan exchangeResult) {
	conn := t.conn
	t.conn = nil
	t.setState(Disconnected)
	t.log.Warn().Str("op", op).Err(cause).Msg("abandoning connection")

	go func() {
		if err := conn.Close(); err != nil {
			t.log.Debug().Err(err).Msg("close after abandon")
		}
		<-done
	}()
}

func (t *Transport) drop(op string, cause error) {
	if t.conn == nil {
		return
	}
	if cause != nil {
		t.log.Warn().Str("op", op).Err(cause).Msg("dropping connection")
	}
	if err := t.conn.Close(); err != nil {
		t.log.Debug().Err(err).Msg("close after failure")
	}
	t.conn = nil
	t.setState(Disconnected)
}
