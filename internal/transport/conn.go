// internal/transport/conn.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/goburrow/modbus"
)

// DefaultPort is the Modbus TCP port.
const DefaultPort = "502"

// Conn is one live register-exchange connection.
// Each call blocks until the device replies or the connection fails.
// Transport never issues two requests at once. It may call Close while a
// request is blocked, from another goroutine; Close may wait for that
// request to finish.
type Conn interface {
	ReadHoldingRegisters(address, quantity uint16) ([]uint16, error)
	WriteMultipleRegisters(address uint16, values []uint16) error
	Close() error
}

// Dialer opens a Conn. ONE attempt per call, bounded by ctx.
type Dialer func(ctx context.Context, cfg Config) (Conn, error)

// WithDefaultPort appends the Modbus port to a bare host.
func WithDefaultPort(address string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(address, DefaultPort)
}

// tcpConn is a Conn over goburrow's Modbus TCP handler.
type tcpConn struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// DialTCP connects to cfg.Address using Modbus TCP.
func DialTCP(ctx context.Context, cfg Config) (Conn, error) {
	if cfg.Address == "" {
		return nil, errors.New("transport: address required")
	}

	h := modbus.NewTCPClientHandler(WithDefaultPort(cfg.Address))
	h.SlaveId = cfg.UnitID
	// Transport expires idle connections; the handler must not reconnect behind it.
	h.IdleTimeout = 0

	// the handler applies Timeout to the dial and to every request deadline
	h.Timeout = cfg.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < h.Timeout {
			h.Timeout = left
		}
	}
	if h.Timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	if err := h.Connect(); err != nil {
		return nil, err
	}
	h.Timeout = cfg.Timeout

	return &tcpConn{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *tcpConn) ReadHoldingRegisters(address, quantity uint16) ([]uint16, error) {
	raw, err := c.client.ReadHoldingRegisters(address, quantity)
	if err != nil {
		return nil, err
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("modbus: odd register payload length %d", len(raw))
	}
	return unpackRegisters(raw), nil
}

func (c *tcpConn) WriteMultipleRegisters(address uint16, values []uint16) error {
	_, err := c.client.WriteMultipleRegisters(address, uint16(len(values)), packRegisters(values))
	return err
}

func (c *tcpConn) Close() error {
	return c.handler.Close()
}

// isDeviceException reports a Modbus exception reply: the device answered,
// so the connection itself is fine.
func isDeviceException(err error) bool {
	var me *modbus.ModbusError
	return errors.As(err, &me)
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
