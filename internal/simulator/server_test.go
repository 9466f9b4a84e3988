// internal/simulator/server_test.go
package simulator

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/goburrow/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/midas/internal/codec"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func startServer(t *testing.T, unitID uint8) (*Server, string) {
	t.Helper()
	addr := freeAddr(t)
	srv, err := NewServer(Config{Listen: addr, UnitID: unitID}, NewBank(DefaultFrame()))
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Stop() })
	return srv, addr
}

func dial(t *testing.T, addr string, unitID byte) modbus.Client {
	t.Helper()
	h := modbus.NewTCPClientHandler(addr)
	h.SlaveId = unitID
	h.Timeout = 2 * time.Second
	require.NoError(t, h.Connect())
	t.Cleanup(func() { _ = h.Close() })
	return modbus.NewClient(h)
}

func TestServer_ReadAndCommand(t *testing.T) {
	srv, addr := startServer(t, 1)
	c := dial(t, addr, 1)

	raw, err := c.ReadHoldingRegisters(codec.BlockAddress, codec.BlockSize)
	require.NoError(t, err)
	require.Len(t, raw, 2*codec.BlockSize)

	// 0x025E 0x3626: inhibit alarms
	_, err = c.WriteMultipleRegisters(codec.CommandAddress, 2, []byte{0x02, 0x5E, 0x36, 0x26})
	require.NoError(t, err)
	assert.Equal(t, codec.MonitorAlarmsInhibited, srv.Bank().Frame().MonitorState())
}

func TestServer_UnknownCommandIsIllegalDataValue(t *testing.T) {
	_, addr := startServer(t, 0)
	c := dial(t, addr, 7)

	_, err := c.WriteMultipleRegisters(codec.CommandAddress, 2, []byte{0x09, 0x99, 0x36, 0x26})
	require.Error(t, err)

	var me *modbus.ModbusError
	require.True(t, errors.As(err, &me), "want modbus exception, got %v", err)
	assert.Equal(t, byte(modbus.ExceptionCodeIllegalDataValue), me.ExceptionCode)
}

func TestServer_UnsupportedFunction(t *testing.T) {
	_, addr := startServer(t, 0)
	c := dial(t, addr, 1)

	_, err := c.ReadCoils(0, 1)
	var me *modbus.ModbusError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, byte(modbus.ExceptionCodeIllegalFunction), me.ExceptionCode)
}

func TestNewServer_RequiresListen(t *testing.T) {
	_, err := NewServer(Config{}, NewBank(DefaultFrame()))
	assert.Error(t, err)
}
