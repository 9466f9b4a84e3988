// internal/status/errcode.go
package status

import (
	"errors"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/midas/internal/codec"
	"github.com/tamzrod/midas/internal/transport"
)

// ErrorCode maps an error to a stable uint16 code without assuming the
// concrete wrapping. Errors that expose their own code win.
func ErrorCode(err error) uint16 {
	if err == nil {
		return CodeOK
	}

	type coder interface{ Code() uint16 }
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	var me *modbus.ModbusError
	var de *codec.DecodeError
	switch {
	case errors.As(err, &me):
		return CodeModbusException
	case errors.As(err, &de):
		return CodeDecode
	case transport.IsTimeout(err):
		return CodeTimeout
	case transport.IsConnection(err):
		return CodeConnection
	}
	return CodeGeneric
}
