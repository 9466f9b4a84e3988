// internal/device/device.go
package device

import (
	"context"
	"fmt"

	"github.com/tamzrod/midas/internal/codec"
)

// Detector is the public surface of a Midas gas detector.
type Detector interface {
	Get(ctx context.Context) (codec.State, error)
	ResetAlarmsAndFaults(ctx context.Context) error
	InhibitAlarms(ctx context.Context) error
	InhibitAlarmsAndFaults(ctx context.Context) error
	RemoveInhibit(ctx context.Context) error
	Close() error
}

// Registers is the register-exchange capability a Device needs.
// *transport.Transport implements it.
type Registers interface {
	Address() string
	ReadRegisters(ctx context.Context, address uint16, count int) ([]uint16, error)
	WriteRegisters(ctx context.Context, address uint16, values []uint16) error
	Close() error
}

// Device composes a transport with the register codec.
// Every call is one exclusive exchange on the underlying transport.
type Device struct {
	regs   Registers
	faults codec.FaultLookup
}

var _ Detector = (*Device)(nil)

// New returns a Device over regs. faults may be nil.
func New(regs Registers, faults codec.FaultLookup) *Device {
	return &Device{regs: regs, faults: faults}
}

// Address returns the device address the transport was built with.
func (d *Device) Address() string { return d.regs.Address() }

// Get reads the status block and decodes it.
func (d *Device) Get(ctx context.Context) (codec.State, error) {
	regs, err := d.regs.ReadRegisters(ctx, codec.BlockAddress, codec.BlockSize)
	if err != nil {
		return codec.State{}, err
	}

	st, err := codec.Decode(regs, d.faults)
	if err != nil {
		return codec.State{}, fmt.Errorf("device %s: %w", d.regs.Address(), err)
	}
	st.Address = d.regs.Address()
	st.Connected = true
	return st, nil
}

// ResetAlarmsAndFaults clears latched alarms and faults.
func (d *Device) ResetAlarmsAndFaults(ctx context.Context) error {
	return d.Command(ctx, codec.ResetAlarmsAndFaults)
}

// InhibitAlarms suppresses alarm outputs.
func (d *Device) InhibitAlarms(ctx context.Context) error {
	return d.Command(ctx, codec.InhibitAlarms)
}

// InhibitAlarmsAndFaults suppresses alarm and fault outputs.
func (d *Device) InhibitAlarmsAndFaults(ctx context.Context) error {
	return d.Command(ctx, codec.InhibitAlarmsAndFaults)
}

// RemoveInhibit returns the detector to normal monitoring.
func (d *Device) RemoveInhibit(ctx context.Context) error {
	return d.Command(ctx, codec.RemoveInhibit)
}

// Command writes one remote command.
func (d *Device) Command(ctx context.Context, c codec.Command) error {
	payload, err := codec.EncodeCommand(c)
	if err != nil {
		return err
	}
	return d.regs.WriteRegisters(ctx, codec.CommandAddress, payload)
}

// Close releases the transport.
func (d *Device) Close() error { return d.regs.Close() }
