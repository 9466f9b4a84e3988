// internal/simulator/bank.go
package simulator

import (
	"sync"

	mbserver "github.com/simonvetter/modbus"

	"github.com/tamzrod/midas/internal/codec"
)

// Bank is the register space of one simulated detector.
// It answers reads of the status block and applies command writes.
// Bank satisfies transport.Conn so it can stand in for a real device.
type Bank struct {
	mu     sync.Mutex
	frame  codec.Frame
	writes []codec.Command
}

// DefaultFrame is a healthy detector monitoring in ppm with no gas present.
func DefaultFrame() codec.Frame {
	return codec.Frame{
		Status:        codec.StatusWord(codec.MonitorMonitoring, 0, false, false),
		Unit:          codec.UnitWord(codec.UnitPPM),
		Temperature:   30,
		CellLifeHours: 13346,
		FlowRate:      482,
		LowAlarm:      5,
		HighAlarm:     8,
	}
}

// NewBank returns a bank holding f.
func NewBank(f codec.Frame) *Bank {
	return &Bank{frame: f}
}

// Frame returns the current block content.
func (b *Bank) Frame() codec.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame
}

// SetFrame replaces the block content.
func (b *Bank) SetFrame(f codec.Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame = f
}

// Update mutates the block under the bank lock.
func (b *Bank) Update(fn func(*codec.Frame)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.frame)
}

// Commands returns the commands applied so far, oldest first.
func (b *Bank) Commands() []codec.Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]codec.Command(nil), b.writes...)
}

// Tick advances the heartbeat counter.
func (b *Bank) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame.Heartbeats++
}

// ---- register access ----

// ReadHoldingRegisters serves reads inside the status block.
func (b *Bank) ReadHoldingRegisters(address, quantity uint16) ([]uint16, error) {
	if quantity == 0 || int(address)+int(quantity) > codec.BlockAddress+codec.BlockSize {
		return nil, mbserver.ErrIllegalDataAddress
	}

	b.mu.Lock()
	regs := b.frame.Registers()
	b.mu.Unlock()

	start := int(address) - codec.BlockAddress
	return regs[start : start+int(quantity)], nil
}

// WriteMultipleRegisters accepts only command payloads at codec.CommandAddress.
func (b *Bank) WriteMultipleRegisters(address uint16, values []uint16) error {
	if address != codec.CommandAddress {
		return mbserver.ErrIllegalDataAddress
	}
	cmd, ok := codec.DecodeCommand(values)
	if !ok {
		return mbserver.ErrIllegalDataValue
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	apply(&b.frame, cmd)
	b.writes = append(b.writes, cmd)
	return nil
}

// Close is a no-op; the bank outlives any connection to it.
func (b *Bank) Close() error { return nil }

// apply changes the frame the way the detector does on a command.
func apply(f *codec.Frame, cmd codec.Command) {
	monitor := f.MonitorState()
	fault := f.FaultStatus()
	low, high := f.LowAlarmActive(), f.HighAlarmActive()

	switch cmd {
	case codec.ResetAlarmsAndFaults:
		low, high = false, false
		fault = 0
		f.FaultNumber = 0
	case codec.InhibitAlarms:
		monitor = codec.MonitorAlarmsInhibited
	case codec.InhibitAlarmsAndFaults:
		monitor = codec.MonitorAlarmsAndFaultsInhibited
	case codec.RemoveInhibit:
		monitor = codec.MonitorMonitoring
	}

	f.Status = f.Status&0xFF00 | codec.StatusWord(monitor, fault, low, high)
}
