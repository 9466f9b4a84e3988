// internal/codec/frame.go
package codec

import (
	"math"
	"math/bits"
)

// Frame is the raw content of the 16-register status block.
// Geometry only: no labels, no scaling.
type Frame struct {
	Status           uint16 // register 40001
	GasID            uint16 // register 40002
	Concentration    float32
	ConcentrationInt uint16
	FaultNumber      uint16
	Unit             uint16 // register 40007, unit bit lives in the high byte
	Temperature      int16
	CellLifeHours    uint16
	Heartbeats       uint16
	FlowRate         uint16
	Reserved         uint16
	LowAlarm         float32
	HighAlarm        float32
}

// ParseFrame splits a raw block into its fields.
// It fails only on a wrong block length.
func ParseFrame(regs []uint16) (Frame, error) {
	if len(regs) != BlockSize {
		return Frame{}, decodeErrorf(-1, "expected %d registers, got %d", BlockSize, len(regs))
	}
	return Frame{
		Status:           regs[RegStatus],
		GasID:            regs[RegGasID],
		Concentration:    float32At(regs, RegConcentration),
		ConcentrationInt: regs[RegConcentrationInt],
		FaultNumber:      regs[RegFaultNumber],
		Unit:             regs[RegUnit],
		Temperature:      int16(regs[RegTemperature]),
		CellLifeHours:    regs[RegCellLife],
		Heartbeats:       regs[RegHeartbeats],
		FlowRate:         regs[RegFlowRate],
		Reserved:         regs[RegReserved],
		LowAlarm:         float32At(regs, RegLowAlarm),
		HighAlarm:        float32At(regs, RegHighAlarm),
	}, nil
}

// Registers packs the frame back into a 16-register block.
func (f Frame) Registers() []uint16 {
	regs := make([]uint16, BlockSize)

	regs[RegStatus] = f.Status
	regs[RegGasID] = f.GasID
	putFloat32(regs, RegConcentration, f.Concentration)
	regs[RegConcentrationInt] = f.ConcentrationInt
	regs[RegFaultNumber] = f.FaultNumber
	regs[RegUnit] = f.Unit
	regs[RegTemperature] = uint16(f.Temperature)
	regs[RegCellLife] = f.CellLifeHours
	regs[RegHeartbeats] = f.Heartbeats
	regs[RegFlowRate] = f.FlowRate
	regs[RegReserved] = f.Reserved
	putFloat32(regs, RegLowAlarm, f.LowAlarm)
	putFloat32(regs, RegHighAlarm, f.HighAlarm)

	return regs
}

// ---- status word ----

// MonitorState is the 4-bit monitor state index.
func (f Frame) MonitorState() int { return int(f.Status & statusMonitorMask) }

// FaultStatus is the 2-bit fault status index.
func (f Frame) FaultStatus() int { return int(f.Status>>statusFaultShift) & statusFaultMask }

// LowAlarmActive reports bit 6.
func (f Frame) LowAlarmActive() bool { return f.Status&(1<<statusLowAlarmBit) != 0 }

// HighAlarmActive reports bit 7.
func (f Frame) HighAlarmActive() bool { return f.Status&(1<<statusHighAlarmBit) != 0 }

// Relays returns the energized flags of relays 1-3.
func (f Frame) Relays() [3]bool {
	r := (f.Status >> statusRelayShift) & statusRelayMask
	return [3]bool{r&1 != 0, r&2 != 0, r&4 != 0}
}

// Heartbeat reports the toggling heartbeat bit.
func (f Frame) Heartbeat() bool { return f.Status&(1<<statusHeartbeatBit) != 0 }

// RemoteControl reports whether relays are under Modbus control.
func (f Frame) RemoteControl() bool { return f.Status&(1<<statusRemoteCtrlBit) != 0 }

// UnitIndex returns the position of the lowest set bit of the unit byte.
// ok is false when no bit is set.
func (f Frame) UnitIndex() (int, bool) {
	b := uint8(f.Unit >> 8)
	if b == 0 {
		return 0, false
	}
	return bits.TrailingZeros8(b), true
}

// StatusWord assembles register 40001 from its fields.
func StatusWord(monitor, faultStatus int, low, high bool) uint16 {
	w := uint16(monitor)&statusMonitorMask | (uint16(faultStatus)&statusFaultMask)<<statusFaultShift
	if low {
		w |= 1 << statusLowAlarmBit
	}
	if high {
		w |= 1 << statusHighAlarmBit
	}
	return w
}

// UnitWord assembles register 40007 for a unit index.
func UnitWord(unit int) uint16 {
	return uint16(1<<uint(unit)) << 8
}

// ---- word-swapped 32-bit values ----

// float32At reads a float spread over regs[i] (low word) and regs[i+1] (high word).
func float32At(regs []uint16, i int) float32 {
	return math.Float32frombits(uint32(regs[i+1])<<16 | uint32(regs[i]))
}

func putFloat32(regs []uint16, i int, v float32) {
	b := math.Float32bits(v)
	regs[i] = uint16(b)
	regs[i+1] = uint16(b >> 16)
}
