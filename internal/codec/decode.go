// internal/codec/decode.go
package codec

import (
	"math"
	"strconv"
)

// Fault is the fault part of a decoded state.
// Code and the text fields are set only when the device reports a fault number.
// Fields are in JSON key order.
type Fault struct {
	Code        string `json:"code,omitempty"`
	Condition   string `json:"condition,omitempty"`
	Description string `json:"description,omitempty"`
	Recovery    string `json:"recovery,omitempty"`
	Status      string `json:"status"`
}

// State is one decoded snapshot of the detector.
// Concentration and thresholds are expressed in Units.
// Fields are in JSON key order so encoded output has sorted keys.
type State struct {
	Alarm              string  `json:"alarm"`
	Concentration      float64 `json:"concentration"`
	Connected          bool    `json:"connected"`
	Fault              Fault   `json:"fault"`
	Flow               uint16  `json:"flow"`
	HighAlarmThreshold float64 `json:"high-alarm threshold"`
	Address            string  `json:"ip"`
	Life               float64 `json:"life"`
	LowAlarmThreshold  float64 `json:"low-alarm threshold"`
	State              string  `json:"state"`
	Temperature        int16   `json:"temperature"`
	Units              string  `json:"units"`
}

// FaultText is the human-readable part of a fault record.
type FaultText struct {
	Description string
	Condition   string
	Recovery    string
}

// FaultLookup resolves a fault code such as "m12" or "F104".
type FaultLookup interface {
	Lookup(code string) (FaultText, bool)
}

// FaultCode formats a raw fault number: "m"+n below 30, "F"+n otherwise.
// Zero means no fault and yields "".
func FaultCode(number uint16) string {
	switch {
	case number == 0:
		return ""
	case number < 30:
		return "m" + strconv.Itoa(int(number))
	default:
		return "F" + strconv.Itoa(int(number))
	}
}

// Decode turns a raw 16-register block into a State.
// faults may be nil, in which case only the fault code is attached.
// Address and Connected are left for the caller.
func Decode(regs []uint16, faults FaultLookup) (State, error) {
	f, err := ParseFrame(regs)
	if err != nil {
		return State{}, err
	}
	return f.State(faults)
}

// State interprets the frame.
func (f Frame) State(faults FaultLookup) (State, error) {
	var s State

	monitor, ok := MonitorStateLabel(f.MonitorState())
	if !ok {
		return State{}, decodeErrorf(RegStatus, "monitor state %d out of range", f.MonitorState())
	}
	s.State = monitor
	s.Fault.Status = faultStatuses[f.FaultStatus()]

	// Index by sum: "low only" and "high only" both read "low".
	level := 0
	if f.LowAlarmActive() {
		level++
	}
	if f.HighAlarmActive() {
		level++
	}
	s.Alarm = alarmLevels[level]

	s.Concentration = float64(f.Concentration)

	if code := FaultCode(f.FaultNumber); code != "" {
		s.Fault.Code = code
		if faults != nil {
			if txt, ok := faults.Lookup(code); ok {
				s.Fault.Description = txt.Description
				s.Fault.Condition = txt.Condition
				s.Fault.Recovery = txt.Recovery
			}
		}
	}

	unit, ok := f.UnitIndex()
	if !ok {
		return State{}, decodeErrorf(RegUnit, "no unit bit set (0x%04x)", f.Unit)
	}
	s.Units, ok = UnitLabel(unit)
	if !ok {
		return State{}, decodeErrorf(RegUnit, "unit bit %d out of range", unit)
	}

	s.Temperature = f.Temperature
	s.Life = float64(f.CellLifeHours) / hoursPerDay
	s.Flow = f.FlowRate
	s.LowAlarmThreshold = round(float64(f.LowAlarm), thresholdDecimals)
	s.HighAlarmThreshold = round(float64(f.HighAlarm), thresholdDecimals)

	// The device reports everything in ppm regardless of the configured unit.
	if unit == UnitPPB {
		s.Concentration *= ppbScale
		s.LowAlarmThreshold *= ppbScale
		s.HighAlarmThreshold *= ppbScale
	}

	return s, nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
