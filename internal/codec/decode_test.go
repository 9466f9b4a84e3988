// internal/codec/decode_test.go
package codec

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type stubFaults map[string]FaultText

func (s stubFaults) Lookup(code string) (FaultText, bool) {
	t, ok := s[code]
	return t, ok
}

// literalBlock is a hand-assembled block:
// Monitoring, instrument fault, low alarm, 2.5 ppm, fault 104, -5 C,
// 480 h of cell life, 500 cc/min, thresholds 0.1 / 0.2.
func literalBlock() []uint16 {
	return []uint16{
		0x0061,         // status: monitor=1, fault status=2, low alarm
		0x1234,         // gas id (skipped)
		0x0000, 0x4020, // 2.5 word-swapped
		0x0003,         // integer concentration (skipped)
		104,            // fault number
		0x010F,         // unit bit 0 in high byte, noise in low byte
		0xFFFB,         // -5
		480,            // cell life hours
		999,            // heartbeats (skipped)
		500,            // flow
		0x0000,         // reserved
		0xCCCD, 0x3DCC, // 0.1
		0xCCCD, 0x3E4C, // 0.2
	}
}

func TestDecode_LiteralBlock(t *testing.T) {
	faults := stubFaults{
		"F104": {Description: "Cartridge missing", Condition: "No cartridge", Recovery: "Install cartridge"},
	}

	got, err := Decode(literalBlock(), faults)
	require.NoError(t, err)

	want := State{
		State: "Monitoring",
		Fault: Fault{
			Status:      "Instrument fault",
			Code:        "F104",
			Description: "Cartridge missing",
			Condition:   "No cartridge",
			Recovery:    "Install cartridge",
		},
		Alarm:              "low",
		Concentration:      2.5,
		Units:              "ppm",
		Temperature:        -5,
		Life:               20,
		Flow:               500,
		LowAlarmThreshold:  0.1,
		HighAlarmThreshold: 0.2,
	}
	if !cmp.Equal(want, got) {
		t.Fatalf("decoded state mismatch: %s", cmp.Diff(want, got))
	}
}

func TestDecode_PPBLiteral(t *testing.T) {
	regs := literalBlock()
	regs[RegUnit] = 0x0200

	got, err := Decode(regs, nil)
	require.NoError(t, err)

	assert.Equal(t, "ppb", got.Units)
	assert.InDelta(t, 2500.0, got.Concentration, 1e-9)
	assert.InDelta(t, 100.0, got.LowAlarmThreshold, 1e-9)
	assert.InDelta(t, 200.0, got.HighAlarmThreshold, 1e-9)
	// no table: code only
	assert.Equal(t, Fault{Status: "Instrument fault", Code: "F104"}, got.Fault)
}

func TestDecode_PPBScalingProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := Frame{
			Status:        StatusWord(MonitorMonitoring, 0, false, false),
			Concentration: rapid.Float32Range(-1e6, 1e6).Draw(t, "concentration"),
			LowAlarm:      rapid.Float32Range(-1e6, 1e6).Draw(t, "low"),
			HighAlarm:     rapid.Float32Range(-1e6, 1e6).Draw(t, "high"),
		}

		f.Unit = UnitWord(UnitPPM)
		ppm, err := Decode(f.Registers(), nil)
		if err != nil {
			t.Fatalf("ppm decode: %v", err)
		}

		f.Unit = UnitWord(UnitPPB)
		ppb, err := Decode(f.Registers(), nil)
		if err != nil {
			t.Fatalf("ppb decode: %v", err)
		}

		if ppb.Concentration != ppm.Concentration*1000 {
			t.Fatalf("concentration: got=%v want=%v", ppb.Concentration, ppm.Concentration*1000)
		}
		if ppb.LowAlarmThreshold != ppm.LowAlarmThreshold*1000 {
			t.Fatalf("low threshold: got=%v want=%v", ppb.LowAlarmThreshold, ppm.LowAlarmThreshold*1000)
		}
		if ppb.HighAlarmThreshold != ppm.HighAlarmThreshold*1000 {
			t.Fatalf("high threshold: got=%v want=%v", ppb.HighAlarmThreshold, ppm.HighAlarmThreshold*1000)
		}
	})
}

func TestFaultCode_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint16Range(1, 29).Draw(t, "minor")
		if got, want := FaultCode(n), "m"+strconv.Itoa(int(n)); got != want {
			t.Fatalf("FaultCode(%d)=%q want %q", n, got, want)
		}
		n = rapid.Uint16Range(30, 65535).Draw(t, "major")
		if got, want := FaultCode(n), "F"+strconv.Itoa(int(n)); got != want {
			t.Fatalf("FaultCode(%d)=%q want %q", n, got, want)
		}
	})
}

func TestDecode_NoFaultNumberLeavesFaultTextEmpty(t *testing.T) {
	regs := literalBlock()
	regs[RegFaultNumber] = 0

	got, err := Decode(regs, stubFaults{"m0": {Description: "never"}})
	require.NoError(t, err)
	assert.Equal(t, Fault{Status: "Instrument fault"}, got.Fault)
}

func TestDecode_UnknownFaultCodeKeepsCode(t *testing.T) {
	regs := literalBlock()
	regs[RegFaultNumber] = 7

	got, err := Decode(regs, stubFaults{})
	require.NoError(t, err)
	assert.Equal(t, "m7", got.Fault.Code)
	assert.Empty(t, got.Fault.Description)
}

func TestDecode_AlarmLevelBySum(t *testing.T) {
	cases := []struct {
		low, high bool
		want      string
	}{
		{false, false, "none"},
		{false, true, "low"},
		{true, false, "low"},
		{true, true, "high"},
	}

	for _, tc := range cases {
		regs := literalBlock()
		regs[RegStatus] = StatusWord(MonitorMonitoring, 0, tc.low, tc.high)

		got, err := Decode(regs, nil)
		if err != nil {
			t.Fatalf("low=%v high=%v: %v", tc.low, tc.high, err)
		}
		if got.Alarm != tc.want {
			t.Fatalf("low=%v high=%v: alarm=%q want %q", tc.low, tc.high, got.Alarm, tc.want)
		}
	}
}

func TestDecode_MonitorStates(t *testing.T) {
	for i, label := range monitorStates {
		regs := literalBlock()
		regs[RegStatus] = StatusWord(i, 0, false, false)

		got, err := Decode(regs, nil)
		require.NoError(t, err)
		assert.Equal(t, label, got.State)
		assert.Equal(t, "No fault", got.Fault.Status)
	}
}

func TestDecode_Errors(t *testing.T) {
	short := literalBlock()[:15]

	noUnit := literalBlock()
	noUnit[RegUnit] = 0x00FF

	unitOutOfRange := literalBlock()
	unitOutOfRange[RegUnit] = UnitWord(6)

	badMonitor := literalBlock()
	badMonitor[RegStatus] = 0x000C

	for name, regs := range map[string][]uint16{
		"short":             short,
		"no unit bit":       noUnit,
		"unit out of range": unitOutOfRange,
		"bad monitor":       badMonitor,
	} {
		_, err := Decode(regs, nil)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: expected DecodeError, got %v", name, err)
		}
	}
}

func TestFrame_RoundTrip(t *testing.T) {
	f, err := ParseFrame(literalBlock())
	require.NoError(t, err)
	assert.Equal(t, literalBlock(), f.Registers())

	assert.Equal(t, MonitorMonitoring, f.MonitorState())
	assert.Equal(t, 2, f.FaultStatus())
	assert.True(t, f.LowAlarmActive())
	assert.False(t, f.HighAlarmActive())
	assert.Equal(t, [3]bool{}, f.Relays())
	assert.False(t, f.Heartbeat())
	assert.False(t, f.RemoteControl())
}

func TestState_JSONKeysSorted(t *testing.T) {
	st := State{
		Address: "10.0.0.5",
		Fault:   Fault{Status: "Instrument fault", Code: "F104", Description: "d", Condition: "c", Recovery: "r"},
	}
	raw, err := json.Marshal(st)
	require.NoError(t, err)
	out := string(raw)

	keys := []string{
		"alarm", "concentration", "connected", "fault", "flow", "high-alarm threshold",
		"ip", "life", "low-alarm threshold", "state", "temperature", "units",
	}
	faultKeys := []string{"code", "condition", "description", "recovery", "status"}
	require.True(t, sort.StringsAreSorted(keys))
	require.True(t, sort.StringsAreSorted(faultKeys))

	for _, group := range [][]string{keys, faultKeys} {
		last := -1
		for _, k := range group {
			i := strings.Index(out, strconv.Quote(k)+":")
			if i < 0 {
				t.Fatalf("key %q missing in %s", k, out)
			}
			if i < last {
				t.Fatalf("key %q out of order in %s", k, out)
			}
			last = i
		}
	}
}
