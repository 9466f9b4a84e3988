// internal/codec/labels.go
package codec

// Label tables indexed by the raw bit fields of the status block.
// Order is device-defined.

var monitorStates = [...]string{
	"Warmup",
	"Monitoring",
	"Monitoring with alarms inhibited",
	"Monitoring with alarms and faults inhibited",
	"Monitoring every response inhibited",
	"Alarm or fault simulation",
	"Bump test mode",
	"4-20 mA loop calibration mode",
	"Non-analog calibration mode",
}

var faultStatuses = [...]string{
	"No fault",
	"Maintenance fault",
	"Instrument fault",
	"Maintenance and instrument faults",
}

// alarmLevels is indexed by low+high, so "high only" reads as "low".
var alarmLevels = [...]string{
	"none",
	"low",
	"high",
}

var concentrationUnits = [...]string{
	"ppm",
	"ppb",
	"% volume",
	"% LEL",
	"mA",
}

// Monitor state indices used by the command set.
const (
	MonitorWarmup                   = 0
	MonitorMonitoring               = 1
	MonitorAlarmsInhibited          = 2
	MonitorAlarmsAndFaultsInhibited = 3
)

// Unit indices.
const (
	UnitPPM = iota
	UnitPPB
	UnitVolume
	UnitLEL
	UnitMilliamp
)

// MonitorStateLabel returns the label for a monitor state index.
func MonitorStateLabel(i int) (string, bool) {
	if i < 0 || i >= len(monitorStates) {
		return "", false
	}
	return monitorStates[i], true
}

// UnitLabel returns the label for a unit index.
func UnitLabel(i int) (string, bool) {
	if i < 0 || i >= len(concentrationUnits) {
		return "", false
	}
	return concentrationUnits[i], true
}

// MonitorStateIndex is the inverse of MonitorStateLabel; -1 if unknown.
func MonitorStateIndex(label string) int {
	for i, s := range monitorStates {
		if s == label {
			return i
		}
	}
	return -1
}

// AlarmLevelIndex returns the position of an alarm label; -1 if unknown.
func AlarmLevelIndex(label string) int {
	for i, s := range alarmLevels {
		if s == label {
			return i
		}
	}
	return -1
}
