// internal/codec/command.go
package codec

import "fmt"

// Command is one of the detector's remote commands.
type Command int

const (
	ResetAlarmsAndFaults Command = iota + 1
	InhibitAlarms
	InhibitAlarmsAndFaults
	RemoveInhibit
)

// first payload word per command; the second word is always commandUnlock.
var commandCodes = map[Command]uint16{
	ResetAlarmsAndFaults:   0x015E,
	InhibitAlarms:          0x025E,
	InhibitAlarmsAndFaults: 0x035E,
	RemoveInhibit:          0x055E,
}

var commandNames = map[Command]string{
	ResetAlarmsAndFaults:   "reset",
	InhibitAlarms:          "inhibit-alarms",
	InhibitAlarmsAndFaults: "inhibit-alarms-and-faults",
	RemoveInhibit:          "remove-inhibit",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// EncodeCommand returns the two-word payload to write at CommandAddress.
func EncodeCommand(c Command) ([]uint16, error) {
	code, ok := commandCodes[c]
	if !ok {
		return nil, fmt.Errorf("codec: unknown command %d", int(c))
	}
	return []uint16{code, commandUnlock}, nil
}

// DecodeCommand recognises a command payload written at CommandAddress.
func DecodeCommand(payload []uint16) (Command, bool) {
	if len(payload) != 2 || payload[1] != commandUnlock {
		return 0, false
	}
	for c, code := range commandCodes {
		if code == payload[0] {
			return c, true
		}
	}
	return 0, false
}

// ParseCommand maps a command name (as printed by String) to a Command.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("codec: unknown command %q", name)
}

// CommandNames lists the accepted command names in command order.
func CommandNames() []string {
	return []string{
		ResetAlarmsAndFaults.String(),
		InhibitAlarms.String(),
		InhibitAlarmsAndFaults.String(),
		RemoveInhibit.String(),
	}
}
