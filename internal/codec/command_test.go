// internal/codec/command_test.go
package codec

import "testing"

func TestEncodeCommand_Payloads(t *testing.T) {
	cases := []struct {
		cmd  Command
		want [2]uint16
	}{
		{ResetAlarmsAndFaults, [2]uint16{0x015E, 0x3626}},
		{InhibitAlarms, [2]uint16{0x025E, 0x3626}},
		{InhibitAlarmsAndFaults, [2]uint16{0x035E, 0x3626}},
		{RemoveInhibit, [2]uint16{0x055E, 0x3626}},
	}

	for _, tc := range cases {
		got, err := EncodeCommand(tc.cmd)
		if err != nil {
			t.Fatalf("%s: %v", tc.cmd, err)
		}
		if len(got) != 2 || got[0] != tc.want[0] || got[1] != tc.want[1] {
			t.Fatalf("%s: got=%#04x want=%#04x", tc.cmd, got, tc.want)
		}

		back, ok := DecodeCommand(got)
		if !ok || back != tc.cmd {
			t.Fatalf("%s: DecodeCommand=%v,%v", tc.cmd, back, ok)
		}
	}
}

func TestEncodeCommand_Unknown(t *testing.T) {
	if _, err := EncodeCommand(Command(99)); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestDecodeCommand_RejectsBadUnlock(t *testing.T) {
	if _, ok := DecodeCommand([]uint16{0x025E, 0x0000}); ok {
		t.Fatalf("payload without unlock word accepted")
	}
	if _, ok := DecodeCommand([]uint16{0x025E}); ok {
		t.Fatalf("short payload accepted")
	}
}

func TestParseCommand_Names(t *testing.T) {
	for _, name := range CommandNames() {
		c, err := ParseCommand(name)
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", name, err)
		}
		if c.String() != name {
			t.Fatalf("ParseCommand(%q) = %s", name, c)
		}
	}
	if _, err := ParseCommand("explode"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}
