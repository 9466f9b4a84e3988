// internal/status/constants.go
package status

// Health and error codes. These values are published to MQTT and
// Prometheus and MUST NOT be configurable.

// ---- HEALTH CODES ----

// HealthUnknown represents the state before the first poll.
const HealthUnknown uint16 = 0

// HealthOK represents a detector answering with a decodable block.
const HealthOK uint16 = 1

// HealthError represents a failed poll.
const HealthError uint16 = 2

// ---- ERROR CODES ----

// CodeOK means no error.
const CodeOK uint16 = 0

// CodeGeneric is any error without a more specific kind.
const CodeGeneric uint16 = 1

// CodeConnection is a connect failure or broken link.
const CodeConnection uint16 = 2

// CodeTimeout is an exchange that exceeded its deadline.
const CodeTimeout uint16 = 3

// CodeDecode is a malformed register block.
const CodeDecode uint16 = 4

// CodeModbusException is an exception reply from the detector.
const CodeModbusException uint16 = 5

// ---- LIMITS ----

// MaxSecondsInError is where seconds_in_error saturates.
const MaxSecondsInError uint16 = 65535

// HealthLabel names a health code.
func HealthLabel(h uint16) string {
	switch h {
	case HealthOK:
		return "OK"
	case HealthError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
