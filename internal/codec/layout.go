// internal/codec/layout.go
package codec

// Midas register block layout.
// These values are fixed by the detector firmware and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// BlockAddress is the first holding register of the status block.
const BlockAddress = 0

// BlockSize is the number of registers in the status block.
const BlockSize = 16

// ---- REGISTER INDICES (0-based, register 4000N is index N-1) ----

const (
	RegStatus           = 0  // alarm/fault/monitor status bits
	RegGasID            = 1  // gas ID + cartridge ID (skipped)
	RegConcentration    = 2  // 32-bit float, 2 registers
	RegConcentrationInt = 4  // integer concentration (skipped)
	RegFaultNumber      = 5  // most important fault
	RegUnit             = 6  // unit bit in the high byte
	RegTemperature      = 7  // int16, Celsius
	RegCellLife         = 8  // hours remaining
	RegHeartbeats       = 9  // heartbeat count (skipped)
	RegFlowRate         = 10 // cc/min
	RegReserved         = 11 // blank
	RegLowAlarm         = 12 // 32-bit float, 2 registers
	RegHighAlarm        = 14 // 32-bit float, 2 registers
)

// ---- STATUS BITS (register 40001) ----

const (
	statusMonitorMask   = 0x000F
	statusFaultShift    = 4
	statusFaultMask     = 0x3
	statusLowAlarmBit   = 6
	statusHighAlarmBit  = 7
	statusRelayShift    = 8
	statusRelayMask     = 0x7
	statusHeartbeatBit  = 11
	statusRemoteCtrlBit = 12
)

// ---- COMMANDS ----

// CommandAddress is the holding register commands are written to.
const CommandAddress = 20

// commandUnlock is the second word of every command payload.
const commandUnlock uint16 = 0x3626

// ---- CONVERSIONS ----

// hoursPerDay converts cell life hours into days.
const hoursPerDay = 24.0

// ppbScale corrects ppm-reported values to ppb.
const ppbScale = 1000

// thresholdDecimals is the rounding applied to alarm thresholds.
const thresholdDecimals = 6
