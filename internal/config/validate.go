// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net"
)

var (
	logLevels  = map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"": true, "console": true, "json": true}
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	if cfg.Device.Address == "" {
		return errors.New("device.address is required")
	}
	if cfg.Device.Timeout < 0 {
		return fmt.Errorf("device.timeout must be >= 0, got %s", cfg.Device.Timeout)
	}
	if cfg.Device.IdleTimeout < 0 {
		return fmt.Errorf("device.idle_timeout must be >= 0, got %s", cfg.Device.IdleTimeout)
	}
	if cfg.Poll.Interval < 0 {
		return fmt.Errorf("poll.interval must be >= 0, got %s", cfg.Poll.Interval)
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if !logLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level %q is not one of trace|debug|info|warn|error", cfg.Log.Level)
	}
	if !logFormats[cfg.Log.Format] {
		return fmt.Errorf("log.format %q is not one of console|json", cfg.Log.Format)
	}

	// ------------------------------------------------------------
	// MQTT (opt-in)
	// ------------------------------------------------------------

	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", cfg.MQTT.QoS)
	}
	if !cfg.MQTT.Enabled() && (cfg.MQTT.Topic != "" || cfg.MQTT.Username != "") {
		return errors.New("mqtt settings given but mqtt.broker is empty")
	}

	// ------------------------------------------------------------
	// METRICS (opt-in)
	// ------------------------------------------------------------

	if cfg.Metrics.Enabled() {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Listen); err != nil {
			return fmt.Errorf("metrics.listen %q: %w", cfg.Metrics.Listen, err)
		}
	}

	return nil
}
