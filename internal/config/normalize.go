// internal/config/normalize.go
package config

import (
	"strings"
	"time"

	"github.com/tamzrod/midas/internal/transport"
)

// Defaults.
const (
	DefaultUnitID      uint8 = 1
	DefaultTimeout           = time.Second
	DefaultIdleTimeout       = 60 * time.Second
	DefaultInterval          = time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultTopic             = "midas"
	DefaultNamespace         = "midas"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device
	d.Address = transport.WithDefaultPort(d.Address)
	if d.UnitID == nil {
		id := DefaultUnitID
		d.UnitID = &id
	}
	if d.Timeout == 0 {
		d.Timeout = DefaultTimeout
	}
	if d.IdleTimeout == 0 {
		d.IdleTimeout = DefaultIdleTimeout
	}

	if cfg.Poll.Interval == 0 {
		cfg.Poll.Interval = DefaultInterval
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if m := &cfg.MQTT; m.Enabled() {
		if !strings.Contains(m.Broker, "://") {
			m.Broker = "tcp://" + m.Broker
		}
		if m.Topic == "" {
			m.Topic = DefaultTopic
		}
		m.Topic = strings.TrimSuffix(m.Topic, "/")
		if m.ClientID == "" {
			m.ClientID = "midas-" + d.Address
		}
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
}

// UnitIDOrDefault returns the unit id, DefaultUnitID when unset.
func (d DeviceConfig) UnitIDOrDefault() uint8 {
	if d.UnitID == nil {
		return DefaultUnitID
	}
	return *d.UnitID
}
