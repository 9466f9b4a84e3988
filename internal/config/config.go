// internal/config/config.go
package config

import "time"

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Poll    PollConfig    `yaml:"poll"`
	Faults  FaultsConfig  `yaml:"faults"`
	Log     LogConfig     `yaml:"log"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Address     string        `yaml:"address"` // host or host:port
	UnitID      *uint8        `yaml:"unit_id"` // nil => 1
	Timeout     time.Duration `yaml:"timeout"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// ---- POLL ----

type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// ---- FAULTS ----

type FaultsConfig struct {
	File string `yaml:"file"` // optional CSV replacing the embedded table
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // console|json
}

// ---- MQTT (optional) ----

type MQTTConfig struct {
	Broker   string `yaml:"broker"` // empty disables MQTT
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Retain   bool   `yaml:"retain"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ---- METRICS (optional) ----

type MetricsConfig struct {
	Listen    string `yaml:"listen"` // empty disables the /metrics endpoint
	Namespace string `yaml:"namespace"`
}

// Enabled reports whether MQTT delivery is configured.
func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

// Enabled reports whether the metrics endpoint is configured.
func (m MetricsConfig) Enabled() bool { return m.Listen != "" }
