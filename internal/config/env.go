// internal/config/env.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment overrides. Set variables win over file values.
const (
	EnvAddress       = "MIDAS_ADDRESS"
	EnvTimeout       = "MIDAS_TIMEOUT"
	EnvLogLevel      = "MIDAS_LOG_LEVEL"
	EnvMQTTBroker    = "MIDAS_MQTT_BROKER"
	EnvMetricsListen = "MIDAS_METRICS_LISTEN"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without replacing variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg from MIDAS_* variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvAddress); v != "" {
		cfg.Device.Address = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvTimeout, v, err)
		}
		cfg.Device.Timeout = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvMQTTBroker); v != "" {
		cfg.MQTT.Broker = v
	}
	if v := os.Getenv(EnvMetricsListen); v != "" {
		cfg.Metrics.Listen = v
	}
	return nil
}
