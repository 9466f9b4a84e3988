// cmd/midas/options.go
package main

import (
	"time"

	"github.com/tamzrod/midas/internal/config"
)

type options struct {
	Config  string `short:"c" long:"config" description:"YAML config file"`
	EnvFile string `long:"env-file" default:".env" description:"dotenv file with MIDAS_* overrides"`

	Stream  bool   `short:"s" long:"stream" description:"Sends a constant stream of detector data, formatted as a tab-separated table"`
	Command string `long:"command" choice:"reset" choice:"inhibit-alarms" choice:"inhibit-alarms-and-faults" choice:"remove-inhibit" description:"Send a command, then print the state"`

	UnitID   *uint8        `long:"unit-id" description:"Modbus unit id (default 1)"`
	Timeout  time.Duration `short:"t" long:"timeout" description:"Connect and per-request timeout (default 1s)"`
	Interval time.Duration `short:"i" long:"interval" description:"Stream poll interval (default 1s)"`
	Faults   string        `long:"faults" description:"fault text CSV (code,description,condition,recovery); without it only fault codes are reported"`

	LogLevel  string `long:"log-level" description:"trace|debug|info|warn|error"`
	LogFormat string `long:"log-format" description:"console|json"`

	MQTTBroker    string `long:"mqtt-broker" description:"Publish stream results to this MQTT broker"`
	MQTTTopic     string `long:"mqtt-topic" description:"MQTT topic prefix"`
	MetricsListen string `long:"metrics-listen" description:"Serve Prometheus metrics on host:port while streaming"`

	Args struct {
		Address string `positional-arg-name:"address" description:"The IP address of the gas detector"`
	} `positional-args:"yes"`
}

// apply overrides cfg with every flag that was set.
func (o *options) apply(cfg *config.Config) {
	if o.Args.Address != "" {
		cfg.Device.Address = o.Args.Address
	}
	if o.UnitID != nil {
		id := *o.UnitID
		cfg.Device.UnitID = &id
	}
	if o.Timeout != 0 {
		cfg.Device.Timeout = o.Timeout
	}
	if o.Interval != 0 {
		cfg.Poll.Interval = o.Interval
	}
	if o.Faults != "" {
		cfg.Faults.File = o.Faults
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	if o.MQTTBroker != "" {
		cfg.MQTT.Broker = o.MQTTBroker
	}
	if o.MQTTTopic != "" {
		cfg.MQTT.Topic = o.MQTTTopic
	}
	if o.MetricsListen != "" {
		cfg.Metrics.Listen = o.MetricsListen
	}
}

// loadConfig layers file, env file, environment and flags, then validates
// and normalizes.
func (o *options) loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(o.EnvFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	o.apply(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}
