// internal/writer/mqtt.go
package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/tamzrod/midas/internal/poller"
	"github.com/tamzrod/midas/internal/status"
)

// MQTTConfig is what the MQTT writer needs.
type MQTTConfig struct {
	Broker   string // tcp://host:1883
	ClientID string
	Username string
	Password string

	Topic  string // prefix; state goes to <Topic>/state, health to <Topic>/status
	QoS    byte
	Retain bool

	PublishTimeout time.Duration
	Logger         *zerolog.Logger
}

// statusPayload is the JSON published on <Topic>/status.
type statusPayload struct {
	Health         string `json:"health"`
	LastErrorCode  uint16 `json:"last_error_code"`
	SecondsInError uint16 `json:"seconds_in_error"`
}

// MQTTWriter publishes decoded states and link health.
type MQTTWriter struct {
	cfg    MQTTConfig
	client paho.Client
	log    zerolog.Logger
}

// NewMQTTClient builds a paho client from cfg. It does not connect.
func NewMQTTClient(cfg MQTTConfig) paho.Client {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	willTopic := cfg.Topic + "/status"

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetWill(willTopic, `{"health":"UNKNOWN"}`, cfg.QoS, true)

	opts.SetOnConnectHandler(func(paho.Client) {
		log.Info().Str("broker", cfg.Broker).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn().Err(err).Msg("mqtt connection lost")
	})

	return paho.NewClient(opts)
}

// NewMQTTWriter wraps an existing client.
func NewMQTTWriter(cfg MQTTConfig, client paho.Client) (*MQTTWriter, error) {
	if client == nil {
		return nil, errors.New("mqtt writer: client required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("mqtt writer: topic required")
	}
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("mqtt writer: qos %d out of range", cfg.QoS)
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &MQTTWriter{
		cfg:    cfg,
		client: client,
		log:    log.With().Str("component", "mqtt").Logger(),
	}, nil
}

// Connect performs one connect attempt bounded by the publish timeout.
func (w *MQTTWriter) Connect() error {
	tok := w.client.Connect()
	if !tok.WaitTimeout(w.cfg.PublishTimeout) {
		return errors.New("mqtt writer: connect timeout")
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt writer: connect: %w", err)
	}
	return nil
}

// Close disconnects, allowing in-flight publishes 250ms to drain.
func (w *MQTTWriter) Close() {
	w.client.Disconnect(250)
}

// Write publishes the decoded state. Failed polls publish the
// disconnected state so subscribers see the link drop.
func (w *MQTTWriter) Write(res poller.PollResult) error {
	st := res.State
	if res.Err != nil {
		st.Connected = false
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("mqtt writer: encode state: %w", err)
	}
	return w.publish(w.cfg.Topic+"/state", payload)
}

// WriteStatus publishes link health.
func (w *MQTTWriter) WriteStatus(s status.Snapshot) error {
	payload, err := json.Marshal(statusPayload{
		Health:         s.HealthLabel(),
		LastErrorCode:  s.LastErrorCode,
		SecondsInError: s.SecondsInError,
	})
	if err != nil {
		return fmt.Errorf("mqtt writer: encode status: %w", err)
	}
	return w.publish(w.cfg.Topic+"/status", payload)
}

func (w *MQTTWriter) publish(topic string, payload []byte) error {
	if !w.client.IsConnected() {
		return fmt.Errorf("mqtt writer: %s: not connected", topic)
	}

	tok := w.client.Publish(topic, w.cfg.QoS, w.cfg.Retain, payload)
	if !tok.WaitTimeout(w.cfg.PublishTimeout) {
		return fmt.Errorf("mqtt writer: %s: publish timeout", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt writer: %s: %w", topic, err)
	}
	w.log.Trace().Str("topic", topic).Int("bytes", len(payload)).Msg("published")
	return nil
}
