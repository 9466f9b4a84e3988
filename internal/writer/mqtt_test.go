// internal/writer/mqtt_test.go
package writer

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/midas/internal/codec"
	"github.com/tamzrod/midas/internal/mock"
	"github.com/tamzrod/midas/internal/poller"
	"github.com/tamzrod/midas/internal/status"
)

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeMQTT overrides the calls the writer makes; anything else panics.
type fakeMQTT struct {
	paho.Client
	connected bool
	err       error
	sent      []published
}

func (f *fakeMQTT) IsConnected() bool { return f.connected }

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	f.sent = append(f.sent, published{topic, qos, retained, payload.([]byte)})
	return doneToken{err: f.err}
}

func TestMQTTWriter_PublishesState(t *testing.T) {
	cli := &fakeMQTT{connected: true}
	w, err := NewMQTTWriter(MQTTConfig{Topic: "lab/midas1", QoS: 1, Retain: true}, cli)
	require.NoError(t, err)

	require.NoError(t, w.Write(poller.PollResult{State: mock.DefaultState()}))
	require.Len(t, cli.sent, 1)

	msg := cli.sent[0]
	assert.Equal(t, "lab/midas1/state", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var got codec.State
	require.NoError(t, json.Unmarshal(msg.payload, &got))
	assert.Equal(t, mock.DefaultState(), got)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.payload, &raw))
	assert.Contains(t, raw, "low-alarm threshold")
	assert.Contains(t, raw, "ip")
}

func TestMQTTWriter_FailedPollPublishesDisconnected(t *testing.T) {
	cli := &fakeMQTT{connected: true}
	w, err := NewMQTTWriter(MQTTConfig{Topic: "m"}, cli)
	require.NoError(t, err)

	res := poller.PollResult{Err: errors.New("down"), State: codec.State{Address: "10.0.0.9"}}
	require.NoError(t, w.Write(res))

	var got codec.State
	require.NoError(t, json.Unmarshal(cli.sent[0].payload, &got))
	assert.False(t, got.Connected)
	assert.Equal(t, "10.0.0.9", got.Address)
}

func TestMQTTWriter_Status(t *testing.T) {
	cli := &fakeMQTT{connected: true}
	w, err := NewMQTTWriter(MQTTConfig{Topic: "m"}, cli)
	require.NoError(t, err)

	require.NoError(t, w.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: status.CodeTimeout, SecondsInError: 7}))
	require.Len(t, cli.sent, 1)
	assert.Equal(t, "m/status", cli.sent[0].topic)
	assert.JSONEq(t, `{"health":"ERROR","last_error_code":3,"seconds_in_error":7}`, string(cli.sent[0].payload))
}

func TestMQTTWriter_Errors(t *testing.T) {
	_, err := NewMQTTWriter(MQTTConfig{}, &fakeMQTT{})
	assert.Error(t, err)
	_, err = NewMQTTWriter(MQTTConfig{Topic: "m", QoS: 3}, &fakeMQTT{})
	assert.Error(t, err)

	w, err := NewMQTTWriter(MQTTConfig{Topic: "m"}, &fakeMQTT{})
	require.NoError(t, err)
	assert.Error(t, w.Write(poller.PollResult{}), "not connected")

	broken := &fakeMQTT{connected: true, err: errors.New("broker said no")}
	w, err = NewMQTTWriter(MQTTConfig{Topic: "m"}, broken)
	require.NoError(t, err)
	assert.ErrorContains(t, w.Write(poller.PollResult{}), "broker said no")
}
