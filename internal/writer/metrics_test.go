// internal/writer/metrics_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/midas/internal/mock"
	"github.com/tamzrod/midas/internal/poller"
	"github.com/tamzrod/midas/internal/status"
)

func TestMetricsWriter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsWriter(reg, "midas", "192.168.0.1")
	require.NoError(t, err)

	st := mock.DefaultState()
	st.Concentration = 1.5
	st.Alarm = "low"
	st.State = "Monitoring with alarms inhibited"
	require.NoError(t, m.Write(poller.PollResult{State: st}))

	assert.Equal(t, 1.5, testutil.ToFloat64(m.concentration.WithLabelValues("ppm")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.lowThreshold))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.highThreshold))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.temperature))
	assert.Equal(t, 482.0, testutil.ToFloat64(m.flow))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alarmLevel))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.monitorState))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.faultActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.connected))

	require.NoError(t, m.Write(poller.PollResult{Err: errors.New("down")}))
	require.NoError(t, m.Write(poller.PollResult{Err: errors.New("down")}))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pollErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.connected))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.concentration.WithLabelValues("ppm")), "last good value kept")

	require.NoError(t, m.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 2, SecondsInError: 9}))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.health))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lastErrorCode))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.secondsInError))
}

func TestMetricsWriter_DoubleRegisterFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetricsWriter(reg, "midas", "a")
	require.NoError(t, err)
	_, err = NewMetricsWriter(reg, "midas", "a")
	assert.Error(t, err)
}
