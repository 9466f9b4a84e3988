// internal/writer/metrics.go
package writer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/midas/internal/codec"
	"github.com/tamzrod/midas/internal/poller"
	"github.com/tamzrod/midas/internal/status"
)

// MetricsWriter exports the latest state as Prometheus gauges.
// Gauges keep their last good value while polls fail; health and the
// error counter show the outage.
type MetricsWriter struct {
	concentration *prometheus.GaugeVec
	lowThreshold  prometheus.Gauge
	highThreshold prometheus.Gauge
	temperature   prometheus.Gauge
	life          prometheus.Gauge
	flow          prometheus.Gauge
	alarmLevel    prometheus.Gauge
	monitorState  prometheus.Gauge
	faultActive   prometheus.Gauge
	connected     prometheus.Gauge

	health         prometheus.Gauge
	lastErrorCode  prometheus.Gauge
	secondsInError prometheus.Gauge
	pollErrors     prometheus.Counter
}

// NewMetricsWriter registers the collectors on reg. device labels every series.
func NewMetricsWriter(reg prometheus.Registerer, namespace, device string) (*MetricsWriter, error) {
	labels := prometheus.Labels{"device": device}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: labels,
		})
	}

	m := &MetricsWriter{
		concentration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "concentration", Help: "Gas concentration in the reported units.", ConstLabels: labels,
		}, []string{"units"}),
		lowThreshold:   gauge("low_alarm_threshold", "Low alarm threshold in the reported units."),
		highThreshold:  gauge("high_alarm_threshold", "High alarm threshold in the reported units."),
		temperature:    gauge("temperature_celsius", "Detector temperature (C)."),
		life:           gauge("cell_life_days", "Remaining sensor cartridge life (days)."),
		flow:           gauge("flow_rate_cc_per_minute", "Sample flow rate (cc/min)."),
		alarmLevel:     gauge("alarm_level", "Alarm level: 0 none, 1 low, 2 high."),
		monitorState:   gauge("monitor_state", "Monitor state index."),
		faultActive:    gauge("fault_active", "1 when a fault code is reported."),
		connected:      gauge("connected", "1 when the last poll succeeded."),
		health:         gauge("health", "Link health: 0 unknown, 1 ok, 2 error."),
		lastErrorCode:  gauge("last_error_code", "Last poll error code, 0 when healthy."),
		secondsInError: gauge("seconds_in_error", "Seconds since the link left OK."),
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "poll_errors_total", Help: "Failed polls.", ConstLabels: labels,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.concentration, m.lowThreshold, m.highThreshold, m.temperature, m.life,
		m.flow, m.alarmLevel, m.monitorState, m.faultActive, m.connected,
		m.health, m.lastErrorCode, m.secondsInError, m.pollErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsWriter) Write(res poller.PollResult) error {
	if res.Err != nil {
		m.pollErrors.Inc()
		m.connected.Set(0)
		return nil
	}

	s := res.State
	m.concentration.Reset()
	m.concentration.WithLabelValues(s.Units).Set(s.Concentration)
	m.lowThreshold.Set(s.LowAlarmThreshold)
	m.highThreshold.Set(s.HighAlarmThreshold)
	m.temperature.Set(float64(s.Temperature))
	m.life.Set(s.Life)
	m.flow.Set(float64(s.Flow))
	m.alarmLevel.Set(float64(codec.AlarmLevelIndex(s.Alarm)))
	m.monitorState.Set(float64(codec.MonitorStateIndex(s.State)))
	if s.Fault.Code != "" {
		m.faultActive.Set(1)
	} else {
		m.faultActive.Set(0)
	}
	m.connected.Set(1)
	return nil
}

func (m *MetricsWriter) WriteStatus(s status.Snapshot) error {
	m.health.Set(float64(s.Health))
	m.lastErrorCode.Set(float64(s.LastErrorCode))
	m.secondsInError.Set(float64(s.SecondsInError))
	return nil
}
