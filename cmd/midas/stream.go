// cmd/midas/stream.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tamzrod/midas/internal/config"
	"github.com/tamzrod/midas/internal/device"
	"github.com/tamzrod/midas/internal/poller"
	"github.com/tamzrod/midas/internal/status"
	"github.com/tamzrod/midas/internal/writer"
)

// stream polls until ctx is done, delivering every result to the table on
// stdout and to the optional MQTT and metrics writers.
func stream(ctx context.Context, cfg *config.Config, dev device.Detector, logger zerolog.Logger) error {
	p, err := poller.New(poller.Config{
		Address:  cfg.Device.Address,
		Interval: cfg.Poll.Interval,
		Logger:   &logger,
	}, dev)
	if err != nil {
		return err
	}

	writers := []writer.Writer{writer.NewTableWriter(os.Stdout)}

	// ---- mqtt (optional) ----
	if cfg.MQTT.Enabled() {
		mc := writer.MQTTConfig{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
			Retain:   cfg.MQTT.Retain,
			Logger:   &logger,
		}
		mw, err := writer.NewMQTTWriter(mc, writer.NewMQTTClient(mc))
		if err != nil {
			return err
		}
		if err := mw.Connect(); err != nil {
			// auto-reconnect is on; publishes fail until the broker is back
			logger.Warn().Err(err).Msg("mqtt connect failed")
		}
		defer mw.Close()
		writers = append(writers, mw)
	}

	// ---- metrics (optional) ----
	if cfg.Metrics.Enabled() {
		reg := prometheus.NewRegistry()
		mw, err := writer.NewMetricsWriter(reg, cfg.Metrics.Namespace, cfg.Device.Address)
		if err != nil {
			return err
		}
		writers = append(writers, mw)

		srv := serveMetrics(cfg.Metrics.Listen, reg, logger)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	out := make(chan poller.PollResult)
	go p.Run(ctx, out)

	orchestrate(ctx, out, writer.NewFanout(writers...), time.Second, logger)
	return nil
}

// orchestrate owns the health tracker: results update it as they arrive and
// a ticker advances seconds_in_error while the link is not OK.
func orchestrate(ctx context.Context, out <-chan poller.PollResult, w *writer.Fanout, tick time.Duration, logger zerolog.Logger) {
	tracker := status.NewTracker()

	secTicker := time.NewTicker(tick)
	defer secTicker.Stop()

	// Initial assert so subscribers see UNKNOWN before the first poll.
	if err := w.WriteStatus(tracker.Snapshot()); err != nil {
		logger.Warn().Err(err).Msg("status write failed on start")
	}

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-out:
			// --- data delivery ---
			if err := w.Write(res); err != nil {
				logger.Warn().Err(err).Msg("writer error")
			}

			// --- health ---
			if snap, changed := tracker.Observe(res.Err); changed {
				if res.Err != nil {
					logger.Warn().Err(res.Err).Uint16("code", snap.LastErrorCode).Msg("detector unreachable")
				} else {
					logger.Info().Msg("detector healthy")
				}
				if err := w.WriteStatus(snap); err != nil {
					logger.Warn().Err(err).Msg("status write failed")
				}
			}

		case <-secTicker.C:
			if snap, changed := tracker.Tick(); changed {
				if err := w.WriteStatus(snap); err != nil {
					logger.Warn().Err(err).Msg("status seconds tick write failed")
				}
			}
		}
	}
}

func serveMetrics(listen string, reg *prometheus.Registry, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("listen", listen).Msg("metrics server")
		}
	}()
	logger.Info().Str("listen", listen).Msg("serving metrics")
	return srv
}
