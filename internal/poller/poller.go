// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/midas/internal/device"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	Address  string // label for results; the detector owns the real address
	Interval time.Duration

	Logger *zerolog.Logger
}

// Poller is a dumb, clock-driven reader.
// It holds no connection state: the detector reconnects on its own.
type Poller struct {
	cfg Config
	dev device.Detector
	log zerolog.Logger
	now func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, dev device.Detector) (*Poller, error) {
	if dev == nil {
		return nil, errors.New("poller: detector required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Poller{
		cfg: cfg,
		dev: dev,
		log: log.With().Str("component", "poller").Logger(),
		now: time.Now,
	}, nil
}

// PollOnce performs exactly one Get.
// A failed cycle is reported in the result, never retried.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		Address: p.cfg.Address,
		At:      p.now(),
	}

	st, err := p.dev.Get(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("poll failed")
		res.Err = err
		res.State.Address = p.cfg.Address
		return res
	}

	res.State = st
	if res.Address == "" {
		res.Address = st.Address
	}
	return res
}
