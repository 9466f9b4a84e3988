// internal/mock/detector.go
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/tamzrod/midas/internal/codec"
	"github.com/tamzrod/midas/internal/device"
	"github.com/tamzrod/midas/internal/transport"
)

// DefaultState is the state a fresh mock detector reports.
func DefaultState() codec.State {
	return codec.State{
		Address:            "192.168.0.1",
		Connected:          true,
		State:              "Monitoring",
		Fault:              codec.Fault{Status: "No fault"},
		Alarm:              "none",
		Concentration:      0,
		Units:              "ppm",
		Temperature:        30,
		Life:               556.0833333333334,
		Flow:               482,
		LowAlarmThreshold:  5,
		HighAlarmThreshold: 8,
	}
}

// Detector is an in-memory device.Detector for tests and dry runs.
// Commands change the reported state the way the real detector does.
// It performs no I/O.
type Detector struct {
	mu     sync.Mutex
	state  codec.State
	err    error
	calls  []string
	closed bool

	// Latency delays every call; zero answers immediately.
	Latency time.Duration
}

var _ device.Detector = (*Detector)(nil)

// New returns a mock in DefaultState.
func New() *Detector {
	return &Detector{state: DefaultState()}
}

// SetState replaces the reported state.
func (d *Detector) SetState(s codec.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
}

// FailWith makes every following call return err; nil restores normal operation.
func (d *Detector) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// Calls lists the operations invoked so far.
func (d *Detector) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

func (d *Detector) Get(ctx context.Context) (codec.State, error) {
	if err := d.begin(ctx, "get"); err != nil {
		return codec.State{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, nil
}

func (d *Detector) ResetAlarmsAndFaults(ctx context.Context) error {
	return d.command(ctx, codec.ResetAlarmsAndFaults, func(s *codec.State) {
		s.Alarm = "none"
		s.Fault = codec.Fault{Status: "No fault"}
	})
}

func (d *Detector) InhibitAlarms(ctx context.Context) error {
	return d.command(ctx, codec.InhibitAlarms, func(s *codec.State) {
		s.State = "Monitoring with alarms inhibited"
	})
}

func (d *Detector) InhibitAlarmsAndFaults(ctx context.Context) error {
	return d.command(ctx, codec.InhibitAlarmsAndFaults, func(s *codec.State) {
		s.State = "Monitoring with alarms and faults inhibited"
	})
}

func (d *Detector) RemoveInhibit(ctx context.Context) error {
	return d.command(ctx, codec.RemoveInhibit, func(s *codec.State) {
		s.State = "Monitoring"
	})
}

func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.calls = append(d.calls, "close")
	return nil
}

func (d *Detector) command(ctx context.Context, c codec.Command, fn func(*codec.State)) error {
	if err := d.begin(ctx, c.String()); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.state)
	return nil
}

func (d *Detector) begin(ctx context.Context, op string) error {
	d.mu.Lock()
	d.calls = append(d.calls, op)
	closed, err, latency := d.closed, d.err, d.Latency
	addr := d.state.Address
	d.mu.Unlock()

	if closed {
		return &transport.ConnectionError{Op: op, Address: addr, Err: transport.ErrClosed}
	}
	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return &transport.TimeoutError{Op: op, Address: addr, Err: ctx.Err()}
		}
	}
	return err
}
