// internal/writer/writer.go
package writer

import (
	"errors"
	"strings"

	"github.com/tamzrod/midas/internal/poller"
	"github.com/tamzrod/midas/internal/status"
)

// Writer delivers poll results.
type Writer interface {
	Write(res poller.PollResult) error
}

// StatusWriter is the delivery-only contract for link health.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// Fanout delivers to every writer and keeps going past failures.
// Errors are joined into one.
type Fanout struct {
	writers []Writer
}

// NewFanout drops nil writers.
func NewFanout(ws ...Writer) *Fanout {
	f := &Fanout{}
	for _, w := range ws {
		if w != nil {
			f.writers = append(f.writers, w)
		}
	}
	return f
}

func (f *Fanout) Write(res poller.PollResult) error {
	var errs []string
	for _, w := range f.writers {
		if err := w.Write(res); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return joined(errs)
}

// WriteStatus forwards to the writers that also deliver health.
func (f *Fanout) WriteStatus(s status.Snapshot) error {
	var errs []string
	for _, w := range f.writers {
		sw, ok := w.(StatusWriter)
		if !ok {
			continue
		}
		if err := sw.WriteStatus(s); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return joined(errs)
}

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(errs, " | "))
}
