// internal/writer/table.go
package writer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tamzrod/midas/internal/poller"
)

// TableHeader is the first line of the stream table.
const TableHeader = "time\tconcentration\tunits\talarm level\tstate\tfault\t" +
	"temperature (C)\tflow rate (cc/min)\tlow alarm threshold\thigh alarm threshold"

// TableWriter prints one tab-separated row per poll.
// time is seconds since the first row.
type TableWriter struct {
	mu     sync.Mutex
	out    io.Writer
	start  time.Time
	header bool
}

func NewTableWriter(out io.Writer) *TableWriter {
	return &TableWriter{out: out}
}

func (w *TableWriter) Write(res poller.PollResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.header {
		if _, err := fmt.Fprintln(w.out, TableHeader); err != nil {
			return fmt.Errorf("table writer: %w", err)
		}
		w.header = true
		w.start = res.At
	}

	if res.Err != nil {
		_, err := fmt.Fprintln(w.out, "Not connected")
		return err
	}

	s := res.State
	_, err := fmt.Fprintf(w.out, "%.2f\t%.1f\t%s\t%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\n",
		res.At.Sub(w.start).Seconds(),
		s.Concentration,
		s.Units,
		s.Alarm,
		s.State,
		s.Fault.Status,
		float64(s.Temperature),
		float64(s.Flow),
		s.LowAlarmThreshold,
		s.HighAlarmThreshold,
	)
	if err != nil {
		return fmt.Errorf("table writer: %w", err)
	}
	return nil
}
