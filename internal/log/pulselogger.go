package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/openrover/drivectl/drive"
)

// PulseLogger handles raw pulse tracing with optional file output. It
// records every pulse pair the control loop computes, including those
// withheld in test mode, one line per cycle.
type PulseLogger interface {
	Trace(left, right drive.Pulse)
}

// pulseLogger implements PulseLogger with thread-safe writes.
type pulseLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewPulse creates a new PulseLogger. If writer is nil, returns a no-op logger.
func NewPulse(w io.Writer) PulseLogger {
	return &pulseLogger{w: w}
}

// Trace emits a single-line record with timestamp and both pulse widths in
// microseconds.
func (p *pulseLogger) Trace(left, right drive.Pulse) {
	if p.w == nil {
		return
	}

	line := fmt.Sprintf("%s pulse: L=%dus R=%dus\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		left,
		right)

	p.mu.Lock()
	_, _ = p.w.Write([]byte(line))
	p.mu.Unlock()
}
