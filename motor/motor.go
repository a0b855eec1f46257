// Package motor provides drive.Output implementations for the two motor
// controllers: a hardware PWM writer and in-memory outputs for tests and the
// simulator. The interface is open loop; nothing reports back.
package motor

import (
	"sync"

	"github.com/openrover/drivectl/drive"
)

// Discard drops every pulse. Used when the loop runs in test mode and the
// command is computed but withheld.
type Discard struct{}

func (Discard) WritePulse(left, right drive.Pulse) error {
	return nil
}

// PulsePair is one recorded output cycle.
type PulsePair struct {
	Left  drive.Pulse
	Right drive.Pulse
}

// Recorder keeps every written pulse pair for inspection. Safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	pulses []PulsePair
}

func (r *Recorder) WritePulse(left, right drive.Pulse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses = append(r.pulses, PulsePair{Left: left, Right: right})
	return nil
}

// Pulses returns a copy of everything written so far.
func (r *Recorder) Pulses() []PulsePair {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PulsePair, len(r.pulses))
	copy(out, r.pulses)
	return out
}

// Last returns the most recent pulse pair and whether anything was written.
func (r *Recorder) Last() (PulsePair, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pulses) == 0 {
		return PulsePair{}, false
	}
	return r.pulses[len(r.pulses)-1], true
}
