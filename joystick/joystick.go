// Package joystick provides drive.Source implementations: a serial-attached
// analog joystick bridge for the vehicle and a scripted source for tests and
// simulation.
package joystick

import (
	"sync"

	"github.com/openrover/drivectl/drive"
)

// Scripted replays a fixed sequence of samples, then holds the last one (or
// center if empty). Safe for concurrent use.
type Scripted struct {
	mu      sync.Mutex
	samples []drive.Sample
	pos     int
}

// NewScripted builds a scripted source over the given samples.
func NewScripted(samples ...drive.Sample) *Scripted {
	return &Scripted{samples: samples}
}

// Append queues further samples after the current script.
func (s *Scripted) Append(samples ...drive.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, samples...)
}

// Sample returns the next scripted sample.
func (s *Scripted) Sample() (drive.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.samples) == 0 {
		return drive.Centered(), nil
	}
	sample := s.samples[s.pos]
	if s.pos < len(s.samples)-1 {
		s.pos++
	}
	return sample, nil
}
