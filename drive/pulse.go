package drive

// Pulse is a motor-controller pulse width in microseconds. The controllers
// encode direction and magnitude in the 1000–2000 µs band with 1500 µs as
// neutral.
type Pulse int

const (
	ReversePulse Pulse = 1000
	NeutralPulse Pulse = 1500
	ForwardPulse Pulse = 2000
)

// PulseMapper converts signed internal speeds onto the pulse band. A motor
// mounted in mirrored orientation sets its invert flag, which maps an
// increasing speed to a decreasing pulse width instead.
type PulseMapper struct {
	InvertLeft  bool
	InvertRight bool
}

// Map converts both motor speeds. Output always lies within
// [ReversePulse, ForwardPulse] inclusive, whatever the input.
func (m PulseMapper) Map(left, right int) (Pulse, Pulse) {
	return mapPulse(left, m.InvertLeft), mapPulse(right, m.InvertRight)
}

func mapPulse(speed int, invert bool) Pulse {
	if invert {
		speed = -speed
	}
	p := NeutralPulse + Pulse(speed)*(ForwardPulse-NeutralPulse)/HalfRange
	if p < ReversePulse {
		return ReversePulse
	}
	if p > ForwardPulse {
		return ForwardPulse
	}
	return p
}
