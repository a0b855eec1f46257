// Package drive implements the directional motion controller for a two-motor
// differential vehicle: joystick classification, target speed calculation,
// per-cycle rate limiting, the direction-change interlock and the mapping of
// signed speeds onto motor-controller pulse widths.
//
// The vehicle executes exactly one motion primitive (forward, reverse, left,
// right) at a time and always passes through neutral before switching, so the
// two drive motors cannot desynchronize.
package drive

// Raw joystick axis domain. Samples are produced once per control cycle and
// not retained.
const (
	AxisMin    = 0
	AxisMax    = 1023
	AxisCenter = (AxisMax + 1) / 2
)

// HalfRange is the magnitude bound of the internal signed speed domain.
// Every speed handled by the controller lies in [-HalfRange, +HalfRange].
const HalfRange = 256

// Sample is a single pair of raw joystick readings.
type Sample struct {
	X int
	Y int
}

// Centered returns the no-input sample. It is substituted for a misread so
// that a transient input fault commands a stop rather than stale motion.
func Centered() Sample {
	return Sample{X: AxisCenter, Y: AxisCenter}
}

// Source supplies one joystick sample per control cycle.
type Source interface {
	Sample() (Sample, error)
}

// Output receives the per-motor pulse widths computed each cycle. The motor
// controllers are open loop; there is no acknowledgment path.
type Output interface {
	WritePulse(left, right Pulse) error
}
