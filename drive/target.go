package drive

// Target is the immediately desired signed speed of each motor. Magnitudes
// never exceed the configured limit, trim included.
type Target struct {
	Left  int
	Right int
}

// ComputeTarget turns quantized axis levels into per-motor target speeds.
//
// Precedence is explicit: when the move (Y) value is non-neutral the rotate
// (X) value contributes nothing this cycle, and vice versa. Only one axis
// ever reaches the motors, which is what enforces the one-action-at-a-time
// contract at the source.
//
// Rotate is scaled down by the fixed turn ratio and reverse by the fixed
// reverse ratio relative to full forward speed. Per-motor, per-direction
// trims are applied last and the result clamped back into [-limit, +limit].
func ComputeTarget(l Levels, t Tuning) Target {
	var move int
	switch l.Y {
	case LevelHigh:
		move = t.Limit
	case LevelLow:
		move = -(t.Limit * reverseRatioNum / reverseRatioDen)
	}

	var rotate int
	if move == 0 {
		switch l.X {
		case LevelHigh:
			rotate = t.Limit * turnRatioNum / turnRatioDen
		case LevelLow:
			rotate = -(t.Limit * turnRatioNum / turnRatioDen)
		}
	}

	// Rotation spins the motors in opposition; a right turn drives the left
	// motor forward and the right motor in reverse.
	left := move + rotate
	right := move - rotate

	return Target{
		Left:  trim(left, t.TrimForwardLeft, t.TrimReverseLeft, t.Limit),
		Right: trim(right, t.TrimForwardRight, t.TrimReverseRight, t.Limit),
	}
}

// trim offsets one motor's speed by the trim matching its direction. A
// positive trim always adds magnitude, so the same stored value compensates
// a slow wheel in either direction.
func trim(v, forward, reverse, limit int) int {
	switch {
	case v > 0:
		v += forward
	case v < 0:
		v -= reverse
	}
	return clamp(v, -limit, limit)
}
