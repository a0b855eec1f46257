package drive

// Level is the quantized reading of one joystick axis. There is no
// proportional output: an accepted reading snaps to full deflection on one
// side or to neutral.
type Level int8

const (
	LevelLow     Level = -1
	LevelNeutral Level = 0
	LevelHigh    Level = 1
)

// Intent is the mutually exclusive directional command derived from a sample.
type Intent uint8

const (
	IntentNeutral Intent = iota
	IntentForward
	IntentReverse
	IntentLeft
	IntentRight
)

func (i Intent) String() string {
	switch i {
	case IntentForward:
		return "forward"
	case IntentReverse:
		return "reverse"
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	default:
		return "neutral"
	}
}

// AxisThresholds bounds the deadzone of a single axis. A reading below Low
// classifies low, above High classifies high, anything else is neutral.
// Low < High always holds for thresholds built by Settings.Tuning, so the
// two conditions can never be true at once.
type AxisThresholds struct {
	Low  int
	High int
}

func (t AxisThresholds) classify(raw int) Level {
	switch {
	case raw > t.High:
		return LevelHigh
	case raw < t.Low:
		return LevelLow
	default:
		return LevelNeutral
	}
}

// Thresholds carries the deadzone bounds for both axes. On X, Low is left
// and High is right; on Y, Low is reverse and High is forward.
type Thresholds struct {
	X AxisThresholds
	Y AxisThresholds
}

// Levels is the quantized reading of both axes for one cycle.
type Levels struct {
	X Level
	Y Level
}

// Classify quantizes a sample against the configured deadzones and derives
// the directional intent. Forward/reverse take precedence: whenever the Y
// axis is outside its deadzone the X axis is reported but does not steer the
// intent, because the vehicle cannot steer and drive simultaneously.
// Pure function; same sample and thresholds always yield the same result.
func Classify(s Sample, t Thresholds) (Levels, Intent) {
	l := Levels{
		X: t.X.classify(s.X),
		Y: t.Y.classify(s.Y),
	}

	switch {
	case l.Y == LevelHigh:
		return l, IntentForward
	case l.Y == LevelLow:
		return l, IntentReverse
	case l.X == LevelHigh:
		return l, IntentRight
	case l.X == LevelLow:
		return l, IntentLeft
	default:
		return l, IntentNeutral
	}
}
