package drive

import "fmt"

// Settings are the operator-tunable values. The percentage fields live in
// [0,100]; anything read back out of range (unwritten storage reports 255)
// is clamped before a threshold or rate is derived from it. Trims are raw
// speed-unit offsets set by the calibration wizard.
type Settings struct {
	ForwardSens int `json:"forwardSens" yaml:"forwardSens"`
	ReverseSens int `json:"reverseSens" yaml:"reverseSens"`
	LeftSens    int `json:"leftSens" yaml:"leftSens"`
	RightSens   int `json:"rightSens" yaml:"rightSens"`
	SpeedLimit  int `json:"speedLimit" yaml:"speedLimit"`
	AccelRate   int `json:"accelRate" yaml:"accelRate"`
	DecelRate   int `json:"decelRate" yaml:"decelRate"`

	TrimForwardLeft  int `json:"trimForwardLeft" yaml:"trimForwardLeft"`
	TrimReverseLeft  int `json:"trimReverseLeft" yaml:"trimReverseLeft"`
	TrimForwardRight int `json:"trimForwardRight" yaml:"trimForwardRight"`
	TrimReverseRight int `json:"trimReverseRight" yaml:"trimReverseRight"`

	InvertLeft  bool `json:"invertLeft" yaml:"invertLeft"`
	InvertRight bool `json:"invertRight" yaml:"invertRight"`
}

// DefaultSettings are the compiled-in values used until storage has been
// written once.
func DefaultSettings() Settings {
	return Settings{
		ForwardSens: 80,
		ReverseSens: 80,
		LeftSens:    80,
		RightSens:   80,
		SpeedLimit:  100,
		AccelRate:   45,
		DecelRate:   60,
	}
}

// Derivation constants. Percentages are affine-mapped into raw controller
// units once, at configuration time, not per cycle.
const (
	// Deadzone half-width bounds in raw axis units. 100% sensitivity still
	// leaves minDeadzone so centre jitter cannot register as input.
	minDeadzone = 40
	maxDeadzone = 460

	// Speed limit floor; a 0% limit must still let the vehicle crawl.
	minLimit = 64

	// Ramp step bounds in raw speed units per cycle. The floor of 1 keeps a
	// 0% rate from freezing the vehicle entirely.
	maxRampStep = 32

	// MaxTrim bounds the per-motor trim offsets the calibration wizard may
	// store.
	MaxTrim = 32

	// Fixed scale-downs relative to full forward speed.
	turnRatioNum, turnRatioDen       = 2, 3
	reverseRatioNum, reverseRatioDen = 3, 4
)

// Tuning is the raw-unit configuration consumed by the controller, derived
// once from Settings.
type Tuning struct {
	Thresholds Thresholds
	Limit      int
	Accel      int
	Decel      int

	TrimForwardLeft  int
	TrimReverseLeft  int
	TrimForwardRight int
	TrimReverseRight int

	InvertLeft  bool
	InvertRight bool
}

// Clamped returns a copy with every percentage forced into [0,100] and every
// trim into [-MaxTrim, MaxTrim]. Out-of-range values are recovered locally;
// they are never an error.
func (s Settings) Clamped() Settings {
	s.ForwardSens = clamp(s.ForwardSens, 0, 100)
	s.ReverseSens = clamp(s.ReverseSens, 0, 100)
	s.LeftSens = clamp(s.LeftSens, 0, 100)
	s.RightSens = clamp(s.RightSens, 0, 100)
	s.SpeedLimit = clamp(s.SpeedLimit, 0, 100)
	s.AccelRate = clamp(s.AccelRate, 0, 100)
	s.DecelRate = clamp(s.DecelRate, 0, 100)

	s.TrimForwardLeft = clamp(s.TrimForwardLeft, -MaxTrim, MaxTrim)
	s.TrimReverseLeft = clamp(s.TrimReverseLeft, -MaxTrim, MaxTrim)
	s.TrimForwardRight = clamp(s.TrimForwardRight, -MaxTrim, MaxTrim)
	s.TrimReverseRight = clamp(s.TrimReverseRight, -MaxTrim, MaxTrim)
	return s
}

// Tuning derives the raw thresholds, limit and ramp rates. Ramp rates are
// always at least 1 unit per cycle and thresholds always satisfy Low < High.
func (s Settings) Tuning() Tuning {
	s = s.Clamped()
	return Tuning{
		Thresholds: Thresholds{
			X: AxisThresholds{
				Low:  AxisCenter - deadzone(s.LeftSens),
				High: AxisCenter + deadzone(s.RightSens),
			},
			Y: AxisThresholds{
				Low:  AxisCenter - deadzone(s.ReverseSens),
				High: AxisCenter + deadzone(s.ForwardSens),
			},
		},
		Limit: minLimit + s.SpeedLimit*(HalfRange-minLimit)/100,
		Accel: rampStep(s.AccelRate),
		Decel: rampStep(s.DecelRate),

		TrimForwardLeft:  s.TrimForwardLeft,
		TrimReverseLeft:  s.TrimReverseLeft,
		TrimForwardRight: s.TrimForwardRight,
		TrimReverseRight: s.TrimReverseRight,

		InvertLeft:  s.InvertLeft,
		InvertRight: s.InvertRight,
	}
}

// Adjust applies a named delta to one of the percentage settings, clamping
// the result. Unknown names are rejected so a malformed UI event cannot
// silently mutate state.
func (s *Settings) Adjust(name string, delta int) error {
	field, err := s.field(name)
	if err != nil {
		return err
	}
	*field = clamp(*field+delta, 0, 100)
	return nil
}

// Set assigns an absolute value to a named percentage setting, clamping it
// into [0,100].
func (s *Settings) Set(name string, value int) error {
	field, err := s.field(name)
	if err != nil {
		return err
	}
	*field = clamp(value, 0, 100)
	return nil
}

func (s *Settings) field(name string) (*int, error) {
	switch name {
	case "forward_sens":
		return &s.ForwardSens, nil
	case "reverse_sens":
		return &s.ReverseSens, nil
	case "left_sens":
		return &s.LeftSens, nil
	case "right_sens":
		return &s.RightSens, nil
	case "speed_limit":
		return &s.SpeedLimit, nil
	case "accel_rate":
		return &s.AccelRate, nil
	case "decel_rate":
		return &s.DecelRate, nil
	default:
		return nil, fmt.Errorf("unknown setting %q", name)
	}
}

// SettingNames lists the adjustable percentage settings in display order.
func SettingNames() []string {
	return []string{
		"forward_sens", "reverse_sens", "left_sens", "right_sens",
		"speed_limit", "accel_rate", "decel_rate",
	}
}

func deadzone(sensPct int) int {
	return minDeadzone + (100-sensPct)*(maxDeadzone-minDeadzone)/100
}

func rampStep(pct int) int {
	return 1 + pct*(maxRampStep-1)/100
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
