package drive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openrover/drivectl/drive"
)

func TestClampedRecoversUnwrittenStorage(t *testing.T) {
	// Unwritten EEPROM-style storage reads back 255 for every byte.
	s := drive.Settings{
		ForwardSens: 255,
		ReverseSens: 255,
		LeftSens:    255,
		RightSens:   255,
		SpeedLimit:  255,
		AccelRate:   255,
		DecelRate:   255,
	}.Clamped()

	assert.Equal(t, 100, s.ForwardSens)
	assert.Equal(t, 100, s.ReverseSens)
	assert.Equal(t, 100, s.LeftSens)
	assert.Equal(t, 100, s.RightSens)
	assert.Equal(t, 100, s.SpeedLimit)
	assert.Equal(t, 100, s.AccelRate)
	assert.Equal(t, 100, s.DecelRate)
}

func TestClampedBoundsTrims(t *testing.T) {
	s := drive.Settings{TrimForwardLeft: 500, TrimReverseRight: -500}.Clamped()
	assert.Equal(t, drive.MaxTrim, s.TrimForwardLeft)
	assert.Equal(t, -drive.MaxTrim, s.TrimReverseRight)
}

func TestTuningRatesNeverZero(t *testing.T) {
	for pct := 0; pct <= 100; pct += 10 {
		s := drive.DefaultSettings()
		s.AccelRate = pct
		s.DecelRate = pct
		tn := s.Tuning()
		assert.GreaterOrEqual(t, tn.Accel, 1, "accel at %d%%", pct)
		assert.GreaterOrEqual(t, tn.Decel, 1, "decel at %d%%", pct)
	}
}

func TestTuningThresholdsOrderedAndInRange(t *testing.T) {
	for pct := 0; pct <= 100; pct += 25 {
		s := drive.DefaultSettings()
		s.ForwardSens = pct
		s.ReverseSens = pct
		s.LeftSens = pct
		s.RightSens = pct
		th := s.Tuning().Thresholds

		for _, ax := range []drive.AxisThresholds{th.X, th.Y} {
			assert.Less(t, ax.Low, ax.High, "at %d%%", pct)
			assert.GreaterOrEqual(t, ax.Low, drive.AxisMin)
			assert.LessOrEqual(t, ax.High, drive.AxisMax)
		}
	}
}

func TestTuningLimitWithinHalfRange(t *testing.T) {
	for pct := 0; pct <= 100; pct += 10 {
		s := drive.DefaultSettings()
		s.SpeedLimit = pct
		tn := s.Tuning()
		assert.Greater(t, tn.Limit, 0)
		assert.LessOrEqual(t, tn.Limit, drive.HalfRange)
	}

	full := drive.DefaultSettings()
	full.SpeedLimit = 100
	assert.Equal(t, drive.HalfRange, full.Tuning().Limit)
}

func TestAdjust(t *testing.T) {
	s := drive.DefaultSettings()

	assert.NoError(t, s.Adjust("speed_limit", -30))
	assert.Equal(t, 70, s.SpeedLimit)

	// Clamps at the bounds rather than wrapping.
	assert.NoError(t, s.Adjust("speed_limit", 1000))
	assert.Equal(t, 100, s.SpeedLimit)
	assert.NoError(t, s.Adjust("speed_limit", -1000))
	assert.Equal(t, 0, s.SpeedLimit)

	assert.Error(t, s.Adjust("warp_factor", 1))
}

func TestSettingNamesAllAdjustable(t *testing.T) {
	s := drive.DefaultSettings()
	for _, name := range drive.SettingNames() {
		assert.NoError(t, s.Adjust(name, 1), name)
	}
}
