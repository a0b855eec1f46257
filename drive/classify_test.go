package drive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openrover/drivectl/drive"
)

// Thresholds matching the documented tuning scenario: left 400, right 600,
// forward 630, reverse 340.
func scenarioThresholds() drive.Thresholds {
	return drive.Thresholds{
		X: drive.AxisThresholds{Low: 400, High: 600},
		Y: drive.AxisThresholds{Low: 340, High: 630},
	}
}

func TestClassify(t *testing.T) {
	th := scenarioThresholds()

	tests := []struct {
		name       string
		sample     drive.Sample
		wantLevels drive.Levels
		wantIntent drive.Intent
	}{
		{
			name:       "centered is neutral",
			sample:     drive.Centered(),
			wantLevels: drive.Levels{X: drive.LevelNeutral, Y: drive.LevelNeutral},
			wantIntent: drive.IntentNeutral,
		},
		{
			name:       "x=700 classifies right",
			sample:     drive.Sample{X: 700, Y: 500},
			wantLevels: drive.Levels{X: drive.LevelHigh, Y: drive.LevelNeutral},
			wantIntent: drive.IntentRight,
		},
		{
			name:       "x=300 classifies left",
			sample:     drive.Sample{X: 300, Y: 500},
			wantLevels: drive.Levels{X: drive.LevelLow, Y: drive.LevelNeutral},
			wantIntent: drive.IntentLeft,
		},
		{
			name:       "x=500 is neutral on the x axis",
			sample:     drive.Sample{X: 500, Y: 500},
			wantLevels: drive.Levels{X: drive.LevelNeutral, Y: drive.LevelNeutral},
			wantIntent: drive.IntentNeutral,
		},
		{
			name:       "y above forward threshold",
			sample:     drive.Sample{X: 512, Y: 900},
			wantLevels: drive.Levels{X: drive.LevelNeutral, Y: drive.LevelHigh},
			wantIntent: drive.IntentForward,
		},
		{
			name:       "y below reverse threshold",
			sample:     drive.Sample{X: 512, Y: 100},
			wantLevels: drive.Levels{X: drive.LevelNeutral, Y: drive.LevelLow},
			wantIntent: drive.IntentReverse,
		},
		{
			name:       "move wins over rotate when both deflected",
			sample:     drive.Sample{X: 1023, Y: 1023},
			wantLevels: drive.Levels{X: drive.LevelHigh, Y: drive.LevelHigh},
			wantIntent: drive.IntentForward,
		},
		{
			name:       "reverse wins over left when both deflected",
			sample:     drive.Sample{X: 0, Y: 0},
			wantLevels: drive.Levels{X: drive.LevelLow, Y: drive.LevelLow},
			wantIntent: drive.IntentReverse,
		},
		{
			name:       "exact threshold value stays neutral",
			sample:     drive.Sample{X: 600, Y: 630},
			wantLevels: drive.Levels{X: drive.LevelNeutral, Y: drive.LevelNeutral},
			wantIntent: drive.IntentNeutral,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			levels, intent := drive.Classify(tc.sample, th)
			assert.Equal(t, tc.wantLevels, levels)
			assert.Equal(t, tc.wantIntent, intent)
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	th := scenarioThresholds()
	samples := []drive.Sample{
		{X: 700, Y: 500},
		{X: 300, Y: 500},
		{X: 512, Y: 512},
		{X: 0, Y: 1023},
	}
	for _, s := range samples {
		l1, i1 := drive.Classify(s, th)
		for n := 0; n < 10; n++ {
			l2, i2 := drive.Classify(s, th)
			assert.Equal(t, l1, l2)
			assert.Equal(t, i1, i2)
		}
	}
}
