package drive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openrover/drivectl/drive"
)

func testTuning() drive.Tuning {
	return drive.Tuning{Limit: 256, Accel: 15, Decel: 15}
}

func TestComputeTargetPrimitives(t *testing.T) {
	tn := testTuning()
	reverse := -(tn.Limit * 3 / 4)
	turn := tn.Limit * 2 / 3

	tests := []struct {
		name   string
		levels drive.Levels
		want   drive.Target
	}{
		{
			name:   "neutral",
			levels: drive.Levels{},
			want:   drive.Target{},
		},
		{
			name:   "forward drives both at the limit",
			levels: drive.Levels{Y: drive.LevelHigh},
			want:   drive.Target{Left: tn.Limit, Right: tn.Limit},
		},
		{
			name:   "reverse is scaled down by the reverse ratio",
			levels: drive.Levels{Y: drive.LevelLow},
			want:   drive.Target{Left: reverse, Right: reverse},
		},
		{
			name:   "right turn spins motors in opposition at turn speed",
			levels: drive.Levels{X: drive.LevelHigh},
			want:   drive.Target{Left: turn, Right: -turn},
		},
		{
			name:   "left turn mirrors the right turn",
			levels: drive.Levels{X: drive.LevelLow},
			want:   drive.Target{Left: -turn, Right: turn},
		},
		{
			name:   "move suppresses rotate entirely",
			levels: drive.Levels{X: drive.LevelHigh, Y: drive.LevelHigh},
			want:   drive.Target{Left: tn.Limit, Right: tn.Limit},
		},
		{
			name:   "reverse suppresses rotate entirely",
			levels: drive.Levels{X: drive.LevelLow, Y: drive.LevelLow},
			want:   drive.Target{Left: reverse, Right: reverse},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, drive.ComputeTarget(tc.levels, tn))
		})
	}
}

func TestComputeTargetTrims(t *testing.T) {
	tn := testTuning()
	tn.TrimForwardLeft = 10
	tn.TrimReverseRight = 8

	fwd := drive.ComputeTarget(drive.Levels{Y: drive.LevelHigh}, tn)
	// Forward-left trim would push past the limit; output clamps instead.
	assert.Equal(t, tn.Limit, fwd.Left)
	assert.Equal(t, tn.Limit, fwd.Right)

	rev := drive.ComputeTarget(drive.Levels{Y: drive.LevelLow}, tn)
	base := -(tn.Limit * 3 / 4)
	assert.Equal(t, base, rev.Left, "no reverse-left trim configured")
	assert.Equal(t, base-8, rev.Right, "positive trim adds magnitude in reverse")
}

func TestComputeTargetNeverExceedsLimit(t *testing.T) {
	tn := testTuning()
	tn.TrimForwardLeft = drive.MaxTrim
	tn.TrimReverseLeft = drive.MaxTrim
	tn.TrimForwardRight = drive.MaxTrim
	tn.TrimReverseRight = drive.MaxTrim

	for _, x := range []drive.Level{drive.LevelLow, drive.LevelNeutral, drive.LevelHigh} {
		for _, y := range []drive.Level{drive.LevelLow, drive.LevelNeutral, drive.LevelHigh} {
			tgt := drive.ComputeTarget(drive.Levels{X: x, Y: y}, tn)
			assert.LessOrEqual(t, tgt.Left, tn.Limit)
			assert.GreaterOrEqual(t, tgt.Left, -tn.Limit)
			assert.LessOrEqual(t, tgt.Right, tn.Limit)
			assert.GreaterOrEqual(t, tgt.Right, -tn.Limit)
		}
	}
}
