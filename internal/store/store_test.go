package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrover/drivectl/drive"
	"github.com/openrover/drivectl/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadUnwrittenReturnsDefaults(t *testing.T) {
	s := openTestStore(t)

	settings, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, drive.DefaultSettings(), settings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := drive.DefaultSettings()
	want.SpeedLimit = 42
	want.TrimForwardLeft = -3
	want.InvertRight = true
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadClampsOutOfRangeStorage(t *testing.T) {
	s := openTestStore(t)

	// Simulates storage written by an older build or corrupted in place:
	// 255 is what unwritten EEPROM bytes read back as.
	bad := drive.Settings{
		ForwardSens: 255,
		ReverseSens: 255,
		LeftSens:    255,
		RightSens:   255,
		SpeedLimit:  255,
		AccelRate:   255,
		DecelRate:   255,
	}
	require.NoError(t, s.Save(bad))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 100, got.ForwardSens)
	assert.Equal(t, 100, got.SpeedLimit)
	assert.Equal(t, 100, got.AccelRate)
	assert.Equal(t, 100, got.DecelRate)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)

	changed := drive.DefaultSettings()
	changed.SpeedLimit = 10
	require.NoError(t, s.Save(changed))
	require.NoError(t, s.Reset())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, drive.DefaultSettings(), got)

	assert.NoError(t, s.Reset(), "resetting an empty store is not an error")
}
