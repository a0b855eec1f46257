package telemetry_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrover/drivectl/drive"
	"github.com/openrover/drivectl/internal/telemetry"
)

func newTestServer(t *testing.T) (*telemetry.Server, *httptest.Server) {
	t.Helper()
	srv := telemetry.NewServer(
		telemetry.ServerConfig{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		drive.DefaultSettings(),
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestStatusEndpoint(t *testing.T) {
	srv, ts := newTestServer(t)

	srv.Publish(drive.Snapshot{
		Cycle:      42,
		Intent:     "forward",
		LeftSpeed:  128,
		RightSpeed: 128,
		LeftPulse:  1750,
		RightPulse: 1750,
	})

	resp, err := ts.Client().Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap drive.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(42), snap.Cycle)
	assert.Equal(t, "forward", snap.Intent)
	assert.Equal(t, drive.Pulse(1750), snap.LeftPulse)
}

func TestSettingsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/settings")
	require.NoError(t, err)
	defer resp.Body.Close()

	var settings drive.Settings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
	assert.Equal(t, drive.DefaultSettings(), settings)
}

func TestSettingsUpdatesVisibleUnderLoad(t *testing.T) {
	srv, ts := newTestServer(t)

	// A UI adjustment landing on the loop goroutine must never race a
	// /settings request; updates go through the server, not shared state.
	done := make(chan struct{})
	go func() {
		defer close(done)
		settings := drive.DefaultSettings()
		for limit := 100; limit >= 0; limit-- {
			settings.SpeedLimit = limit
			srv.UpdateSettings(settings)
		}
	}()

	for n := 0; n < 50; n++ {
		resp, err := ts.Client().Get(ts.URL + "/settings")
		require.NoError(t, err)
		var settings drive.Settings
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
		require.NoError(t, resp.Body.Close())
		assert.GreaterOrEqual(t, settings.SpeedLimit, 0)
		assert.LessOrEqual(t, settings.SpeedLimit, 100)
	}
	<-done

	resp, err := ts.Client().Get(ts.URL + "/settings")
	require.NoError(t, err)
	defer resp.Body.Close()
	var settings drive.Settings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
	assert.Equal(t, 0, settings.SpeedLimit)
}

func TestWebsocketUpgrade(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	require.NoError(t, ws.Close())
}
