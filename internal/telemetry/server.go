// Package telemetry exposes the running controller to remote UIs: an HTTP
// endpoint with a websocket snapshot stream, and an MQTT bridge that turns
// remote button presses into debounced setting adjustments.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/openrover/drivectl/drive"
)

// ServerConfig represents the telemetry server configuration.
type ServerConfig struct {
	Addr string `help:"Telemetry listen address; empty disables the server" default:"" env:"DRIVECTL_TELEMETRY_ADDR"`
}

// Server fans drive snapshots out to websocket clients and serves the
// current state and settings as JSON.
type Server struct {
	cfg    ServerConfig
	logger *slog.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	latest   drive.Snapshot
	settings drive.Settings

	broadcast chan drive.Snapshot
}

// NewServer builds a telemetry server reporting the given settings until the
// loop publishes newer ones.
func NewServer(cfg ServerConfig, logger *slog.Logger, settings drive.Settings) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]struct{}),
		settings:  settings,
		broadcast: make(chan drive.Snapshot, 64),
	}
}

// UpdateSettings replaces the settings served at /settings. Called from the
// loop goroutine after a UI adjustment lands; request handlers read the copy
// under the server mutex, never the loop's own state.
func (s *Server) UpdateSettings(settings drive.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Publish queues a snapshot for broadcast. Never blocks the control loop; if
// the queue is full the snapshot is dropped.
func (s *Server) Publish(snap drive.Snapshot) {
	s.mu.Lock()
	s.latest = snap
	s.mu.Unlock()

	select {
	case s.broadcast <- snap:
	default:
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/status", s.handleStatus)
	r.Get("/settings", s.handleSettings)
	r.Get("/ws", s.handleWS)
	return r
}

// ListenAndServe runs the server until the context is cancelled. A nil error
// is returned when the address is unset (telemetry disabled).
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Addr == "" {
		return nil
	}

	go s.fanout(ctx)

	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.logger.Info("telemetry server listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.latest
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(settings)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[ws] = struct{}{}
	s.mu.Unlock()

	// Clients are write-only; the read pump exists to notice disconnects.
	go func() {
		defer s.drop(ws)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) fanout(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-s.broadcast:
			s.mu.Lock()
			for ws := range s.clients {
				if err := ws.WriteJSON(snap); err != nil {
					_ = ws.Close()
					delete(s.clients, ws)
				}
			}
			s.mu.Unlock()
		}
	}
}

func (s *Server) drop(ws *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = ws.Close()
	delete(s.clients, ws)
}
