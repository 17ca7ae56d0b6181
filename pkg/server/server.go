package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"novadash/pkg/models"
	"novadash/pkg/watcher"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// EventInitial is the first message every websocket client receives.
const EventInitial watcher.EventType = "initial"

// IndexFile is served for any path that does not match a static file.
const IndexFile = "index.html"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	watcher   *watcher.Watcher
	staticDir string
	log       *zap.Logger
	clients   map[*websocket.Conn]bool
	mu        sync.Mutex
	mux       *http.ServeMux
	now       func() time.Time
}

func NewServer(w *watcher.Watcher, staticDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		watcher:   w,
		staticDir: staticDir,
		log:       log,
		clients:   make(map[*websocket.Conn]bool),
		mux:       http.NewServeMux(),
		now:       time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/market-status", s.handleMarketStatus)
	s.mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/", s.handleStatic)
}

// Handler exposes the route table.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on port until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	go s.listenToWatcher()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("API server listening", zap.Int("port", port), zap.String("static", s.staticDir))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "listen on :%d", port)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleMarketStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.MarketStatus{
		Status:    "OPEN",
		Exchange:  "NASDAQ",
		Timestamp: s.now().UnixMilli(),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.watcher.Snapshot())
}

// handleStatic serves files from the static directory and falls back to the
// app shell for anything else.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if s.staticDir == "" {
		http.NotFound(w, r)
		return
	}
	name := filepath.Join(s.staticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}
	index := filepath.Join(s.staticDir, IndexFile)
	if _, err := os.Stat(index); err != nil {
		s.log.Debug("app shell missing", zap.String("path", index))
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	// Send initial state before the client can receive broadcasts.
	s.mu.Lock()
	err = conn.WriteJSON(watcher.Event{Type: EventInitial, Data: s.watcher.Snapshot()})
	if err == nil {
		s.clients[conn] = true
	}
	s.mu.Unlock()
	if err != nil {
		return
	}

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToWatcher() {
	sub := s.watcher.Subscribe()
	defer s.watcher.Unsubscribe(sub)

	for event := range sub {
		s.broadcast(event)
	}
}

func (s *Server) broadcast(event watcher.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(event); err != nil {
			s.log.Debug("dropping websocket client", zap.Error(err))
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}
