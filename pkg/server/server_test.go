package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"novadash/pkg/cache"
	"novadash/pkg/models"
	"novadash/pkg/watcher"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, staticDir string) *Server {
	t.Helper()
	store := cache.NewMemory()
	snap := models.DefaultSnapshot()
	snap.Crypto[models.Bitcoin] = models.Price{USD: 64000}
	require.NoError(t, store.SetMarketSnapshot(snap))
	return NewServer(watcher.NewWatcher(nil, store, nil), staticDir, nil)
}

func TestHandleMarketStatus(t *testing.T) {
	s := newTestServer(t, "")
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	req, _ := http.NewRequest("GET", "/api/market-status", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp models.MarketStatus
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.MarketStatus{Status: "OPEN", Exchange: "NASDAQ", Timestamp: 1700000000123}, resp)
}

func TestHandleSnapshot(t *testing.T) {
	s := newTestServer(t, "")

	req, _ := http.NewRequest("GET", "/api/snapshot", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var snap models.MarketSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, 64000.0, snap.Crypto[models.Bitcoin].USD)
	assert.Contains(t, snap.Crypto, models.Solana)
}

func TestHandleStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, IndexFile), []byte("<html>shell</html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0644))
	s := newTestServer(t, dir)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"asset", "/app.js", "console.log(1)"},
		{"root", "/", "shell"},
		{"client route", "/portfolio/deep/link", "shell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.path, nil)
			rr := httptest.NewRecorder()
			s.mux.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestHandleStatic_NoDirectory(t *testing.T) {
	s := newTestServer(t, "")
	req, _ := http.NewRequest("GET", "/anything", nil)
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleWS(t *testing.T) {
	s := newTestServer(t, "")
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	ws, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	// Read initial state
	var msg map[string]interface{}
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, string(EventInitial), msg["type"])
	assert.Contains(t, msg["data"], "crypto")

	next := models.DefaultSnapshot()
	next.Crypto[models.Ethereum] = models.Price{USD: 3100}
	s.broadcast(watcher.Event{Type: watcher.EventSnapshotUpdated, Data: next})

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, string(watcher.EventSnapshotUpdated), msg["type"])
}
