package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	config "SimStruct/internal/config"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
)

// newTestMux wires HandleList against a database handle that is never
// dialled: sqlx.Open only validates the driver name.
func newTestMux(t *testing.T) (*mux.Router, *config.Config) {
	t.Helper()
	db, err := sqlx.Open("postgres", "host=127.0.0.1 port=1 sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Server:    config.ServerConfig{UploadDir: t.TempDir()},
		AI:        config.AIConfig{URL: "http://127.0.0.1:1", PredictTimeout: time.Second, HealthTimeout: time.Second},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
		TokenKey:  "test-key",
	}
	m := mux.NewRouter()
	HandleList(m, db, cfg, newLogger(0))
	return m, cfg
}

func TestSecureRoutesRequireSession(t *testing.T) {
	m, _ := newTestMux(t)

	tests := []struct{ method, path string }{
		{"GET", "/api/user/profile"},
		{"PUT", "/api/user/profile"},
		{"DELETE", "/api/user/profile"},
		{"PUT", "/api/user/profile/password"},
		{"GET", "/api/user/profile/2"},
		{"POST", "/api/user/upload-avatar"},
		{"GET", "/api/user/notifications"},
		{"GET", "/api/user/notifications/unread"},
		{"GET", "/api/user/notifications/count"},
		{"PUT", "/api/user/notifications/read-all"},
		{"PUT", "/api/user/notifications/abc/read"},
		{"DELETE", "/api/user/notifications/abc"},
		{"GET", "/api/user/simulations"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			m.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
			}
		})
	}

	w := httptest.NewRecorder()
	m.ServeHTTP(w, httptest.NewRequest("GET", "/api/user/no-such-route", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route: Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestUploadsServed(t *testing.T) {
	m, cfg := newTestMux(t)
	if err := os.WriteFile(filepath.Join(cfg.Server.UploadDir, "a.png"), []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	m.ServeHTTP(w, httptest.NewRequest("GET", "/uploads/a.png", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if b, _ := io.ReadAll(w.Body); string(b) != "img" {
		t.Errorf("body = %q", b)
	}
}
