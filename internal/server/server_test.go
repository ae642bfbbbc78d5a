package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"breakeven-simulator/internal/config"
	"breakeven-simulator/internal/services"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServer_Routes(t *testing.T) {
	srv := NewServer(services.NewSimulator(), quietLogger())

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/admin/stats", "", http.StatusOK},
		{http.MethodGet, "/api/scenarios", "", http.StatusOK},
		{http.MethodGet, "/api/scenarios/pessimista", "", http.StatusOK},
		{http.MethodGet, "/api/scenarios/nope", "", http.StatusNotFound},
		{http.MethodGet, "/api/scenarios/conservador/projection.csv", "", http.StatusOK},
		{http.MethodPost, "/api/scenarios/conservador/what-if", `{"campo":"markup_partida","valor":3}`, http.StatusOK},
		{http.MethodPost, "/api/simulate", `{"cenarios":[{"key":"a","params":{"receita_inicial":1000}}]}`, http.StatusOK},
		{http.MethodGet, "/api/simulate", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/sse/scenarios/otimista/reset", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestGracefulServer_Run(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: 5 * time.Second}}
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	gs := NewGracefulServer(httpServer, quietLogger(), cfg)

	var hookCalled atomic.Bool
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		hookCalled.Store(true)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}

	if !hookCalled.Load() {
		t.Error("shutdown hook was not called")
	}
}

func TestGracefulServer_HookError(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
	gs := NewGracefulServer(&http.Server{}, quietLogger(), cfg)

	boom := errors.New("flush failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return boom })

	if err := gs.shutdown(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected hook error, got %v", err)
	}
}
