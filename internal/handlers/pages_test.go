package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"breakeven-simulator/internal/services"
)

func TestPageHandlers_HandleDashboard(t *testing.T) {
	handlers := NewPageHandlers(services.NewSimulator(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handlers.HandleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %q", ct)
	}

	body := w.Body.String()
	for _, name := range []string{"Pessimista", "Conservador", "Otimista"} {
		if !strings.Contains(body, "<h2>"+name+"</h2>") {
			t.Errorf("expected a column for %s", name)
		}
	}
	if !strings.Contains(body, `id="results-otimista"`) {
		t.Error("expected preset results to be rendered on first paint")
	}
}
