package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"breakeven-simulator/internal/errors"
	"breakeven-simulator/internal/observability"
	"breakeven-simulator/internal/services"
	"breakeven-simulator/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	simulator *services.Simulator
	logger    *slog.Logger
}

func NewPageHandlers(simulator *services.Simulator, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		simulator: simulator,
		logger:    logger,
	}
}

// HandleDashboard renders the page with the presets already simulated.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	results, err := h.simulator.RunPresets(ctx)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(ctx))
		return
	}

	component := templates.Dashboard(results, h.simulator.Seasonality(), h.simulator.StartMonth())

	w.Header().Set("Cache-Control", "no-cache")
	templ.Handler(component, templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		h.logger.Error("render dashboard", "error", err, "request_id", observability.GetRequestID(r.Context()))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "render error", http.StatusInternalServerError)
		})
	})).ServeHTTP(w, r.WithContext(ctx))
}
