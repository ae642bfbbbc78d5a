package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"breakeven-simulator/internal/errors"
	"breakeven-simulator/internal/models"
	"breakeven-simulator/internal/observability"
	"breakeven-simulator/internal/services"
	"breakeven-simulator/internal/ui/templates"
)

type SSEHandlers struct {
	simulator *services.Simulator
	logger    *slog.Logger
}

func NewSSEHandlers(simulator *services.Simulator, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		simulator: simulator,
		logger:    logger,
	}
}

// HandleSimulate recomputes every scenario from the posted signals and
// patches each result fragment plus the chart signals.
func (h *SSEHandlers) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var signals templates.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid signals"), observability.GetRequestID(r.Context()))
		return
	}

	req, err := signals.Request(h.simulator.Presets())
	if err != nil {
		errors.WriteError(w, h.logger, errors.ValidationWrap(err, "invalid signals"), observability.GetRequestID(r.Context()))
		return
	}

	results, err := h.simulator.RunAll(r.Context(), req)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)
	h.patchResults(sse, results)
}

// HandleReset puts a scenario's inputs back to its preset values.
func (h *SSEHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	result, err := h.simulator.RunPreset(r.Context(), key)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)

	params, err := json.Marshal(map[string]any{
		"cenarios": map[string]models.ScenarioParameters{key: result.Scenario.Params},
	})
	if err != nil {
		h.logger.Error("marshal preset signals", "error", err, "scenario", key)
		return
	}
	if err := sse.PatchSignals(params); err != nil {
		h.logger.Warn("patch preset signals", "error", err, "scenario", key)
		return
	}

	h.patchResults(sse, []models.ScenarioResult{result})
}

func (h *SSEHandlers) patchResults(sse *datastar.ServerSentEventGenerator, results []models.ScenarioResult) {
	charts := make(map[string]templates.ChartData, len(results))

	for _, result := range results {
		html, err := templates.Results(result)
		if err != nil {
			h.logger.Error("render results", "error", err, "scenario", result.Scenario.Key)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch results", "error", err, "scenario", result.Scenario.Key)
			return
		}
		charts[result.Scenario.Key] = templates.NewChartData(result)
	}

	jsonData, err := json.Marshal(map[string]any{"charts": charts})
	if err != nil {
		h.logger.Error("marshal chart data", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Warn("patch chart signals", "error", err)
	}
}
