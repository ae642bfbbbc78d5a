package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"breakeven-simulator/internal/errors"
	"breakeven-simulator/internal/models"
	"breakeven-simulator/internal/observability"
	"breakeven-simulator/internal/services"
)

const maxBodyBytes = 1 << 20

type APIHandlers struct {
	simulator *services.Simulator
	logger    *slog.Logger
}

func NewAPIHandlers(simulator *services.Simulator, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		simulator: simulator,
		logger:    logger,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]any{
		"cenarios":     h.simulator.Presets(),
		"sazonalidade": h.simulator.Seasonality(),
		"mes_inicial":  h.simulator.StartMonth(),
	})
}

func (h *APIHandlers) HandleScenario(w http.ResponseWriter, r *http.Request) {
	result, err := h.simulator.RunPreset(r.Context(), r.PathValue("key"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccess(w, result)
}

func (h *APIHandlers) HandleProjectionCSV(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	result, err := h.simulator.RunPreset(r.Context(), key)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteProjectionCSV(&buf, result.Records); err != nil {
		h.fail(w, r, errors.InternalWrap(err, "failed to export projection"))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="projecao-`+key+`.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *APIHandlers) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req models.SimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	results, err := h.simulator.RunAll(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccess(w, results)
}

func (h *APIHandlers) HandleWhatIf(w http.ResponseWriter, r *http.Request) {
	var edit models.WhatIfRequest
	if err := decodeJSON(w, r, &edit); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.simulator.WhatIf(r.Context(), r.PathValue("key"), edit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccess(w, result)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.simulator.Stats()

	errors.WriteSuccess(w, stats)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.BadRequestWrap(err, "invalid request body")
	}
	return nil
}
