package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"breakeven-simulator/internal/breakeven"
	apperrors "breakeven-simulator/internal/errors"
	"breakeven-simulator/internal/models"
	"breakeven-simulator/internal/observability"
	"breakeven-simulator/internal/projection"
)

const defaultWorkers = 4

// Simulator runs the projection pipeline for scenarios. It keeps the preset
// scenarios and the shared calendar settings; every run works on its own
// copy of the parameters, so runs never share writable state.
type Simulator struct {
	mu          sync.RWMutex
	presets     []models.Scenario
	seasonality models.Seasonality
	startMonth  int
	presetsFile string
	workers     int

	runs    atomic.Int64
	lastRun atomic.Int64
	logger  *slog.Logger
}

func NewSimulator() *Simulator {
	return &Simulator{
		presets:     DefaultPresets(),
		seasonality: models.DefaultSeasonality(),
		startMonth:  1,
		workers:     defaultWorkers,
		logger:      slog.Default(),
	}
}

func (s *Simulator) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// SetWorkers bounds how many scenarios RunAll computes at once.
func (s *Simulator) SetWorkers(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > 0 {
		s.workers = n
	}
}

func (s *Simulator) SetStartMonth(month int) error {
	if err := models.ValidateStartMonth(month); err != nil {
		return err
	}
	s.mu.Lock()
	s.startMonth = month
	s.mu.Unlock()
	return nil
}

// SetPresets replaces the preset scenarios. Used by tests and by LoadPresets.
func (s *Simulator) SetPresets(scenarios []models.Scenario) error {
	if err := validateScenarios(scenarios); err != nil {
		return err
	}
	s.mu.Lock()
	s.presets = append([]models.Scenario(nil), scenarios...)
	s.mu.Unlock()
	return nil
}

// LoadPresets reads scenarios, seasonality and start month from a YAML file.
func (s *Simulator) LoadPresets(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read presets: %w", err)
	}

	var file PresetFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return fmt.Errorf("parse presets: %w", err)
	}

	if err := file.validate(); err != nil {
		return fmt.Errorf("invalid presets: %w", err)
	}

	s.mu.Lock()
	s.presets = file.Scenarios
	if file.Seasonality != nil {
		s.seasonality = file.Seasonality.Clone()
	}
	if file.StartMonth != 0 {
		s.startMonth = file.StartMonth
	}
	s.presetsFile = filename
	s.mu.Unlock()

	s.logger.Info("loaded scenario presets",
		"filename", filename,
		"scenarios", len(file.Scenarios),
	)
	return nil
}

func (s *Simulator) Presets() []models.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Scenario(nil), s.presets...)
}

func (s *Simulator) Preset(key string) (models.Scenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.presets {
		if sc.Key == key {
			return sc, true
		}
	}
	return models.Scenario{}, false
}

// Seasonality returns a copy of the shared seasonality curve.
func (s *Simulator) Seasonality() models.Seasonality {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seasonality.Clone()
}

func (s *Simulator) StartMonth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startMonth
}

// Run projects one scenario and derives its break-even, statement and cash
// flow. An unreachable break-even is a result, not an error; only
// non-finite inputs are rejected.
func (s *Simulator) Run(ctx context.Context, scenario models.Scenario, seasonality models.Seasonality, startMonth int) (models.ScenarioResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ScenarioResult{}, err
	}
	if err := scenario.Params.Validate(); err != nil {
		return models.ScenarioResult{}, apperrors.ValidationWrap(err, fmt.Sprintf("scenario %q has invalid parameters", scenario.Key))
	}
	if err := seasonality.Validate(); err != nil {
		return models.ScenarioResult{}, apperrors.ValidationWrap(err, "invalid seasonality")
	}
	if err := models.ValidateStartMonth(startMonth); err != nil {
		return models.ScenarioResult{}, apperrors.ValidationWrap(err, "invalid start month")
	}

	_, span := observability.StartSpan(ctx, "simulate")
	span.SetTag("scenario", scenario.Key)

	records := projection.Project(scenario.Params, seasonality, startMonth)
	result := models.ScenarioResult{
		Scenario:   scenario,
		StartMonth: startMonth,
		Records:    records,
		Analysis:   breakeven.Analyze(records),
		CashFlow:   breakeven.CashFlow(records, scenario.Params.CashInPercent),
		Warnings:   scenario.Params.RangeWarnings(),
	}

	span.Finish()
	s.runs.Add(1)
	s.lastRun.Store(time.Now().UnixNano())

	s.logger.Debug("scenario simulated",
		"scenario", scenario.Key,
		"trace_id", span.TraceID,
		"duration", *span.Duration,
		"break_even_reachable", result.Analysis.BreakEven.Reachable(),
	)
	if len(result.Warnings) > 0 {
		s.logger.Warn("scenario parameters outside the expected range",
			"scenario", scenario.Key,
			"warnings", result.Warnings,
		)
	}

	return result, nil
}

// RunAll computes every scenario of the request independently, in parallel,
// and returns the results in request order. Missing calendar settings fall
// back to the simulator's.
func (s *Simulator) RunAll(ctx context.Context, req models.SimulationRequest) ([]models.ScenarioResult, error) {
	if len(req.Scenarios) == 0 {
		return nil, apperrors.Validation("no scenarios to simulate")
	}

	seasonality := req.Seasonality
	if seasonality == nil {
		seasonality = s.Seasonality()
	}
	startMonth := req.StartMonth
	if startMonth == 0 {
		startMonth = s.StartMonth()
	}

	s.mu.RLock()
	workers := s.workers
	s.mu.RUnlock()

	results := make([]models.ScenarioResult, len(req.Scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, scenario := range req.Scenarios {
		g.Go(func() error {
			result, err := s.Run(gctx, scenario, seasonality, startMonth)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunPresets simulates every preset with the shared calendar settings.
func (s *Simulator) RunPresets(ctx context.Context) ([]models.ScenarioResult, error) {
	return s.RunAll(ctx, models.SimulationRequest{Scenarios: s.Presets()})
}

// RunPreset simulates a single preset by key.
func (s *Simulator) RunPreset(ctx context.Context, key string) (models.ScenarioResult, error) {
	scenario, ok := s.Preset(key)
	if !ok {
		return models.ScenarioResult{}, apperrors.NotFound(fmt.Sprintf("scenario %q not found", key))
	}
	return s.Run(ctx, scenario, s.Seasonality(), s.StartMonth())
}

// WhatIf applies one parameter edit to a snapshot of a preset and simulates
// it. The stored preset is unchanged.
func (s *Simulator) WhatIf(ctx context.Context, key string, edit models.WhatIfRequest) (models.ScenarioResult, error) {
	scenario, ok := s.Preset(key)
	if !ok {
		return models.ScenarioResult{}, apperrors.NotFound(fmt.Sprintf("scenario %q not found", key))
	}

	params, err := scenario.Params.WithField(edit.Field, edit.Value)
	if err != nil {
		return models.ScenarioResult{}, apperrors.ValidationWrap(err, "invalid parameter edit")
	}
	scenario.Params = params

	return s.Run(ctx, scenario, s.Seasonality(), s.StartMonth())
}

// Utility method for monitoring
func (s *Simulator) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lastRun any
	if ns := s.lastRun.Load(); ns != 0 {
		lastRun = time.Unix(0, ns).UTC()
	}

	return map[string]any{
		"runs":         s.runs.Load(),
		"last_run":     lastRun,
		"presets":      len(s.presets),
		"presets_file": s.presetsFile,
		"start_month":  s.startMonth,
		"workers":      s.workers,
	}
}
