package templates

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"breakeven-simulator/internal/models"
)

// Signals is the client-side state the dashboard keeps in datastar signals
// and posts back on every edit.
type Signals struct {
	Scenarios   map[string]models.ScenarioParameters `json:"cenarios"`
	Seasonality map[string]float64                   `json:"sazonalidade"`
	StartMonth  int                                  `json:"mes_inicial"`
}

// ChartData feeds the sensitivity and composition charts of one scenario.
type ChartData struct {
	Sensitivity []models.SensitivityPoint `json:"sensibilidade"`
	Composition []models.CostShare        `json:"composicao"`
	BreakEven   *float64                  `json:"ponto_equilibrio"`
}

func NewChartData(result models.ScenarioResult) ChartData {
	return ChartData{
		Sensitivity: result.Analysis.Sensitivity,
		Composition: result.Analysis.Composition,
		BreakEven:   models.Finite(result.Analysis.BreakEven.Operational),
	}
}

// NewSignals builds the initial signal tree for a set of scenarios.
func NewSignals(scenarios []models.Scenario, seasonality models.Seasonality, startMonth int) Signals {
	s := Signals{
		Scenarios:   make(map[string]models.ScenarioParameters, len(scenarios)),
		Seasonality: SeasonalitySignals(seasonality),
		StartMonth:  startMonth,
	}
	for _, sc := range scenarios {
		s.Scenarios[sc.Key] = sc.Params
	}
	return s
}

// SeasonalitySignals keys the curve as m1..m12; datastar signal paths cannot
// start with a digit.
func SeasonalitySignals(s models.Seasonality) map[string]float64 {
	out := make(map[string]float64, 12)
	for m := 1; m <= 12; m++ {
		out[seasonalityKey(m)] = s.Factor(m)
	}
	return out
}

func seasonalityKey(month int) string {
	return "m" + strconv.Itoa(month)
}

// Request turns posted signals into a simulation request. Scenarios keep the
// order of presets; keys the presets do not know come last, sorted.
func (s Signals) Request(presets []models.Scenario) (models.SimulationRequest, error) {
	req := models.SimulationRequest{StartMonth: s.StartMonth}

	if len(s.Seasonality) > 0 {
		seasonality := make(models.Seasonality, len(s.Seasonality))
		for key, factor := range s.Seasonality {
			month, err := strconv.Atoi(strings.TrimPrefix(key, "m"))
			if err != nil || !strings.HasPrefix(key, "m") {
				return models.SimulationRequest{}, fmt.Errorf("unknown seasonality key %q", key)
			}
			seasonality[month] = factor
		}
		req.Seasonality = seasonality
	}

	seen := make(map[string]bool, len(s.Scenarios))
	for _, preset := range presets {
		params, ok := s.Scenarios[preset.Key]
		if !ok {
			continue
		}
		seen[preset.Key] = true
		req.Scenarios = append(req.Scenarios, models.Scenario{Key: preset.Key, Name: preset.Name, Params: params})
	}

	var extra []string
	for key := range s.Scenarios {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	slices.Sort(extra)
	for _, key := range extra {
		req.Scenarios = append(req.Scenarios, models.Scenario{Key: key, Name: key, Params: s.Scenarios[key]})
	}

	return req, nil
}
