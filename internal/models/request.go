package models

// SimulationRequest is the input of one recomputation: every scenario to
// project plus the calendar settings they share.
type SimulationRequest struct {
	Scenarios   []Scenario  `json:"cenarios"`
	Seasonality Seasonality `json:"sazonalidade,omitempty"`
	StartMonth  int         `json:"mes_inicial,omitempty"`
}

// WhatIfRequest edits one parameter of a preset.
type WhatIfRequest struct {
	Field string  `json:"campo"`
	Value float64 `json:"valor"`
}
