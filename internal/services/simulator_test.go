package services

import (
	"bytes"
	"context"
	stderrors "errors"
	"math"
	"os"
	"strings"
	"testing"

	apperrors "breakeven-simulator/internal/errors"
	"breakeven-simulator/internal/models"
)

func createTempYAML(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "presets*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestNewSimulator(t *testing.T) {
	s := NewSimulator()
	if s == nil {
		t.Fatal("NewSimulator() returned nil")
	}
	if len(s.Presets()) != 3 {
		t.Errorf("expected 3 default presets, got %d", len(s.Presets()))
	}
	if s.StartMonth() != 1 {
		t.Errorf("expected start month 1, got %d", s.StartMonth())
	}
	if s.logger == nil {
		t.Error("logger should be initialized")
	}
}

func TestDefaultPresets(t *testing.T) {
	presets := DefaultPresets()
	names := []string{"Pessimista", "Conservador", "Otimista"}

	for i, p := range presets {
		if p.Name != names[i] {
			t.Errorf("preset %d: expected %s, got %s", i, names[i], p.Name)
		}
		if p.Params.CashInPercent != 95 {
			t.Errorf("%s: expected 95%% cash in, got %f", p.Name, p.Params.CashInPercent)
		}
		if p.Params.Suppliers != p.Params.InitialRevenue/p.Params.Markup {
			t.Errorf("%s: supplier payment should default to revenue over markup", p.Name)
		}
	}
}

func TestSimulator_RunPreset(t *testing.T) {
	s := NewSimulator()

	result, err := s.RunPreset(context.Background(), "conservador")
	if err != nil {
		t.Fatalf("RunPreset() failed: %v", err)
	}

	if len(result.Records) != 12 {
		t.Fatalf("expected 12 records, got %d", len(result.Records))
	}
	first := result.Records[0]
	if math.Round(first.NetRevenue*100)/100 != 95000 {
		t.Errorf("expected net revenue 95000, got %f", first.NetRevenue)
	}
	if !result.Analysis.BreakEven.Reachable() {
		t.Error("conservador break-even should be reachable")
	}
	if len(result.CashFlow.Months) != 12 {
		t.Errorf("expected 12 cash flow months, got %d", len(result.CashFlow.Months))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("default preset should not raise warnings: %v", result.Warnings)
	}
}

func TestSimulator_RunPreset_NotFound(t *testing.T) {
	s := NewSimulator()

	_, err := s.RunPreset(context.Background(), "nope")
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND error, got %v", err)
	}
}

func TestSimulator_RunAll_KeepsOrder(t *testing.T) {
	s := NewSimulator()
	s.SetWorkers(2)

	req := models.SimulationRequest{Scenarios: s.Presets()}
	results, err := s.RunAll(context.Background(), req)
	if err != nil {
		t.Fatalf("RunAll() failed: %v", err)
	}

	if len(results) != len(req.Scenarios) {
		t.Fatalf("expected %d results, got %d", len(req.Scenarios), len(results))
	}
	for i, r := range results {
		if r.Scenario.Key != req.Scenarios[i].Key {
			t.Errorf("result %d: expected %s, got %s", i, req.Scenarios[i].Key, r.Scenario.Key)
		}
	}

	stats := s.Stats()
	if stats["runs"].(int64) != 3 {
		t.Errorf("expected 3 runs, got %v", stats["runs"])
	}
}

func TestSimulator_RunAll_Invalid(t *testing.T) {
	s := NewSimulator()
	scenario := DefaultPresets()[1]

	bad := scenario
	bad.Params.Markup = math.NaN()

	tests := []struct {
		name string
		req  models.SimulationRequest
	}{
		{"no scenarios", models.SimulationRequest{}},
		{"non-finite parameter", models.SimulationRequest{Scenarios: []models.Scenario{scenario, bad}}},
		{"start month out of range", models.SimulationRequest{Scenarios: []models.Scenario{scenario}, StartMonth: 14}},
		{"seasonality month out of range", models.SimulationRequest{
			Scenarios:   []models.Scenario{scenario},
			Seasonality: models.Seasonality{13: 1.0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RunAll(context.Background(), tt.req)
			var appErr *apperrors.AppError
			if !stderrors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
		})
	}
}

func TestSimulator_RunAll_UsesRequestCalendar(t *testing.T) {
	s := NewSimulator()
	scenario := DefaultPresets()[1]

	req := models.SimulationRequest{
		Scenarios:   []models.Scenario{scenario},
		Seasonality: models.Seasonality{6: 2.0},
		StartMonth:  6,
	}
	results, err := s.RunAll(context.Background(), req)
	if err != nil {
		t.Fatalf("RunAll() failed: %v", err)
	}

	if got := results[0].Records[0].GrossRevenue; got != 200000 {
		t.Errorf("June seasonality should double the first month, got %f", got)
	}
	if results[0].StartMonth != 6 {
		t.Errorf("expected start month 6, got %d", results[0].StartMonth)
	}
}

func TestSimulator_WhatIf(t *testing.T) {
	s := NewSimulator()
	before, _ := s.Preset("conservador")

	result, err := s.WhatIf(context.Background(), "conservador", models.WhatIfRequest{Field: "desconto_medio", Value: 100})
	if err != nil {
		t.Fatalf("WhatIf() failed: %v", err)
	}
	if result.Analysis.BreakEven.Reachable() {
		t.Error("a full discount should make the break-even unreachable")
	}

	after, _ := s.Preset("conservador")
	if after.Params != before.Params {
		t.Error("WhatIf() must not modify the stored preset")
	}

	_, err = s.WhatIf(context.Background(), "conservador", models.WhatIfRequest{Field: "unknown", Value: 1})
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR for unknown field, got %v", err)
	}
}

func TestSimulator_LoadPresets(t *testing.T) {
	content := `mes_inicial: 3
sazonalidade:
  12: 1.5
cenarios:
  - key: loja
    name: Loja
    params:
      receita_inicial: 50000
      crescimento_mensal: 1
      markup_partida: 2
      custo_fixo_mensal: 10000
      pct_entradas: 90
`
	f := createTempYAML(t, content)
	defer os.Remove(f)

	s := NewSimulator()
	if err := s.LoadPresets(context.Background(), f); err != nil {
		t.Fatalf("LoadPresets() failed: %v", err)
	}

	presets := s.Presets()
	if len(presets) != 1 || presets[0].Key != "loja" {
		t.Fatalf("unexpected presets %+v", presets)
	}
	if presets[0].Params.InitialRevenue != 50000 {
		t.Errorf("expected revenue 50000, got %f", presets[0].Params.InitialRevenue)
	}
	if s.StartMonth() != 3 {
		t.Errorf("expected start month 3, got %d", s.StartMonth())
	}
	if s.Seasonality().Factor(12) != 1.5 {
		t.Errorf("expected December factor 1.5, got %f", s.Seasonality().Factor(12))
	}
}

func TestSimulator_LoadPresets_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"unknown field", "cenarios:\n  - key: a\n    params:\n      receita: 1\n"},
		{"missing key", "cenarios:\n  - name: A\n"},
		{"duplicate key", "cenarios:\n  - key: a\n  - key: a\n"},
		{"bad start month", "mes_inicial: 20\ncenarios:\n  - key: a\n"},
		{"not yaml", "cenarios: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := createTempYAML(t, tt.content)
			defer os.Remove(f)

			s := NewSimulator()
			if err := s.LoadPresets(context.Background(), f); err == nil {
				t.Error("expected an error")
			}
			if len(s.Presets()) != 3 {
				t.Error("a failed load must keep the previous presets")
			}
		})
	}
}

func TestWriteProjectionCSV(t *testing.T) {
	s := NewSimulator()
	result, err := s.RunPreset(context.Background(), "otimista")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteProjectionCSV(&buf, result.Records); err != nil {
		t.Fatalf("WriteProjectionCSV() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 13 {
		t.Fatalf("expected header plus 12 rows, got %d lines", len(lines))
	}
	for _, heading := range []string{"Mês", "Receita Bruta", "(=) Lucro Líquido", "Custo Total"} {
		if !strings.Contains(lines[0], heading) {
			t.Errorf("header should contain %q: %s", heading, lines[0])
		}
	}
	if !strings.HasPrefix(lines[1], "1,") || !strings.HasPrefix(lines[12], "12,") {
		t.Errorf("rows should start with the month number: %q ... %q", lines[1], lines[12])
	}
}

func TestSimulator_ConcurrentAccess(t *testing.T) {
	s := NewSimulator()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			_, _ = s.RunPresets(context.Background())
			_ = s.Presets()
			_ = s.Seasonality()
			_ = s.Stats()
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if got := s.Stats()["runs"].(int64); got != 30 {
		t.Errorf("expected 30 runs, got %d", got)
	}
}

func BenchmarkSimulator_RunPresets(b *testing.B) {
	s := NewSimulator()
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		_, _ = s.RunPresets(ctx)
	}
}
