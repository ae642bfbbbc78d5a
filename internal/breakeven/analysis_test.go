package breakeven

import (
	"math"
	"testing"

	"breakeven-simulator/internal/models"
	"breakeven-simulator/internal/projection"
)

const epsilon = 1e-9

func conservador() models.ScenarioParameters {
	return models.ScenarioParameters{
		InitialRevenue:  100000,
		MonthlyGrowth:   2.0,
		AverageDiscount: 5.0,
		Markup:          2.2,
		ICMSDifal:       13.0,
		FixedCost:       35000,
		SalesTax:        10,
		CardFee:         4.5,
		Commissions:     4,
		Loans:           10000,
		PartnerDraws:    5000,
		Suppliers:       100000 / 2.2,
		CashInPercent:   95,
	}
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func project(p models.ScenarioParameters) []models.MonthlyRecord {
	return projection.Project(p, models.DefaultSeasonality(), 1)
}

func TestTotals_SumsEveryColumn(t *testing.T) {
	records := project(conservador())
	totals := Totals(records)

	var gross, cogs, profit, suppliers float64
	for _, r := range records {
		gross += r.GrossRevenue
		cogs += r.COGS
		profit += r.NetProfit
		suppliers += r.Suppliers
	}

	if !closeTo(totals.GrossRevenue, gross) {
		t.Errorf("gross: expected %f, got %f", gross, totals.GrossRevenue)
	}
	if !closeTo(totals.COGS, cogs) {
		t.Errorf("cogs: expected %f, got %f", cogs, totals.COGS)
	}
	if !closeTo(totals.NetProfit, profit) {
		t.Errorf("net profit: expected %f, got %f", profit, totals.NetProfit)
	}
	if !closeTo(totals.Suppliers, suppliers) {
		t.Errorf("suppliers: expected %f, got %f", suppliers, totals.Suppliers)
	}
	if totals.FixedExpenses != 12*35000 {
		t.Errorf("fixed expenses: expected %f, got %f", 12*35000.0, totals.FixedExpenses)
	}
	if totals.Month != 0 {
		t.Errorf("totals should not carry a month, got %d", totals.Month)
	}
}

func TestAnalyze_ConservadorBreakEven(t *testing.T) {
	records := project(conservador())
	a := Analyze(records)
	first := records[0]

	wantRatio := first.ContributionMargin / first.NetRevenue
	if !closeTo(a.ContributionMarginRatio, wantRatio) {
		t.Errorf("margin ratio: expected %f, got %f", wantRatio, a.ContributionMarginRatio)
	}

	wantVariable := (first.COGS + first.VariableExpenses) / first.NetRevenue
	if !closeTo(a.VariableCostRatio, wantVariable) {
		t.Errorf("variable ratio: expected %f, got %f", wantVariable, a.VariableCostRatio)
	}

	if !a.BreakEven.Reachable() {
		t.Fatal("break-even should be reachable for the default scenario")
	}
	if want := 35000 / wantRatio; !closeTo(a.BreakEven.Operational, want) {
		t.Errorf("operational break-even: expected %f, got %f", want, a.BreakEven.Operational)
	}
	if want := 50000 / wantRatio; !closeTo(a.BreakEven.General, want) {
		t.Errorf("general break-even: expected %f, got %f", want, a.BreakEven.General)
	}
	if a.BreakEven.General <= a.BreakEven.Operational {
		t.Error("general break-even should exceed the operational one when other expenses are positive")
	}
}

func TestAnalyze_SuppliersExcludedFromRatios(t *testing.T) {
	base := conservador()
	more := conservador()
	more.Suppliers = base.Suppliers * 3

	a := Analyze(project(base))
	b := Analyze(project(more))

	if a.VariableCostRatio != b.VariableCostRatio {
		t.Error("supplier payment must not change the variable cost ratio")
	}
	if a.BreakEven != b.BreakEven {
		t.Error("supplier payment must not change the break-even")
	}
}

func TestAnalyze_UnreachableBreakEven(t *testing.T) {
	tests := []struct {
		name string
		edit func(*models.ScenarioParameters)
	}{
		{"full discount", func(p *models.ScenarioParameters) { p.AverageDiscount = 100 }},
		{"zero revenue", func(p *models.ScenarioParameters) { p.InitialRevenue = 0 }},
		{"costs above net revenue", func(p *models.ScenarioParameters) { p.Markup = 1; p.ICMSDifal = 50 }},
		{"zero markup", func(p *models.ScenarioParameters) { p.Markup = 0 }},
		{"zero markup without ICMS", func(p *models.ScenarioParameters) { p.Markup = 0; p.ICMSDifal = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := conservador()
			tt.edit(&params)
			records := project(params)
			a := Analyze(records)

			if records[0].ContributionMargin > 0 && records[0].NetRevenue > 0 {
				t.Fatalf("scenario should not have a positive margin, got %f", records[0].ContributionMargin)
			}
			if !math.IsInf(a.BreakEven.Operational, 1) {
				t.Errorf("operational break-even: expected +Inf, got %f", a.BreakEven.Operational)
			}
			if !math.IsInf(a.BreakEven.General, 1) {
				t.Errorf("general break-even: expected +Inf, got %f", a.BreakEven.General)
			}
			if a.BreakEven.Reachable() {
				t.Error("Reachable() should be false")
			}
			for _, p := range a.Sensitivity {
				if !math.IsInf(p.Revenue, 1) || !math.IsInf(p.Expenses, 1) {
					t.Errorf("sensitivity point %v should be infinite", p.Multiplier)
				}
			}
		})
	}
}

func TestAnalyze_ZeroNetRevenueRatios(t *testing.T) {
	params := conservador()
	params.AverageDiscount = 100
	a := Analyze(project(params))

	if a.ContributionMarginRatio != 0 || a.VariableCostRatio != 0 {
		t.Errorf("expected zero ratios without net revenue, got %f and %f",
			a.ContributionMarginRatio, a.VariableCostRatio)
	}
}

func TestSensitivity_Curve(t *testing.T) {
	a := Analyze(project(conservador()))

	if len(a.Sensitivity) != len(SensitivityMultipliers) {
		t.Fatalf("expected %d points, got %d", len(SensitivityMultipliers), len(a.Sensitivity))
	}

	for i, p := range a.Sensitivity {
		if p.Multiplier != SensitivityMultipliers[i] {
			t.Errorf("point %d: expected multiplier %v, got %v", i, SensitivityMultipliers[i], p.Multiplier)
		}
		if want := a.BreakEven.Operational * p.Multiplier; !closeTo(p.Revenue, want) {
			t.Errorf("point %d: expected revenue %f, got %f", i, want, p.Revenue)
		}
		if want := 35000 + a.VariableCostRatio*p.Revenue; !closeTo(p.Expenses, want) {
			t.Errorf("point %d: expected expenses %f, got %f", i, want, p.Expenses)
		}
	}

	// At the break-even point revenue covers expenses exactly.
	mid := a.Sensitivity[3]
	if !closeTo(mid.Revenue, mid.Expenses) {
		t.Errorf("revenue and expenses should cross at the break-even: %f vs %f", mid.Revenue, mid.Expenses)
	}
	if a.Sensitivity[0].Revenue >= a.Sensitivity[0].Expenses {
		t.Error("below break-even expenses should exceed revenue")
	}
	if a.Sensitivity[6].Revenue <= a.Sensitivity[6].Expenses {
		t.Error("above break-even revenue should exceed expenses")
	}
}

func TestComposition_SharesOfGrossRevenue(t *testing.T) {
	records := project(conservador())
	totals := Totals(records)
	shares := Composition(totals)

	want := map[string]float64{
		"cmv":                totals.COGS / totals.GrossRevenue,
		"despesas_variaveis": totals.VariableExpenses / totals.GrossRevenue,
		"despesas_fixas":     totals.FixedExpenses / totals.GrossRevenue,
		"outras_despesas":    totals.OtherExpenses / totals.GrossRevenue,
	}

	if len(shares) != len(want) {
		t.Fatalf("expected %d shares, got %d", len(want), len(shares))
	}
	for _, s := range shares {
		if !closeTo(s.Share, want[s.Key]) {
			t.Errorf("%s: expected %f, got %f", s.Key, want[s.Key], s.Share)
		}
	}
}

func TestComposition_ZeroGrossRevenue(t *testing.T) {
	params := conservador()
	params.InitialRevenue = 0
	shares := Composition(Totals(project(params)))

	for _, s := range shares {
		switch s.Key {
		case "cmv", "despesas_variaveis":
			if s.Share != 0 {
				t.Errorf("%s: expected 0, got %f", s.Key, s.Share)
			}
		default:
			if !math.IsInf(s.Share, 1) {
				t.Errorf("%s: expected +Inf, got %f", s.Key, s.Share)
			}
		}
	}
}

func TestStatement_Lines(t *testing.T) {
	totals := Totals(project(conservador()))
	lines := Statement(totals)

	if lines[0].Key != "receita_bruta" || lines[0].ShareOfGross != 1 {
		t.Errorf("first line should be gross revenue at 100%%, got %s at %f", lines[0].Key, lines[0].ShareOfGross)
	}

	results := map[string]bool{}
	for _, l := range lines {
		if l.Result {
			results[l.Key] = l.Positive()
		}
	}

	for _, key := range []string{"margem_contribuicao", "lucro_operacional", "lucro_liquido"} {
		if _, ok := results[key]; !ok {
			t.Errorf("%s should be a result line", key)
		}
	}
	if !results["margem_contribuicao"] {
		t.Error("default scenario has a positive contribution margin")
	}
	if results["lucro_liquido"] {
		t.Error("default scenario has a negative net profit over the period")
	}
}
