// Package breakeven aggregates a monthly projection into period totals,
// break-even thresholds and the views derived from them.
package breakeven

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"breakeven-simulator/internal/models"
)

// SensitivityMultipliers scale the operational break-even revenue to draw the
// crossing between revenue and expenses.
var SensitivityMultipliers = []float64{0.7, 0.8, 0.9, 1.0, 1.1, 1.2, 1.3}

// Analyze derives the period aggregate of a projection. Ratios and break-even
// thresholds use the first projected month; composition and statement shares
// use the 12-month totals.
func Analyze(records []models.MonthlyRecord) models.Analysis {
	totals := Totals(records)

	var first models.MonthlyRecord
	if len(records) > 0 {
		first = records[0]
	}

	marginRatio, variableRatio := Ratios(first)
	be := BreakEvenFor(first, marginRatio)

	return models.Analysis{
		Totals:                  totals,
		ContributionMarginRatio: marginRatio,
		VariableCostRatio:       variableRatio,
		BreakEven:               be,
		Sensitivity:             Sensitivity(be, first.FixedExpenses, variableRatio),
		Composition:             Composition(totals),
		Statement:               Statement(totals),
	}
}

// Totals sums every monetary column of the projection. Month is left zero.
func Totals(records []models.MonthlyRecord) models.MonthlyRecord {
	column := func(get func(models.MonthlyRecord) float64) float64 {
		values := make([]float64, len(records))
		for i, r := range records {
			values[i] = get(r)
		}
		return floats.Sum(values)
	}

	return models.MonthlyRecord{
		GrossRevenue:       column(func(r models.MonthlyRecord) float64 { return r.GrossRevenue }),
		Discount:           column(func(r models.MonthlyRecord) float64 { return r.Discount }),
		NetRevenue:         column(func(r models.MonthlyRecord) float64 { return r.NetRevenue }),
		ProductCost:        column(func(r models.MonthlyRecord) float64 { return r.ProductCost }),
		ICMSCost:           column(func(r models.MonthlyRecord) float64 { return r.ICMSCost }),
		PackagingCost:      column(func(r models.MonthlyRecord) float64 { return r.PackagingCost }),
		COGS:               column(func(r models.MonthlyRecord) float64 { return r.COGS }),
		Suppliers:          column(func(r models.MonthlyRecord) float64 { return r.Suppliers }),
		VariableExpenses:   column(func(r models.MonthlyRecord) float64 { return r.VariableExpenses }),
		ContributionMargin: column(func(r models.MonthlyRecord) float64 { return r.ContributionMargin }),
		FixedExpenses:      column(func(r models.MonthlyRecord) float64 { return r.FixedExpenses }),
		OperatingProfit:    column(func(r models.MonthlyRecord) float64 { return r.OperatingProfit }),
		OtherExpenses:      column(func(r models.MonthlyRecord) float64 { return r.OtherExpenses }),
		NetProfit:          column(func(r models.MonthlyRecord) float64 { return r.NetProfit }),
		TotalCost:          column(func(r models.MonthlyRecord) float64 { return r.TotalCost }),
	}
}

// Ratios returns the contribution margin and variable cost ratios of a month,
// both over net revenue. A month without net revenue has no ratio; both are
// reported as zero. Supplier payments are not part of the variable cost.
func Ratios(month models.MonthlyRecord) (marginRatio, variableRatio float64) {
	if month.NetRevenue == 0 {
		return 0, 0
	}
	marginRatio = month.ContributionMargin / month.NetRevenue
	variableRatio = (month.COGS + month.VariableExpenses) / month.NetRevenue
	return marginRatio, variableRatio
}

// BreakEvenFor computes the operational and general break-even revenues. When
// net revenue or contribution margin is not positive both are +Inf.
func BreakEvenFor(month models.MonthlyRecord, marginRatio float64) models.BreakEven {
	if !(month.NetRevenue > 0 && month.ContributionMargin > 0) || !(marginRatio > 0) {
		return models.BreakEven{Operational: math.Inf(1), General: math.Inf(1)}
	}
	return models.BreakEven{
		Operational: month.FixedExpenses / marginRatio,
		General:     (month.FixedExpenses + month.OtherExpenses) / marginRatio,
	}
}

// Sensitivity scales the operational break-even by SensitivityMultipliers and
// pairs each revenue with the expenses it carries. An unreachable break-even
// yields +Inf on both axes.
func Sensitivity(be models.BreakEven, fixed, variableRatio float64) []models.SensitivityPoint {
	points := make([]models.SensitivityPoint, 0, len(SensitivityMultipliers))
	for _, m := range SensitivityMultipliers {
		if !be.Reachable() {
			points = append(points, models.SensitivityPoint{
				Multiplier: m,
				Revenue:    math.Inf(1),
				Expenses:   math.Inf(1),
			})
			continue
		}
		revenue := be.Operational * m
		points = append(points, models.SensitivityPoint{
			Multiplier: m,
			Revenue:    revenue,
			Expenses:   fixed + variableRatio*revenue,
		})
	}
	return points
}

// Composition expresses each cost group as a fraction of total gross revenue.
// The fractions do not add up to one since costs are not measured against net
// revenue.
func Composition(totals models.MonthlyRecord) []models.CostShare {
	return []models.CostShare{
		{Key: "cmv", Label: "CMV", Share: share(totals.COGS, totals.GrossRevenue)},
		{Key: "despesas_variaveis", Label: "Despesas Variáveis", Share: share(totals.VariableExpenses, totals.GrossRevenue)},
		{Key: "despesas_fixas", Label: "Despesas Fixas", Share: share(totals.FixedExpenses, totals.GrossRevenue)},
		{Key: "outras_despesas", Label: "Outras Despesas", Share: share(totals.OtherExpenses, totals.GrossRevenue)},
	}
}

// Statement lays the period totals out as a consolidated income statement,
// each line with its share of gross revenue.
func Statement(totals models.MonthlyRecord) []models.StatementLine {
	lines := []models.StatementLine{
		{Key: "receita_bruta", Label: "Receita Bruta", Total: totals.GrossRevenue},
		{Key: "descontos", Label: "(-) Descontos", Total: totals.Discount},
		{Key: "receita_liquida", Label: "(=) Receita Líquida", Total: totals.NetRevenue},
		{Key: "cmv", Label: "(-) CMV", Total: totals.COGS},
		{Key: "despesas_variaveis", Label: "(-) Despesas Variáveis", Total: totals.VariableExpenses},
		{Key: "margem_contribuicao", Label: "(=) Margem de Contribuição", Total: totals.ContributionMargin, Result: true},
		{Key: "despesas_fixas", Label: "(-) Despesas Fixas", Total: totals.FixedExpenses},
		{Key: "lucro_operacional", Label: "(=) Lucro Operacional", Total: totals.OperatingProfit, Result: true},
		{Key: "outras_despesas", Label: "(-) Outras Despesas", Total: totals.OtherExpenses},
		{Key: "lucro_liquido", Label: "(=) Lucro Líquido", Total: totals.NetProfit, Result: true},
	}
	for i := range lines {
		lines[i].ShareOfGross = share(lines[i].Total, totals.GrossRevenue)
	}
	return lines
}

// share divides part by whole. A zero whole gives zero for a zero part and a
// signed infinity otherwise.
func share(part, whole float64) float64 {
	if whole == 0 {
		switch {
		case part > 0:
			return math.Inf(1)
		case part < 0:
			return math.Inf(-1)
		default:
			return 0
		}
	}
	return part / whole
}
