package breakeven

import (
	"breakeven-simulator/internal/models"
)

// CashFlow builds the cash-basis view of a projection: only cashInPercent of
// each month's net revenue is collected, while supplier payments and every
// expense group leave in full. The records are read, never modified.
func CashFlow(records []models.MonthlyRecord, cashInPercent float64) models.CashFlowView {
	view := models.CashFlowView{
		CashInPercent: cashInPercent,
		Months:        make([]models.CashFlowMonth, 0, len(records)),
	}

	for _, r := range records {
		m := models.CashFlowMonth{
			Month:            r.Month,
			CashIn:           r.NetRevenue * (cashInPercent / 100),
			Suppliers:        r.Suppliers,
			VariableExpenses: r.VariableExpenses,
			FixedExpenses:    r.FixedExpenses,
			OtherExpenses:    r.OtherExpenses,
		}
		m.CashGeneration = m.CashIn - m.Suppliers - m.VariableExpenses - m.FixedExpenses - m.OtherExpenses
		view.Months = append(view.Months, m)

		view.Totals.CashIn += m.CashIn
		view.Totals.Suppliers += m.Suppliers
		view.Totals.VariableExpenses += m.VariableExpenses
		view.Totals.FixedExpenses += m.FixedExpenses
		view.Totals.OtherExpenses += m.OtherExpenses
		view.Totals.CashGeneration += m.CashGeneration
	}

	return view
}
