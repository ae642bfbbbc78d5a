package breakeven

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCashFlow_PerMonth(t *testing.T) {
	records := project(conservador())
	view := CashFlow(records, 95)

	if len(view.Months) != len(records) {
		t.Fatalf("expected %d months, got %d", len(records), len(view.Months))
	}

	for i, m := range view.Months {
		r := records[i]
		if m.Month != r.Month {
			t.Errorf("month %d: got %d", r.Month, m.Month)
		}
		if want := r.NetRevenue * 0.95; !closeTo(m.CashIn, want) {
			t.Errorf("month %d: expected cash in %f, got %f", r.Month, want, m.CashIn)
		}
		want := m.CashIn - r.Suppliers - r.VariableExpenses - r.FixedExpenses - r.OtherExpenses
		if !closeTo(m.CashGeneration, want) {
			t.Errorf("month %d: expected cash generation %f, got %f", r.Month, want, m.CashGeneration)
		}
	}

	var generation float64
	for _, m := range view.Months {
		generation += m.CashGeneration
	}
	if !closeTo(view.Totals.CashGeneration, generation) {
		t.Errorf("expected total cash generation %f, got %f", generation, view.Totals.CashGeneration)
	}
	if view.Totals.Month != 0 {
		t.Errorf("totals should not carry a month, got %d", view.Totals.Month)
	}
}

func TestCashFlow_DoesNotTouchAccrualFigures(t *testing.T) {
	params := conservador()
	records := project(params)
	snapshot := append(records[:0:0], records...)
	before := Analyze(records)

	low := CashFlow(records, 10)
	high := CashFlow(records, 100)

	if diff := cmp.Diff(snapshot, records); diff != "" {
		t.Errorf("cash flow modified the projection:\n%s", diff)
	}

	params.CashInPercent = 10
	after := Analyze(project(params))
	if diff := cmp.Diff(before.Totals, after.Totals); diff != "" {
		t.Errorf("collection rate changed the income statement totals:\n%s", diff)
	}
	if before.BreakEven != after.BreakEven {
		t.Error("collection rate changed the break-even")
	}

	if low.Totals.CashIn >= high.Totals.CashIn {
		t.Error("a higher collection rate should bring more cash in")
	}
	if low.Totals.FixedExpenses != high.Totals.FixedExpenses {
		t.Error("cash out should not depend on the collection rate")
	}
}
