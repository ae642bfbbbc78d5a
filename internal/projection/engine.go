// Package projection turns a scenario's assumptions into a 12-month income
// statement.
package projection

import (
	"math"

	"breakeven-simulator/internal/models"
)

// Months is the length of every projection.
const Months = 12

// Project computes twelve monthly records for one scenario. Month i maps to
// calendar month ((startMonth+i-1) mod 12)+1 for the seasonality lookup, and
// revenue growth compounds on the previous month's gross revenue before
// seasonality is applied to the current month.
//
// Project never fails: out-of-range parameters produce mathematically
// consistent (possibly negative) figures. It only reads seasonality, so the
// same map can be shared by concurrent calls.
func Project(params models.ScenarioParameters, seasonality models.Seasonality, startMonth int) []models.MonthlyRecord {
	records := make([]models.MonthlyRecord, 0, Months)
	previousGross := params.InitialRevenue

	for i := 0; i < Months; i++ {
		factor := seasonality.Factor(CalendarMonth(startMonth, i))

		var gross float64
		if i == 0 {
			gross = previousGross * factor
		} else {
			gross = previousGross * (1 + params.MonthlyGrowth/100) * factor
		}

		discount := gross * (params.AverageDiscount / 100)
		net := gross * (1 - params.AverageDiscount/100)

		productCost := productCost(gross, params.Markup)
		icms := icmsCost(productCost, params.ICMSDifal)
		packaging := gross * (params.Packaging / 100)
		cogs := productCost + icms + packaging
		if math.IsInf(productCost, 0) {
			cogs = productCost
		}

		taxes := net * (params.SalesTax / 100)
		card := net * (params.CardFee / 100)
		commissions := net * (params.Commissions / 100)
		marketing := net * (params.Marketing / 100)
		variable := taxes + card + commissions + marketing

		margin := net - cogs - variable
		operating := margin - params.FixedCost
		other := params.Loans + params.PartnerDraws

		records = append(records, models.MonthlyRecord{
			Month:              i + 1,
			GrossRevenue:       gross,
			Discount:           discount,
			NetRevenue:         net,
			ProductCost:        productCost,
			ICMSCost:           icms,
			PackagingCost:      packaging,
			COGS:               cogs,
			Suppliers:          params.Suppliers,
			VariableExpenses:   variable,
			ContributionMargin: margin,
			FixedExpenses:      params.FixedCost,
			OperatingProfit:    operating,
			OtherExpenses:      other,
			NetProfit:          operating - other,
			TotalCost:          cogs + variable + params.FixedCost + other,
		})

		previousGross = gross
	}

	return records
}

// CalendarMonth maps a projection index to its calendar month (1..12).
func CalendarMonth(startMonth, index int) int {
	m := (startMonth + index - 1) % 12
	if m < 0 {
		m += 12
	}
	return m + 1
}

// productCost backs the purchase cost out of gross revenue. A zero markup is
// outside the parameter contract: it yields an infinity with the sign of
// gross, never a finite figure, so the break-even derivation reports it as
// unreachable.
func productCost(gross, markup float64) float64 {
	if gross == 0 {
		return 0
	}
	if markup == 0 {
		if gross < 0 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return gross / markup
}

// icmsCost is the ICMS DIFAL surcharge on the product cost. A zero rate costs
// nothing even when the product cost is infinite.
func icmsCost(productCost, rate float64) float64 {
	if rate == 0 {
		return 0
	}
	return productCost * (rate / 100)
}
