package models

import (
	"encoding/json"
	"math"
)

// MonthlyRecord is one projected month of the income statement. Every field is
// derived from the scenario parameters.
type MonthlyRecord struct {
	Month              int
	GrossRevenue       float64
	Discount           float64
	NetRevenue         float64
	ProductCost        float64
	ICMSCost           float64
	PackagingCost      float64
	COGS               float64
	Suppliers          float64
	VariableExpenses   float64
	ContributionMargin float64
	FixedExpenses      float64
	OperatingProfit    float64
	OtherExpenses      float64
	NetProfit          float64
	TotalCost          float64
}

func (r MonthlyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Month              int      `json:"mes"`
		GrossRevenue       *float64 `json:"receita_bruta"`
		Discount           *float64 `json:"descontos"`
		NetRevenue         *float64 `json:"receita_liquida"`
		ProductCost        *float64 `json:"custo_produto"`
		ICMSCost           *float64 `json:"custo_icms"`
		PackagingCost      *float64 `json:"custo_embalagens"`
		COGS               *float64 `json:"cmv"`
		Suppliers          *float64 `json:"fornecedores"`
		VariableExpenses   *float64 `json:"despesas_variaveis"`
		ContributionMargin *float64 `json:"margem_contribuicao"`
		FixedExpenses      *float64 `json:"despesas_fixas"`
		OperatingProfit    *float64 `json:"lucro_operacional"`
		OtherExpenses      *float64 `json:"outras_despesas"`
		NetProfit          *float64 `json:"lucro_liquido"`
		TotalCost          *float64 `json:"custo_total"`
	}{
		Month:              r.Month,
		GrossRevenue:       Finite(r.GrossRevenue),
		Discount:           Finite(r.Discount),
		NetRevenue:         Finite(r.NetRevenue),
		ProductCost:        Finite(r.ProductCost),
		ICMSCost:           Finite(r.ICMSCost),
		PackagingCost:      Finite(r.PackagingCost),
		COGS:               Finite(r.COGS),
		Suppliers:          Finite(r.Suppliers),
		VariableExpenses:   Finite(r.VariableExpenses),
		ContributionMargin: Finite(r.ContributionMargin),
		FixedExpenses:      Finite(r.FixedExpenses),
		OperatingProfit:    Finite(r.OperatingProfit),
		OtherExpenses:      Finite(r.OtherExpenses),
		NetProfit:          Finite(r.NetProfit),
		TotalCost:          Finite(r.TotalCost),
	})
}

// Finite returns nil for NaN and infinities so they encode as JSON null.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
