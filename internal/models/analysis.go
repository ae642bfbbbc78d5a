package models

import (
	"encoding/json"
	"math"
)

// BreakEven holds the revenue thresholds derived from the first projected
// month. Both are +Inf when the contribution margin cannot cover costs.
type BreakEven struct {
	Operational float64
	General     float64
}

// Reachable reports whether a finite break-even revenue exists. Callers must
// check it before formatting the thresholds.
func (b BreakEven) Reachable() bool {
	return !math.IsInf(b.Operational, 1) && !math.IsNaN(b.Operational)
}

func (b BreakEven) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operational *float64 `json:"operacional"`
		General     *float64 `json:"geral"`
		Reachable   bool     `json:"existe"`
	}{Finite(b.Operational), Finite(b.General), b.Reachable()})
}

type SensitivityPoint struct {
	Multiplier float64
	Revenue    float64
	Expenses   float64
}

func (p SensitivityPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Multiplier float64  `json:"multiplicador"`
		Revenue    *float64 `json:"receitas"`
		Expenses   *float64 `json:"despesas"`
	}{p.Multiplier, Finite(p.Revenue), Finite(p.Expenses)})
}

// CostShare is one slice of the cost composition over total gross revenue.
type CostShare struct {
	Key   string
	Label string
	Share float64
}

func (c CostShare) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key   string   `json:"tipo"`
		Label string   `json:"rotulo"`
		Share *float64 `json:"valor"`
	}{c.Key, c.Label, Finite(c.Share)})
}

// StatementLine is one row of the consolidated 12-month income statement.
// Result rows are the ones displayed with a positive/negative highlight.
type StatementLine struct {
	Key          string
	Label        string
	Total        float64
	ShareOfGross float64
	Result       bool
}

func (l StatementLine) Positive() bool {
	return l.Total >= 0
}

func (l StatementLine) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key          string   `json:"chave"`
		Label        string   `json:"rotulo"`
		Total        *float64 `json:"total"`
		ShareOfGross *float64 `json:"percentual"`
		Result       bool     `json:"resultado"`
	}{l.Key, l.Label, Finite(l.Total), Finite(l.ShareOfGross), l.Result})
}

// Analysis is the period aggregate and break-even derivation of one
// projection. Totals.Month is left zero.
type Analysis struct {
	Totals                  MonthlyRecord
	ContributionMarginRatio float64
	VariableCostRatio       float64
	BreakEven               BreakEven
	Sensitivity             []SensitivityPoint
	Composition             []CostShare
	Statement               []StatementLine
}

func (a Analysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Totals                  MonthlyRecord      `json:"totais"`
		ContributionMarginRatio *float64           `json:"pct_margem_contribuicao"`
		VariableCostRatio       *float64           `json:"pct_variavel"`
		BreakEven               BreakEven          `json:"ponto_equilibrio"`
		Sensitivity             []SensitivityPoint `json:"sensibilidade"`
		Composition             []CostShare        `json:"composicao"`
		Statement               []StatementLine    `json:"dre"`
	}{
		Totals:                  a.Totals,
		ContributionMarginRatio: Finite(a.ContributionMarginRatio),
		VariableCostRatio:       Finite(a.VariableCostRatio),
		BreakEven:               a.BreakEven,
		Sensitivity:             a.Sensitivity,
		Composition:             a.Composition,
		Statement:               a.Statement,
	})
}

type CashFlowMonth struct {
	Month            int
	CashIn           float64
	Suppliers        float64
	VariableExpenses float64
	FixedExpenses    float64
	OtherExpenses    float64
	CashGeneration   float64
}

func (c CashFlowMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Month            int      `json:"mes,omitempty"`
		CashIn           *float64 `json:"entradas"`
		Suppliers        *float64 `json:"fornecedores"`
		VariableExpenses *float64 `json:"despesas_variaveis"`
		FixedExpenses    *float64 `json:"despesas_fixas"`
		OtherExpenses    *float64 `json:"outras_despesas"`
		CashGeneration   *float64 `json:"geracao_caixa"`
	}{
		Month:            c.Month,
		CashIn:           Finite(c.CashIn),
		Suppliers:        Finite(c.Suppliers),
		VariableExpenses: Finite(c.VariableExpenses),
		FixedExpenses:    Finite(c.FixedExpenses),
		OtherExpenses:    Finite(c.OtherExpenses),
		CashGeneration:   Finite(c.CashGeneration),
	})
}

// CashFlowView is the cash-basis reading of a projection. Totals.Month is
// left zero.
type CashFlowView struct {
	CashInPercent float64         `json:"pct_entradas"`
	Months        []CashFlowMonth `json:"meses"`
	Totals        CashFlowMonth   `json:"totais"`
}

// ScenarioResult bundles everything one pipeline run produces for a scenario.
type ScenarioResult struct {
	Scenario   Scenario        `json:"cenario"`
	StartMonth int             `json:"mes_inicial"`
	Records    []MonthlyRecord `json:"projecao"`
	Analysis   Analysis        `json:"analise"`
	CashFlow   CashFlowView    `json:"fluxo_caixa"`
	Warnings   []string        `json:"avisos,omitempty"`
}
