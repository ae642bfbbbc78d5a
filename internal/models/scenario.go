package models

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ScenarioParameters holds the assumptions of one what-if scenario. Rates are
// percentages (10 means 10%) and amounts are monthly values.
type ScenarioParameters struct {
	InitialRevenue  float64 `json:"receita_inicial" yaml:"receita_inicial"`
	MonthlyGrowth   float64 `json:"crescimento_mensal" yaml:"crescimento_mensal"`
	AverageDiscount float64 `json:"desconto_medio" yaml:"desconto_medio"`
	Markup          float64 `json:"markup_partida" yaml:"markup_partida"`
	ICMSDifal       float64 `json:"icms_difal" yaml:"icms_difal"`
	Packaging       float64 `json:"embalagens" yaml:"embalagens"`
	FixedCost       float64 `json:"custo_fixo_mensal" yaml:"custo_fixo_mensal"`
	SalesTax        float64 `json:"impostos_vendas" yaml:"impostos_vendas"`
	CardFee         float64 `json:"tarifa_cartao" yaml:"tarifa_cartao"`
	Commissions     float64 `json:"comissoes_vendas" yaml:"comissoes_vendas"`
	Marketing       float64 `json:"marketing_vendas" yaml:"marketing_vendas"`
	Loans           float64 `json:"emprestimos" yaml:"emprestimos"`
	PartnerDraws    float64 `json:"retiradas_socios" yaml:"retiradas_socios"`
	Suppliers       float64 `json:"fornecedores" yaml:"fornecedores"`
	CashInPercent   float64 `json:"pct_entradas" yaml:"pct_entradas"`
}

type Scenario struct {
	Key    string             `json:"key" yaml:"key"`
	Name   string             `json:"name" yaml:"name"`
	Params ScenarioParameters `json:"params" yaml:"params"`
}

type fieldKind int

const (
	kindAmount fieldKind = iota
	kindPercent
	kindRate
	kindMarkup
)

type fieldSpec struct {
	name string
	kind fieldKind
	get  func(*ScenarioParameters) *float64
}

// fields is ordered as the input form lays the parameters out.
var fields = []fieldSpec{
	{"receita_inicial", kindAmount, func(p *ScenarioParameters) *float64 { return &p.InitialRevenue }},
	{"crescimento_mensal", kindRate, func(p *ScenarioParameters) *float64 { return &p.MonthlyGrowth }},
	{"desconto_medio", kindPercent, func(p *ScenarioParameters) *float64 { return &p.AverageDiscount }},
	{"markup_partida", kindMarkup, func(p *ScenarioParameters) *float64 { return &p.Markup }},
	{"icms_difal", kindPercent, func(p *ScenarioParameters) *float64 { return &p.ICMSDifal }},
	{"embalagens", kindPercent, func(p *ScenarioParameters) *float64 { return &p.Packaging }},
	{"fornecedores", kindAmount, func(p *ScenarioParameters) *float64 { return &p.Suppliers }},
	{"impostos_vendas", kindPercent, func(p *ScenarioParameters) *float64 { return &p.SalesTax }},
	{"tarifa_cartao", kindPercent, func(p *ScenarioParameters) *float64 { return &p.CardFee }},
	{"comissoes_vendas", kindPercent, func(p *ScenarioParameters) *float64 { return &p.Commissions }},
	{"marketing_vendas", kindPercent, func(p *ScenarioParameters) *float64 { return &p.Marketing }},
	{"custo_fixo_mensal", kindAmount, func(p *ScenarioParameters) *float64 { return &p.FixedCost }},
	{"emprestimos", kindAmount, func(p *ScenarioParameters) *float64 { return &p.Loans }},
	{"retiradas_socios", kindAmount, func(p *ScenarioParameters) *float64 { return &p.PartnerDraws }},
	{"pct_entradas", kindPercent, func(p *ScenarioParameters) *float64 { return &p.CashInPercent }},
}

// FieldNames returns the wire names of every editable parameter.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func lookupField(name string) (fieldSpec, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return fieldSpec{}, false
}

// Field reads a parameter by its wire name.
func (p ScenarioParameters) Field(name string) (float64, bool) {
	f, ok := lookupField(name)
	if !ok {
		return 0, false
	}
	return *f.get(&p), true
}

// WithField returns a copy of p with one parameter replaced. The receiver is
// left untouched.
func (p ScenarioParameters) WithField(name string, value float64) (ScenarioParameters, error) {
	f, ok := lookupField(name)
	if !ok {
		return p, fmt.Errorf("unknown parameter %q, must be one of: %s", name, strings.Join(FieldNames(), ", "))
	}
	if !isFinite(value) {
		return p, fmt.Errorf("parameter %q must be a finite number", name)
	}
	next := p
	*f.get(&next) = value
	return next, nil
}

// Validate rejects values the engine cannot give a meaning to. Finite values
// outside their usual range are accepted; see RangeWarnings.
func (p ScenarioParameters) Validate() error {
	var bad []string
	for _, f := range fields {
		if !isFinite(*f.get(&p)) {
			bad = append(bad, f.name)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("non-finite parameters: %s", strings.Join(bad, ", "))
	}
	return nil
}

// RangeWarnings lists the parameters that sit outside the range the input
// form allows. The projection still runs with them.
func (p ScenarioParameters) RangeWarnings() []string {
	var warnings []string
	for _, f := range fields {
		v := *f.get(&p)
		switch f.kind {
		case kindAmount:
			if v < 0 {
				warnings = append(warnings, fmt.Sprintf("%s is negative", f.name))
			}
		case kindPercent:
			if v < 0 || v > 100 {
				warnings = append(warnings, fmt.Sprintf("%s outside [0,100]", f.name))
			}
		case kindMarkup:
			if v < 1 {
				warnings = append(warnings, fmt.Sprintf("%s below 1", f.name))
			}
		}
	}
	return warnings
}

// Seasonality maps a calendar month (1..12) to a revenue multiplier.
type Seasonality map[int]float64

func DefaultSeasonality() Seasonality {
	s := make(Seasonality, 12)
	for m := 1; m <= 12; m++ {
		s[m] = 1.0
	}
	return s
}

// Factor returns the multiplier for a calendar month, 1.0 when absent.
func (s Seasonality) Factor(month int) float64 {
	if f, ok := s[month]; ok {
		return f
	}
	return 1.0
}

func (s Seasonality) Clone() Seasonality {
	out := make(Seasonality, len(s))
	for m, f := range s {
		out[m] = f
	}
	return out
}

func (s Seasonality) Validate() error {
	months := make([]int, 0, len(s))
	for m := range s {
		months = append(months, m)
	}
	slices.Sort(months)
	for _, m := range months {
		if m < 1 || m > 12 {
			return fmt.Errorf("seasonality month %d outside 1..12", m)
		}
		if !isFinite(s[m]) {
			return fmt.Errorf("seasonality factor for month %d must be a finite number", m)
		}
	}
	return nil
}

func ValidateStartMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("start month must be between 1 and 12, got %d", month)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
