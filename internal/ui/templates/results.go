package templates

import (
	"html/template"
	"strings"

	"breakeven-simulator/internal/format"
	"breakeven-simulator/internal/models"
	"breakeven-simulator/internal/projection"
)

var monthNames = [...]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// calendarMonth maps a 1-based projection month to its calendar month.
func calendarMonth(start, month int) int {
	return projection.CalendarMonth(start, month-1)
}

func sign(v float64) string {
	if v >= 0 {
		return "positive"
	}
	return "negative"
}

var funcs = template.FuncMap{
	"currency":  format.Currency,
	"percent":   format.Percent,
	"number":    format.Number,
	"monthName": monthName,
	"calendar":  calendarMonth,
	"sign":      sign,
}

var resultsTemplate = template.Must(template.New("results").Funcs(funcs).Parse(`
<div id="results-{{.Scenario.Key}}" class="results">
{{with .Warnings}}<ul class="warnings">{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}
<h4>Ponto de Equilíbrio</h4>
{{if .Analysis.BreakEven.Reachable}}<div class="metrics">
<div class="metric" title="Receita necessária para cobrir custos, despesas fixas e outras despesas."><span>Ponto de Equilíbrio Geral</span><strong>{{currency .Analysis.BreakEven.General}}</strong></div>
<div class="metric" title="Receita necessária para cobrir custos e despesas fixas operacionais."><span>Ponto de Equilíbrio Operacional</span><strong>{{currency .Analysis.BreakEven.Operational}}</strong></div>
<div class="metric"><span>Margem de Contribuição</span><strong>{{percent .Analysis.ContributionMarginRatio}}</strong></div>
</div>{{else}}<p class="notice">Sua margem de contribuição é negativa ou quase zero, o ponto de equilíbrio, nesse caso, <strong>não existe</strong> (ou é infinito). Tente reduzir o desconto ou os seus custos variáveis.</p>{{end}}
<h4>DRE Consolidado (12 Meses)</h4>
<table class="modern-table statement">
<thead><tr><th></th><th>Total (R$)</th><th>(%)</th></tr></thead>
<tbody>
{{range .Analysis.Statement}}<tr{{if .Result}} class="{{sign .Total}}"{{end}}>
<td>{{.Label}}</td>
<td>{{currency .Total}}</td>
<td>{{percent .ShareOfGross}}</td>
</tr>{{end}}
</tbody>
</table>
<h4>Composição das Despesas sobre a Receita Bruta</h4>
<ul class="composition">
{{range .Analysis.Composition}}<li data-kind="{{.Key}}">{{.Label}}: {{percent .Share}}</li>{{end}}
</ul>
<h4>Fluxo de Caixa Consolidado (12 Meses)</h4>
<table class="modern-table cashflow">
<tbody>
{{with .CashFlow.Totals}}<tr><td>Entradas</td><td>{{currency .CashIn}}</td></tr>
<tr><td>(-) Fornecedores</td><td>{{currency .Suppliers}}</td></tr>
<tr><td>(-) Despesas Variáveis</td><td>{{currency .VariableExpenses}}</td></tr>
<tr><td>(-) Despesas Fixas</td><td>{{currency .FixedExpenses}}</td></tr>
<tr><td>(-) Outras Despesas</td><td>{{currency .OtherExpenses}}</td></tr>
<tr class="{{sign .CashGeneration}}"><td>(=) Geração de Caixa</td><td>{{currency .CashGeneration}}</td></tr>{{end}}
</tbody>
</table>
<details>
<summary>Projeção mensal</summary>
<table class="modern-table monthly">
<thead><tr><th>Mês</th><th>Receita Bruta</th><th>Receita Líquida</th><th>Lucro Líquido</th><th>Geração de Caixa</th></tr></thead>
<tbody>
{{range $i, $r := .Records}}{{$cash := index $.CashFlow.Months $i}}<tr>
<td>{{monthName (calendar $.StartMonth $r.Month)}}</td>
<td>{{currency $r.GrossRevenue}}</td>
<td>{{currency $r.NetRevenue}}</td>
<td class="{{sign $r.NetProfit}}">{{currency $r.NetProfit}}</td>
<td class="{{sign $cash.CashGeneration}}">{{currency $cash.CashGeneration}}</td>
</tr>{{end}}
</tbody>
</table>
<a href="/api/scenarios/{{.Scenario.Key}}/projection.csv" download>Baixar CSV (cenário base)</a>
</details>
</div>`))

// Results renders the result fragment of one scenario. Its root element id is
// results-{key}, which datastar uses to morph it into the page.
func Results(result models.ScenarioResult) (string, error) {
	var buf strings.Builder
	if err := resultsTemplate.Execute(&buf, result); err != nil {
		return "", err
	}
	return buf.String(), nil
}
