package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"breakeven-simulator/internal/models"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.5/bundles/datastar.js"

type input struct {
	Field string
	Label string
	Min   string
	Max   string
	Step  string
}

type section struct {
	Title  string
	Inputs []input
}

// sections mirrors the bounds and steps of the parameter form.
var sections = []section{
	{"1. Projeção de Receitas", []input{
		{"receita_inicial", "Receita no Primeiro Mês (R$)", "0", "", "1000"},
		{"crescimento_mensal", "Crescimento Mensal das Vendas (%)", "", "", "0.5"},
		{"desconto_medio", "Desconto Médio Mensal (%)", "0", "100", "0.1"},
	}},
	{"2. Fornecedores/CMV", []input{
		{"markup_partida", "Markup de Partida", "1", "", "0.1"},
		{"icms_difal", "ICMS DIFAL (%)", "0", "100", "0.1"},
		{"embalagens", "Embalagens (%)", "0", "100", "0.1"},
		{"fornecedores", "Pgto. Mensal para Fornecedores (R$)", "0", "", "1000"},
	}},
	{"3.1 Despesas Variáveis", []input{
		{"impostos_vendas", "Impostos sobre Vendas (%)", "0", "100", "0.1"},
		{"tarifa_cartao", "Tarifa de Cartão (%)", "0", "100", "0.1"},
		{"comissoes_vendas", "Comissões sobre Vendas (%)", "0", "100", "0.1"},
		{"marketing_vendas", "Marketing sobre Vendas (%)", "0", "100", "0.1"},
	}},
	{"3.2 Despesas Fixas", []input{
		{"custo_fixo_mensal", "Despesa Fixa Mensal (R$)", "0", "", "500"},
	}},
	{"3.3 Outras Despesas", []input{
		{"emprestimos", "Empréstimos (R$)", "0", "", "100"},
		{"retiradas_socios", "Retiradas dos Sócios (R$)", "0", "", "500"},
	}},
	{"Fluxo de Caixa", []input{
		{"pct_entradas", "Entradas de Caixa (% Receita Líquida)", "0", "100", "0.1"},
	}},
}

type column struct {
	Scenario models.Scenario
	Results  template.HTML
}

type month struct {
	Name   string
	Signal string
}

type dashboardData struct {
	Script   string
	Signals  string
	Sections []section
	Columns  []column
	Months   []month
}

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Simulador Financeiro: Ponto de Equilíbrio</title>
<script type="module" src="{{.Script}}"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0 2rem;color:#222}
.columns{display:grid;grid-template-columns:repeat(auto-fit,minmax(320px,1fr));gap:2rem}
label{display:block;font-size:.85rem;margin-top:.5rem}
input{width:100%;box-sizing:border-box}
.metrics{display:flex;gap:1rem;flex-wrap:wrap}
.metric{display:flex;flex-direction:column}
.modern-table{width:100%;border-collapse:collapse;font-size:.85rem}
.modern-table td,.modern-table th{padding:.25rem .5rem;border-bottom:1px solid #eee;text-align:right}
.modern-table td:first-child{text-align:left}
.positive{color:green}
.negative{color:red}
.warnings{color:#a15c00}
.calendar{display:grid;grid-template-columns:repeat(6,1fr);gap:.5rem}
</style>
</head>
<body data-signals='{{.Signals}}'>
<h1>📊 Simulador Financeiro: Ponto de Equilíbrio</h1>
<form data-on-input__debounce.300ms="@post('/sse/simulate')" onsubmit="return false">
<fieldset>
<legend>Calendário</legend>
<label>Mês inicial da projeção
<input type="number" min="1" max="12" step="1" data-bind="mes_inicial">
</label>
<div class="calendar">
{{range .Months}}<label>Sazonalidade {{.Name}}<input type="number" step="0.1" data-bind="sazonalidade.{{.Signal}}"></label>{{end}}
</div>
</fieldset>
<div class="columns">
{{range $col := .Columns}}<section>
<h2>{{$col.Scenario.Name}}</h2>
<button type="button" data-on-click="@get('/sse/scenarios/{{$col.Scenario.Key}}/reset')">Restaurar valores</button>
{{range $.Sections}}<h3>{{.Title}}</h3>
{{range .Inputs}}<label>{{.Label}}<input type="number"{{if .Min}} min="{{.Min}}"{{end}}{{if .Max}} max="{{.Max}}"{{end}} step="{{.Step}}" data-bind="cenarios.{{$col.Scenario.Key}}.{{.Field}}"></label>
{{end}}{{end}}
<h3>4. Resultados</h3>
<canvas id="sensitivity-{{$col.Scenario.Key}}" height="220"></canvas>
<canvas id="composition-{{$col.Scenario.Key}}" height="220"></canvas>
{{$col.Results}}
</section>
{{end}}</div>
</form>
<div data-effect="window.renderCharts && window.renderCharts($charts)"></div>
<script>
const palette = {cmv: "#5c6b73", despesas_variaveis: "#8f9e8b", despesas_fixas: "#c9d1c8", outras_despesas: "#f0e2d0"};
const charts = {};
const brl = v => v == null ? "∞" : v.toLocaleString("pt-BR", {style: "currency", currency: "BRL"});
function draw(id, config) {
	const canvas = document.getElementById(id);
	if (!canvas) return;
	if (charts[id]) charts[id].destroy();
	charts[id] = new Chart(canvas, config);
}
window.renderCharts = function (data) {
	if (!data) return;
	for (const [key, d] of Object.entries(data)) {
		const be = d.ponto_equilibrio;
		const sens = d.sensibilidade || [];
		draw("sensitivity-" + key, {
			type: "line",
			data: {
				labels: sens.map(p => p.multiplicador),
				datasets: [
					{label: "Receitas", data: sens.map(p => p.receitas)},
					{label: "Despesas", data: sens.map(p => p.despesas)},
					{label: "Ponto de Equilíbrio", data: sens.map(() => be), borderDash: [4, 4], pointRadius: 0},
				],
			},
			options: {plugins: {title: {display: true, text: "Ponto de Equilíbrio Operacional"}}, scales: {x: {display: false}, y: {ticks: {callback: brl}}}},
		});
		const comp = d.composicao || [];
		draw("composition-" + key, {
			type: "doughnut",
			data: {
				labels: comp.map(c => c.rotulo),
				datasets: [{data: comp.map(c => c.valor), backgroundColor: comp.map(c => palette[c.tipo])}],
			},
			options: {cutout: "40%", plugins: {title: {display: true, text: "Percentual sobre a Receita"}, tooltip: {callbacks: {label: c => c.label + ": " + (c.raw * 100).toFixed(2).replace(".", ",") + "%"}}}},
		});
	}
};
</script>
</body>
</html>`))

// Dashboard renders the simulator page with the results of the presets
// already in place, so the first paint needs no round trip.
func Dashboard(results []models.ScenarioResult, seasonality models.Seasonality, startMonth int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, err := newDashboardData(results, seasonality, startMonth)
		if err != nil {
			return err
		}
		return dashboardTemplate.Execute(w, data)
	})
}

func newDashboardData(results []models.ScenarioResult, seasonality models.Seasonality, startMonth int) (dashboardData, error) {
	scenarios := make([]models.Scenario, len(results))
	charts := make(map[string]ChartData, len(results))
	columns := make([]column, len(results))

	for i, r := range results {
		scenarios[i] = r.Scenario
		charts[r.Scenario.Key] = NewChartData(r)

		html, err := Results(r)
		if err != nil {
			return dashboardData{}, fmt.Errorf("render results for %s: %w", r.Scenario.Key, err)
		}
		columns[i] = column{Scenario: r.Scenario, Results: template.HTML(html)}
	}

	signals, err := json.Marshal(struct {
		Signals
		Charts map[string]ChartData `json:"charts"`
	}{NewSignals(scenarios, seasonality, startMonth), charts})
	if err != nil {
		return dashboardData{}, fmt.Errorf("encode signals: %w", err)
	}

	months := make([]month, 12)
	for i := range months {
		months[i] = month{Name: monthName(i + 1), Signal: seasonalityKey(i + 1)}
	}

	return dashboardData{
		Script:   datastarScript,
		Signals:  string(signals),
		Sections: sections,
		Columns:  columns,
		Months:   months,
	}, nil
}
