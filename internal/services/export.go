package services

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"

	"breakeven-simulator/internal/models"
)

type projectionRow struct {
	Month              int     `dataframe:"Mês"`
	GrossRevenue       float64 `dataframe:"Receita Bruta"`
	Discount           float64 `dataframe:"(-) Descontos"`
	NetRevenue         float64 `dataframe:"(=) Receita Líquida"`
	COGS               float64 `dataframe:"(-) CMV"`
	Suppliers          float64 `dataframe:"(-) Fornecedores"`
	VariableExpenses   float64 `dataframe:"(-) Despesas Variáveis"`
	ContributionMargin float64 `dataframe:"(=) Margem de Contribuição"`
	FixedExpenses      float64 `dataframe:"(-) Despesas Fixas"`
	OperatingProfit    float64 `dataframe:"(=) Lucro Operacional"`
	OtherExpenses      float64 `dataframe:"(-) Outras Despesas"`
	NetProfit          float64 `dataframe:"(=) Lucro Líquido"`
	TotalCost          float64 `dataframe:"Custo Total"`
}

// ProjectionFrame lays the monthly records out as a dataframe with the
// income statement column headings.
func ProjectionFrame(records []models.MonthlyRecord) (dataframe.DataFrame, error) {
	rows := make([]projectionRow, len(records))
	for i, r := range records {
		rows[i] = projectionRow{
			Month:              r.Month,
			GrossRevenue:       r.GrossRevenue,
			Discount:           r.Discount,
			NetRevenue:         r.NetRevenue,
			COGS:               r.COGS,
			Suppliers:          r.Suppliers,
			VariableExpenses:   r.VariableExpenses,
			ContributionMargin: r.ContributionMargin,
			FixedExpenses:      r.FixedExpenses,
			OperatingProfit:    r.OperatingProfit,
			OtherExpenses:      r.OtherExpenses,
			NetProfit:          r.NetProfit,
			TotalCost:          r.TotalCost,
		}
	}

	df := dataframe.LoadStructs(rows)
	if err := df.Error(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build projection frame: %w", err)
	}
	return df, nil
}

// WriteProjectionCSV writes the monthly table as CSV, header row first.
func WriteProjectionCSV(w io.Writer, records []models.MonthlyRecord) error {
	df, err := ProjectionFrame(records)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write projection csv: %w", err)
	}
	return nil
}
