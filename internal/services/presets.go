package services

import (
	"fmt"

	"breakeven-simulator/internal/models"
)

// PresetFile is the YAML layout of a scenarios file:
//
//	mes_inicial: 1
//	sazonalidade: {11: 1.2, 12: 1.6}
//	cenarios:
//	  - key: conservador
//	    name: Conservador
//	    params: {receita_inicial: 100000, ...}
//
// Parameters left out of a scenario are zero.
type PresetFile struct {
	StartMonth  int                `yaml:"mes_inicial"`
	Seasonality models.Seasonality `yaml:"sazonalidade"`
	Scenarios   []models.Scenario  `yaml:"cenarios"`
}

// DefaultPresets returns the three conventional scenarios.
func DefaultPresets() []models.Scenario {
	return []models.Scenario{
		preset("pessimista", "Pessimista", 80000, 0.5, 10.0, 2.0, 40000),
		preset("conservador", "Conservador", 100000, 2.0, 5.0, 2.2, 35000),
		preset("otimista", "Otimista", 120000, 4.0, 2.0, 2.4, 25000),
	}
}

func preset(key, name string, revenue, growth, discount, markup, fixed float64) models.Scenario {
	return models.Scenario{
		Key:  key,
		Name: name,
		Params: models.ScenarioParameters{
			InitialRevenue:  revenue,
			MonthlyGrowth:   growth,
			AverageDiscount: discount,
			Markup:          markup,
			ICMSDifal:       13.0,
			Packaging:       0,
			FixedCost:       fixed,
			SalesTax:        10.0,
			CardFee:         4.5,
			Commissions:     4.0,
			Marketing:       0,
			Loans:           10000,
			PartnerDraws:    5000,
			Suppliers:       revenue / markup,
			CashInPercent:   95.0,
		},
	}
}

func (f PresetFile) validate() error {
	if len(f.Scenarios) == 0 {
		return fmt.Errorf("no scenarios defined")
	}

	if f.StartMonth != 0 {
		if err := models.ValidateStartMonth(f.StartMonth); err != nil {
			return err
		}
	}

	if err := f.Seasonality.Validate(); err != nil {
		return err
	}

	return validateScenarios(f.Scenarios)
}

func validateScenarios(scenarios []models.Scenario) error {
	seen := make(map[string]bool, len(scenarios))
	for i, sc := range scenarios {
		if sc.Key == "" {
			return fmt.Errorf("scenario %d has no key", i)
		}
		if seen[sc.Key] {
			return fmt.Errorf("duplicate scenario key %q", sc.Key)
		}
		seen[sc.Key] = true

		if err := sc.Params.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Key, err)
		}
	}
	return nil
}
