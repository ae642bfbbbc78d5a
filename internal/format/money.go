// Package format renders engine figures for display. Values are rounded to
// centavos half away from zero before being grouped with Brazilian
// separators.
package format

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Infinite     = "∞"
	NotAvailable = "n/d"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency formats a monetary amount as "R$ 1.234,56".
func Currency(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return printer.Sprintf("R$ %.2f", centavos(v))
}

// Percent formats a fraction (0.25) as "25,00%".
func Percent(fraction float64) string {
	if s, ok := nonFinite(fraction); ok {
		return s
	}
	return printer.Sprintf("%.2f%%", centavos(fraction*100))
}

// Number formats a plain figure with two decimals.
func Number(v float64) string {
	if s, ok := nonFinite(v); ok {
		return s
	}
	return printer.Sprintf("%.2f", centavos(v))
}

func centavos(v float64) float64 {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsZero() {
		return 0
	}
	return d.InexactFloat64()
}

func nonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return NotAvailable, true
	case math.IsInf(v, 1):
		return Infinite, true
	case math.IsInf(v, -1):
		return "-" + Infinite, true
	}
	return "", false
}
