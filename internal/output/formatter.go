// Package output renders allocation reports for humans and machines.
package output

import (
	"github.com/shopspring/decimal"

	"github.com/mstanton/wishful/internal/domain"
)

// Formatter renders a report in one output format.
type Formatter interface {
	Name() string
	Format(report *domain.Report) ([]byte, error)
}

// GetFormatterByName returns the formatter registered under name, or
// nil if there is none.
func GetFormatterByName(name string) Formatter {
	switch name {
	case "console":
		return &ConsoleFormatter{}
	case "json":
		return &JSONFormatter{}
	case "csv":
		return &CSVFormatter{}
	default:
		return nil
	}
}

// FormatCurrency formats a decimal as a dollar amount.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal weight as a percentage.
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
