package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/mstanton/wishful/internal/domain"
)

// JSONFormatter renders the report as indented JSON.
type JSONFormatter struct{}

func (jf *JSONFormatter) Name() string { return "json" }

func (jf *JSONFormatter) Format(report *domain.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// CSVFormatter renders one row per goal outcome.
type CSVFormatter struct{}

func (cf *CSVFormatter) Name() string { return "csv" }

func (cf *CSVFormatter) Format(report *domain.Report) ([]byte, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Goal",
		"Policy",
		"Cost",
		"Allocated",
		"Feasible",
		"Completion Date",
		"Shortfall",
		"Adjusted",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, a := range report.Allocations {
		completion := ""
		if a.CompletionDate != nil {
			completion = a.CompletionDate.Format(dateLayout)
		}
		feasible := "false"
		if a.Feasible {
			feasible = "true"
		}
		adjusted := "false"
		if a.Adjusted {
			adjusted = "true"
		}
		row := []string{
			a.GoalName,
			string(a.Policy),
			a.GoalCost.StringFixed(2),
			a.AmountAllocated.StringFixed(2),
			feasible,
			completion,
			a.Shortfall.StringFixed(2),
			adjusted,
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
