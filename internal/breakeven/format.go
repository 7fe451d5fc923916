package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/ivadual/pkg/brfmt"
)

// TableFormatter formats equivalent-rate results as a console table
type TableFormatter struct{}

// Format generates a formatted report for one year
func (tf *TableFormatter) Format(result *RefinedRates) string {
	var sb strings.Builder

	sb.WriteString("EQUIVALENT DUAL VAT RATES\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Year:                %d\n", result.Year))
	sb.WriteString(fmt.Sprintf("Sector:              %s\n", result.Sector))
	sb.WriteString(fmt.Sprintf("Current burden:      %s%%\n", brfmt.Number(result.BurdenPercent, 2)))
	sb.WriteString(fmt.Sprintf("Target value:        %s\n", brfmt.Currency(result.TargetValue)))
	sb.WriteString(fmt.Sprintf("Estimated credits:   %s\n", brfmt.Currency(result.EstimatedCredits)))
	sb.WriteString(fmt.Sprintf("Required gross tax:  %s\n", brfmt.Currency(result.RequiredGross)))
	sb.WriteString(fmt.Sprintf("Tax base:            %s\n", brfmt.Currency(result.Base)))
	sb.WriteString("\n")

	sb.WriteString("RATES\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("CBS equivalent:      %s\n", brfmt.Percent(result.CBS)))
	sb.WriteString(fmt.Sprintf("IBS equivalent:      %s\n", brfmt.Percent(result.IBS)))
	sb.WriteString(fmt.Sprintf("Total equivalent:    %s\n", brfmt.Percent(result.Total)))

	if result.Iterations > 0 || result.Converged {
		sb.WriteString("\n")
		sb.WriteString("REFINED SOLVE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Converged)))
		sb.WriteString(fmt.Sprintf("Rate multiplier:     %s\n", result.Scale.StringFixed(4)))
		sb.WriteString(fmt.Sprintf("Net dual VAT:        %s\n", brfmt.Currency(result.NetTax)))
		if result.ConvergenceInfo != "" {
			sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
		}
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatSchedule formats equivalent rates for several years
func (tf *TableFormatter) FormatSchedule(schedule []RefinedRates) string {
	var sb strings.Builder

	sb.WriteString("EQUIVALENT RATES BY YEAR\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-6s %18s %18s %10s %10s %10s\n",
		"Year", "Target", "Base", "CBS", "IBS", "Total"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, r := range schedule {
		sb.WriteString(fmt.Sprintf("%-6d %18s %18s %10s %10s %10s\n",
			r.Year,
			brfmt.Currency(r.TargetValue),
			brfmt.Currency(r.Base),
			brfmt.Percent(r.CBS),
			brfmt.Percent(r.IBS),
			brfmt.Percent(r.Total)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for any solver result
func (jf *JSONFormatter) Format(result any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}
