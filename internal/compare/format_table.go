package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing years
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("LEGACY REGIME VS DUAL VAT COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Revenue: %s | Sector: %s | Regime: %s\n",
		brfmt.Currency(compSet.Company.Revenue), compSet.Company.SectorOrDefault(), regimeLabel(string(compSet.Company.Regime))))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	sb.WriteString(fmt.Sprintf("Base Year: %d\n", compSet.BaseYear))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("%-6s %7s %13s %13s %13s %13s %10s %14s\n",
		"Year", "Factor", "CBS+IBS Net", "Legacy", "Cross-Credit", "Total Due", "Eff. Rate", "vs Base"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	for _, y := range compSet.Years {
		sb.WriteString(tf.formatRow(y, y.Year == compSet.BaseYear))
	}
	sb.WriteString(strings.Repeat("=", 96) + "\n")

	// ICMS incentive breakdown
	if hasSavings(compSet) {
		sb.WriteString("\nICMS WITH AND WITHOUT INCENTIVES\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, y := range compSet.Years {
			sb.WriteString(fmt.Sprintf("%-6d without %14s  with %14s  saved %14s\n",
				y.Year, brfmt.Number(y.ICMSWithoutIncentives, 0), brfmt.Number(y.ICMS, 0), brfmt.Number(y.ICMSSavings, 0)))
		}
	}

	// Warnings
	for _, y := range compSet.Years {
		for _, w := range y.Warnings {
			sb.WriteString(fmt.Sprintf("\nWARNING (%d): %s\n", y.Year, w))
		}
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nHIGHLIGHTS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single year row
func (tf *TableFormatter) formatRow(y YearComparison, isBase bool) string {
	delta := "(base)"
	if !isBase {
		delta = tf.deltaSymbol(y.DiffFromBase) + brfmt.Number(y.PctFromBase, 1) + "%"
	}
	return fmt.Sprintf("%-6d %7s %13s %13s %13s %13s %10s %14s\n",
		y.Year,
		brfmt.Percent(y.TransitionFactor),
		brfmt.Number(y.NetTax, 0),
		brfmt.Number(y.LegacyTotal, 0),
		brfmt.Number(y.CrossCredit, 0),
		brfmt.Number(y.TotalDue, 0),
		brfmt.Percent(y.EffectiveRate),
		delta)
}

// deltaSymbol returns + for increases; negatives already carry their sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// FormatCompact creates a single-line summary of the total due per year
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	parts := make([]string, 0, len(compSet.Years))
	for _, y := range compSet.Years {
		parts = append(parts, fmt.Sprintf("%d: %s", y.Year, brfmt.Currency(y.TotalDue)))
	}
	return strings.Join(parts, " | ")
}

func hasSavings(compSet *ComparisonSet) bool {
	for _, y := range compSet.Years {
		if !y.ICMSSavings.IsZero() {
			return true
		}
	}
	return false
}

func regimeLabel(regime string) string {
	if regime == "" {
		return "real"
	}
	return regime
}
