package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results. Amounts use a plain
// decimal point so spreadsheets in any locale can read them.
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Year",
		"Type",
		"Transition Factor",
		"CBS",
		"IBS",
		"Credits",
		"Net Dual VAT",
		"Legacy Total",
		"ICMS",
		"ICMS Without Incentives",
		"ICMS Savings",
		"Cross Credit",
		"Total Due",
		"Effective Rate",
		"Diff from Base",
		"% Change from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for _, y := range compSet.Years {
		kind := "year"
		if y.Year == compSet.BaseYear {
			kind = "base"
		}
		if err := writer.Write(cf.formatRow(y, kind)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a year comparison as a CSV row
func (cf *CSVFormatter) formatRow(y YearComparison, kind string) []string {
	return []string{
		strconv.Itoa(y.Year),
		kind,
		y.TransitionFactor.StringFixed(4),
		y.CBS.StringFixed(2),
		y.IBS.StringFixed(2),
		y.Credits.StringFixed(2),
		y.NetTax.StringFixed(2),
		y.LegacyTotal.StringFixed(2),
		y.ICMS.StringFixed(2),
		y.ICMSWithoutIncentives.StringFixed(2),
		y.ICMSSavings.StringFixed(2),
		y.CrossCredit.StringFixed(2),
		y.TotalDue.StringFixed(2),
		y.EffectiveRate.StringFixed(4),
		y.DiffFromBase.StringFixed(2),
		y.PctFromBase.StringFixed(2),
	}
}
