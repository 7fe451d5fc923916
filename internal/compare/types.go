package compare

import (
	"fmt"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// YearComparison is the legacy versus dual VAT picture of one fiscal year
type YearComparison struct {
	Year             int             `json:"year"`
	TransitionFactor decimal.Decimal `json:"transitionFactor"`

	// Dual VAT
	CBS     decimal.Decimal `json:"cbs"`
	IBS     decimal.Decimal `json:"ibs"`
	Credits decimal.Decimal `json:"credits"`
	NetTax  decimal.Decimal `json:"netTax"`

	// Legacy regime
	LegacyTotal           decimal.Decimal `json:"legacyTotal"`
	ICMS                  decimal.Decimal `json:"icms"`
	ICMSWithoutIncentives decimal.Decimal `json:"icmsWithoutIncentives"`
	ICMSSavings           decimal.Decimal `json:"icmsSavings"`
	CrossCredit           decimal.Decimal `json:"crossCredit"`

	TotalDue      decimal.Decimal `json:"totalDue"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`

	// Comparison to the base year
	DiffFromBase decimal.Decimal `json:"diffFromBase"`
	PctFromBase  decimal.Decimal `json:"pctFromBase"`

	Warnings []string `json:"warnings,omitempty"`
}

// ComparisonSet is a multi-year comparison for one company
type ComparisonSet struct {
	Company         domain.CompanyInput `json:"company"`
	BaseYear        int                 `json:"baseYear"`
	Years           []YearComparison    `json:"years"`
	Recommendations []string            `json:"recommendations"`
	ConfigPath      string              `json:"configPath,omitempty"`
}

// Base returns the comparison of the base year, if present
func (cs *ComparisonSet) Base() (YearComparison, bool) {
	for _, y := range cs.Years {
		if y.Year == cs.BaseYear {
			return y, true
		}
	}
	return YearComparison{}, false
}

// MetricsCalculator extracts comparison metrics from year results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics flattens a year result into a comparison row
func (mc *MetricsCalculator) CalculateMetrics(r *domain.YearResult) YearComparison {
	return YearComparison{
		Year:                  r.Year,
		TransitionFactor:      r.Rates.TransitionFactor,
		CBS:                   r.CBS,
		IBS:                   r.IBS,
		Credits:               r.Credits,
		NetTax:                r.NetTax,
		LegacyTotal:           r.Legacy.Total,
		ICMS:                  r.Legacy.ICMS,
		ICMSWithoutIncentives: decimal.Max(decimal.Zero, r.ICMS.Baseline),
		ICMSSavings:           r.Legacy.ICMSSavings,
		CrossCredit:           r.CrossCredit,
		TotalDue:              r.TotalDue,
		EffectiveRate:         r.EffectiveRate,
		Warnings:              r.Warnings,
	}
}

// CalculateComparison fills the deltas of a year against the base year
func (mc *MetricsCalculator) CalculateComparison(year, base YearComparison) YearComparison {
	year.DiffFromBase = year.TotalDue.Sub(base.TotalDue)
	year.PctFromBase = decimal.Zero
	if !base.TotalDue.IsZero() {
		year.PctFromBase = year.DiffFromBase.Div(base.TotalDue).Mul(hundred)
	}
	return year
}

// GenerateRecommendations summarizes what stands out across the years
func GenerateRecommendations(cs *ComparisonSet) []string {
	recommendations := []string{}
	if len(cs.Years) == 0 {
		return recommendations
	}

	lowest, highest := cs.Years[0], cs.Years[0]
	savings, crossCredit := decimal.Zero, decimal.Zero
	for _, y := range cs.Years {
		if y.TotalDue.LessThan(lowest.TotalDue) {
			lowest = y
		}
		if y.EffectiveRate.GreaterThan(highest.EffectiveRate) {
			highest = y
		}
		savings = savings.Add(y.ICMSSavings)
		crossCredit = crossCredit.Add(y.CrossCredit)
	}

	if len(cs.Years) > 1 {
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest burden: %d with %s due", lowest.Year, brfmt.Currency(lowest.TotalDue)),
			fmt.Sprintf("Highest effective rate: %d at %s", highest.Year, brfmt.Percent(highest.EffectiveRate)))
	}
	if savings.IsPositive() {
		recommendations = append(recommendations,
			"ICMS incentives save "+brfmt.Currency(savings)+" over the period")
	}
	if crossCredit.IsPositive() {
		recommendations = append(recommendations,
			"IBS cross-credit offsets "+brfmt.Currency(crossCredit)+" of ICMS over the period")
	}
	if cs.Company.Regime == domain.RegimeSimples {
		recommendations = append(recommendations,
			"Simples Nacional: customers can only take the capped Simples credit on purchases from this company")
	}
	return recommendations
}
