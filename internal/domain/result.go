package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// IncentiveSlice records what one incentive did during ICMS stacking
type IncentiveSlice struct {
	Description string          `json:"description"`
	Type        IncentiveType   `json:"type"`
	Slice       decimal.Decimal `json:"slice"`  // revenue, costs or balance claimed
	Amount      decimal.Decimal `json:"amount"` // resulting debit, credit or reduction
}

// ICMSDetail is the breakdown of the ICMS incentive-stacking algorithm
type ICMSDetail struct {
	BaselineDebit         decimal.Decimal  `json:"baseline_debit"`
	BaselineCredit        decimal.Decimal  `json:"baseline_credit"`
	Baseline              decimal.Decimal  `json:"baseline"`
	TotalDebit            decimal.Decimal  `json:"total_debit"`
	TotalCredit           decimal.Decimal  `json:"total_credit"`
	Interim               decimal.Decimal  `json:"interim"`
	AssessmentReduction   decimal.Decimal  `json:"assessment_reduction"`
	Due                   decimal.Decimal  `json:"due"`
	Savings               decimal.Decimal  `json:"savings"`
	SavingsPercent        decimal.Decimal  `json:"savings_percent"`
	OutputSlices          []IncentiveSlice `json:"output_slices,omitempty"`
	InputSlices           []IncentiveSlice `json:"input_slices,omitempty"`
	AssessmentSlices      []IncentiveSlice `json:"assessment_slices,omitempty"`
	UnincentivizedRevenue decimal.Decimal  `json:"unincentivized_revenue"`
	UnincentivizedCosts   decimal.Decimal  `json:"unincentivized_costs"`
}

// LegacyTaxes holds the amounts due under the legacy system
type LegacyTaxes struct {
	PIS         decimal.Decimal `json:"pis"`
	COFINS      decimal.Decimal `json:"cofins"`
	ICMS        decimal.Decimal `json:"icms"`
	ISS         decimal.Decimal `json:"iss"`
	IPI         decimal.Decimal `json:"ipi"`
	Total       decimal.Decimal `json:"total"`
	ICMSSavings decimal.Decimal `json:"icms_savings"`
}

// SumLines returns PIS + COFINS + ICMS + ISS + IPI
func (lt LegacyTaxes) SumLines() decimal.Decimal {
	return lt.PIS.Add(lt.COFINS).Add(lt.ICMS).Add(lt.ISS).Add(lt.IPI)
}

// YearResult is the comparative result of one fiscal year. It is created
// fresh by each calculation and must not be mutated by consumers.
type YearResult struct {
	Year          int               `json:"year"`
	TaxBase       decimal.Decimal   `json:"tax_base"`
	CBS           decimal.Decimal   `json:"cbs"`
	IBS           decimal.Decimal   `json:"ibs"`
	GrossTax      decimal.Decimal   `json:"gross_tax"`
	Credits       decimal.Decimal   `json:"credits"`
	NetTax        decimal.Decimal   `json:"net_tax"`
	Rates         EffectiveRates    `json:"rates"`
	Legacy        LegacyTaxes       `json:"legacy"`
	ICMS          ICMSDetail        `json:"icms_detail"`
	CrossCredit   decimal.Decimal   `json:"cross_credit"`
	TotalDue      decimal.Decimal   `json:"total_due"`
	EffectiveRate decimal.Decimal   `json:"effective_rate"`
	Warnings      []string          `json:"warnings,omitempty"`
	Trace         *CalculationTrace `json:"trace,omitempty"`
}

// SortedYears returns the keys of a year-indexed result set in ascending order
func SortedYears(results map[int]*YearResult) []int {
	years := make([]int, 0, len(results))
	for y := range results {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
