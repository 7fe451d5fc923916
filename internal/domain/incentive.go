package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncentiveType identifies how an ICMS fiscal incentive changes the calculation
type IncentiveType string

const (
	IncentiveNone             IncentiveType = "none"
	IncentiveRateReduction    IncentiveType = "rate_reduction"
	IncentivePresumedCredit   IncentiveType = "presumed_credit"
	IncentiveBaseReduction    IncentiveType = "base_reduction"
	IncentiveDeferral         IncentiveType = "deferral"          // output only
	IncentiveCreditReversal   IncentiveType = "credit_reversal"   // input only
	IncentiveBalanceReduction IncentiveType = "balance_reduction" // assessment only
)

// IncentiveCategory is the ICMS stage an incentive list applies to
type IncentiveCategory string

const (
	CategoryOutput     IncentiveCategory = "output"     // debits on sales
	CategoryInput      IncentiveCategory = "input"      // credits on purchases
	CategoryAssessment IncentiveCategory = "assessment" // the period's debtor balance
)

// Categories lists every incentive category in processing order
var Categories = []IncentiveCategory{CategoryOutput, CategoryInput, CategoryAssessment}

var allowedIncentiveTypes = map[IncentiveCategory]map[IncentiveType]bool{
	CategoryOutput: {
		IncentiveNone:           true,
		IncentiveRateReduction:  true,
		IncentivePresumedCredit: true,
		IncentiveBaseReduction:  true,
		IncentiveDeferral:       true,
	},
	CategoryInput: {
		IncentiveNone:           true,
		IncentiveRateReduction:  true,
		IncentivePresumedCredit: true,
		IncentiveCreditReversal: true,
	},
	CategoryAssessment: {
		IncentiveNone:             true,
		IncentivePresumedCredit:   true,
		IncentiveBalanceReduction: true,
	},
}

// Incentive is a single ICMS fiscal incentive.
//
// Percentage is the benefit applied to the incentivized slice; Coverage is
// the fraction of the remaining pool (revenue, costs or balance) the
// incentive claims. The category is given by the list holding the record.
type Incentive struct {
	Description string          `yaml:"description" json:"description"`
	Type        IncentiveType   `yaml:"type" json:"type"`
	Percentage  decimal.Decimal `yaml:"percentage" json:"percentage"`
	Coverage    decimal.Decimal `yaml:"coverage" json:"coverage"`
}

// IsNoop reports whether the incentive has no effect on the calculation
func (i Incentive) IsNoop() bool {
	return i.Type == IncentiveNone || i.Type == "" || i.Percentage.LessThanOrEqual(decimal.Zero)
}

// ParseIncentiveCategory converts a user supplied category name
func ParseIncentiveCategory(s string) (IncentiveCategory, error) {
	switch IncentiveCategory(s) {
	case CategoryOutput, CategoryInput, CategoryAssessment:
		return IncentiveCategory(s), nil
	}
	return "", fmt.Errorf("unknown incentive category %q (want output, input or assessment)", s)
}

// ValidateIncentive checks a single incentive against the rules of its category
func ValidateIncentive(category IncentiveCategory, inc Incentive) error {
	allowed, ok := allowedIncentiveTypes[category]
	if !ok {
		return NewValidationError(RuleIncentiveCategory, "unknown incentive category %q", category)
	}
	t := inc.Type
	if t == "" {
		t = IncentiveNone
	}
	if !allowed[t] {
		return NewValidationError(RuleIncentiveType, "incentive type %q is not allowed for %s incentives", t, category)
	}
	if !isFraction(inc.Percentage) {
		return NewValidationError(RuleIncentivePercentage, "incentive percentage must be between 0 and 1, got %s", inc.Percentage)
	}
	if t != IncentiveNone && inc.Percentage.IsZero() {
		return NewValidationError(RuleIncentivePercentage, "incentive percentage must be greater than zero")
	}
	if !isFraction(inc.Coverage) {
		return NewValidationError(RuleIncentiveCoverage, "incentive coverage must be between 0 and 1, got %s", inc.Coverage)
	}
	return nil
}

// ValidateCoverage checks that the coverage fractions of a category do not exceed 100%
func ValidateCoverage(category IncentiveCategory, incentives []Incentive) error {
	total := decimal.Zero
	for _, inc := range incentives {
		total = total.Add(inc.Coverage)
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return NewValidationError(RuleIncentiveCoverage,
			"total coverage of %s incentives (%s%%) exceeds 100%%; adjust the percentages so the sum does not exceed 100%%",
			category, total.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	return nil
}

func isFraction(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(decimal.Zero) && d.LessThanOrEqual(decimal.NewFromInt(1))
}
