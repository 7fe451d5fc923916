package domain

import "fmt"

// ValidationRule identifies which policy a ValidationError violated
type ValidationRule string

const (
	RuleNegativeRevenue      ValidationRule = "negative_revenue"
	RuleCostsExceedRevenue   ValidationRule = "costs_exceed_revenue"
	RuleSimplesRevenueLimit  ValidationRule = "simples_revenue_limit"
	RuleNegativeAmount       ValidationRule = "negative_amount"
	RuleUnknownRegime        ValidationRule = "unknown_regime"
	RuleBurdenPercent        ValidationRule = "burden_percent"
	RuleIncentiveCategory    ValidationRule = "incentive_category"
	RuleIncentiveType        ValidationRule = "incentive_type"
	RuleIncentivePercentage  ValidationRule = "incentive_percentage"
	RuleIncentiveCoverage    ValidationRule = "incentive_coverage"
	RuleIncentiveIndex       ValidationRule = "incentive_index"
	RuleRateRange            ValidationRule = "rate_range"
	RuleMissingDefaultSector ValidationRule = "missing_default_sector"
	RuleUnknownSector        ValidationRule = "unknown_sector"
)

// ValidationError reports malformed or out-of-policy input. It is raised
// before any computation for the affected operation begins.
type ValidationError struct {
	Rule    ValidationRule
	Message string
}

func (e *ValidationError) Error() string {
	return "validation failed (" + string(e.Rule) + "): " + e.Message
}

// NewValidationError creates a ValidationError for the given rule
func NewValidationError(rule ValidationRule, format string, args ...any) *ValidationError {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}
