package calculation

import (
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidateInput checks a company input against the configuration's policy.
// It returns the first violation as a *domain.ValidationError.
func ValidateInput(cfg domain.TaxConfiguration, input domain.CompanyInput) error {
	if input.Revenue.IsNegative() {
		return domain.NewValidationError(domain.RuleNegativeRevenue,
			"revenue cannot be negative, got %s", input.Revenue.StringFixed(2))
	}
	if input.TaxableCosts.GreaterThan(input.Revenue) {
		return domain.NewValidationError(domain.RuleCostsExceedRevenue,
			"taxable costs (%s) cannot exceed revenue (%s)",
			input.TaxableCosts.StringFixed(2), input.Revenue.StringFixed(2))
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"taxable costs", input.TaxableCosts},
		{"Simples-sourced costs", input.SimplesCosts},
		{"rural costs", input.RuralCosts},
		{"imported costs", input.ImportedCosts},
		{"prior credits", input.PriorCredits},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return domain.NewValidationError(domain.RuleNegativeAmount,
				"%s cannot be negative, got %s", a.name, a.value.StringFixed(2))
		}
	}

	switch input.Regime {
	case "", domain.RegimeReal, domain.RegimePresumed:
	case domain.RegimeSimples:
		if input.Revenue.GreaterThan(cfg.SimplesRevenueLimit) {
			return domain.NewValidationError(domain.RuleSimplesRevenueLimit,
				"revenue %s exceeds the Simples Nacional limit of %s",
				input.Revenue.StringFixed(2), cfg.SimplesRevenueLimit.StringFixed(2))
		}
	default:
		return domain.NewValidationError(domain.RuleUnknownRegime,
			"unknown regime %q (want real, presumed or simples)", input.Regime)
	}

	if input.CurrentBurdenPercent.IsNegative() || input.CurrentBurdenPercent.GreaterThan(hundred) {
		return domain.NewValidationError(domain.RuleBurdenPercent,
			"current burden must be between 0 and 100 percent, got %s", input.CurrentBurdenPercent)
	}
	return nil
}
