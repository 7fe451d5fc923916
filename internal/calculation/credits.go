package calculation

import (
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

// CreditAggregator computes dual VAT input credits from every cost source
type CreditAggregator struct {
	Rules domain.CreditRules
}

// NewCreditAggregator creates an aggregator for the given eligibility rules
func NewCreditAggregator(rules domain.CreditRules) *CreditAggregator {
	return &CreditAggregator{Rules: rules}
}

// ComputeCredits sums the credits of normal-regime, Simples, rural and
// imported purchases plus carried-forward credits. Only the Simples credit
// is capped, at a share of dueTaxEstimate; there is no overall cap.
func (a *CreditAggregator) ComputeCredits(input domain.CompanyInput, rates domain.EffectiveRates, dueTaxEstimate decimal.Decimal, trace *domain.CalculationTrace) decimal.Decimal {
	sec := domain.SectionCredits
	r := a.Rules
	combined := rates.CBS.Add(rates.IBS)
	total := decimal.Zero

	trace.Addf(sec, "Effective rates: CBS %s, IBS %s, total %s",
		brfmt.Percent(rates.CBS), brfmt.Percent(rates.IBS), brfmt.Percent(combined))

	if input.TaxableCosts.IsPositive() {
		credit := input.TaxableCosts.Mul(combined).Mul(r.Normal)
		trace.Addf(sec, "Normal-regime suppliers: %s × %s × %s = %s",
			brfmt.Currency(input.TaxableCosts), brfmt.Percent(combined), brfmt.Percent(r.Normal), brfmt.Currency(credit))
		total = total.Add(credit)
	}

	if input.SimplesCosts.IsPositive() {
		total = total.Add(a.simplesCredit(input.SimplesCosts, combined, dueTaxEstimate, trace))
	}

	if input.RuralCosts.IsPositive() {
		credit := input.RuralCosts.Mul(rates.IBS.Add(rates.CBS.Mul(r.RuralCBS)))
		trace.Addf(sec, "Rural producers: %s × (%s + %s × %s) = %s",
			brfmt.Currency(input.RuralCosts), brfmt.Percent(rates.IBS), brfmt.Percent(rates.CBS),
			brfmt.Percent(r.RuralCBS), brfmt.Currency(credit))
		total = total.Add(credit)
	}

	if input.ImportedCosts.IsPositive() {
		credit := input.ImportedCosts.Mul(rates.IBS.Mul(r.ImportIBS).Add(rates.CBS.Mul(r.ImportCBS)))
		trace.Addf(sec, "Imports: %s × (%s × %s + %s × %s) = %s",
			brfmt.Currency(input.ImportedCosts), brfmt.Percent(rates.IBS), brfmt.Percent(r.ImportIBS),
			brfmt.Percent(rates.CBS), brfmt.Percent(r.ImportCBS), brfmt.Currency(credit))
		total = total.Add(credit)
	}

	if input.PriorCredits.IsPositive() {
		trace.Addf(sec, "Prior credits carried forward: %s", brfmt.Currency(input.PriorCredits))
		total = total.Add(input.PriorCredits)
	}

	trace.Addf(sec, "Total credits: %s", brfmt.Currency(total))
	return total
}

// simplesCredit applies the Simples Nacional eligibility share and then caps
// the credit at a share of the estimated tax due.
func (a *CreditAggregator) simplesCredit(costs, combined, dueTaxEstimate decimal.Decimal, trace *domain.CalculationTrace) decimal.Decimal {
	base := costs.Mul(a.Rules.Simples)
	credit := base.Mul(combined)
	limit := dueTaxEstimate.Mul(a.Rules.SimplesCapOnDueTax)
	final := decimal.Min(credit, limit)

	trace.Addf(domain.SectionCredits, "Simples Nacional suppliers: %s × %s × %s = %s",
		brfmt.Currency(costs), brfmt.Percent(a.Rules.Simples), brfmt.Percent(combined), brfmt.Currency(credit))
	trace.Addf(domain.SectionCredits, "Simples cap: %s × %s = %s, credit used %s",
		brfmt.Currency(dueTaxEstimate), brfmt.Percent(a.Rules.SimplesCapOnDueTax), brfmt.Currency(limit), brfmt.Currency(final))
	return final
}
