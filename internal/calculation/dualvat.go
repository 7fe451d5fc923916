package calculation

import (
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

var specialSectorBaseFactor = decimal.RequireFromString("0.5")

// DualVatResult is the CBS/IBS computation of one year
type DualVatResult struct {
	Base    decimal.Decimal
	Rates   domain.EffectiveRates
	CBS     decimal.Decimal
	IBS     decimal.Decimal
	Gross   decimal.Decimal
	Credits decimal.Decimal
	Net     decimal.Decimal
}

// DualVatCalculator computes the transition-phased CBS/IBS liability
type DualVatCalculator struct {
	Config  domain.TaxConfiguration
	Credits *CreditAggregator
}

// NewDualVatCalculator creates a dual VAT calculator over a configuration
func NewDualVatCalculator(cfg domain.TaxConfiguration) *DualVatCalculator {
	return &DualVatCalculator{Config: cfg, Credits: NewCreditAggregator(cfg.CreditRules)}
}

// TaxBase returns revenue scaled by the year's transition factor. Sectors
// with their own table entry get a further 50% base abatement.
func (c *DualVatCalculator) TaxBase(input domain.CompanyInput, year int, trace *domain.CalculationTrace) decimal.Decimal {
	factor := c.Config.TransitionFactor(year)
	base := input.Revenue.Mul(factor)
	trace.Addf(domain.SectionTaxBase, "Base: %s × %s (transition %d) = %s",
		brfmt.Currency(input.Revenue), brfmt.Percent(factor), year, brfmt.Currency(base))

	sector := input.SectorOrDefault()
	if c.Config.IsSpecialSector(sector) {
		base = input.Revenue.Mul(factor.Mul(specialSectorBaseFactor))
		trace.Addf(domain.SectionTaxBase, "Special sector %s, base abated by 50%%: %s", sector, brfmt.Currency(base))
	}
	return base
}

// ComputeYear validates the input and computes CBS, IBS, credits and the
// net dual VAT of a year. Credits are resolved in a single pass with the
// gross tax standing in for the tax due in the Simples cap; the estimate is
// not iterated to a fixed point.
func (c *DualVatCalculator) ComputeYear(input domain.CompanyInput, year int, trace *domain.CalculationTrace) (DualVatResult, error) {
	if err := ValidateInput(c.Config, input); err != nil {
		trace.Addf(domain.SectionValidation, "Validation error: %s", err)
		return DualVatResult{}, err
	}
	trace.Addf(domain.SectionValidation, "Input validated")
	return c.compute(input, year, trace), nil
}

func (c *DualVatCalculator) compute(input domain.CompanyInput, year int, trace *domain.CalculationTrace) DualVatResult {
	var r DualVatResult
	r.Base = c.TaxBase(input, year, trace)

	sector := input.SectorOrDefault()
	r.Rates = c.Config.EffectiveRates(sector, year)
	trace.Addf(domain.SectionRates, "Rates for sector %s in %d: CBS %s, IBS %s, total %s",
		sector, year, brfmt.Percent(r.Rates.CBS), brfmt.Percent(r.Rates.IBS), brfmt.Percent(r.Rates.Total))

	r.CBS = r.Base.Mul(r.Rates.CBS)
	r.IBS = r.Base.Mul(r.Rates.IBS)
	r.Gross = r.CBS.Add(r.IBS)
	trace.Addf(domain.SectionCBS, "CBS = %s × %s = %s", brfmt.Currency(r.Base), brfmt.Percent(r.Rates.CBS), brfmt.Currency(r.CBS))
	trace.Addf(domain.SectionIBS, "IBS = %s × %s = %s", brfmt.Currency(r.Base), brfmt.Percent(r.Rates.IBS), brfmt.Currency(r.IBS))

	r.Credits = c.Credits.ComputeCredits(input, r.Rates, r.Gross, trace)
	r.Net = decimal.Max(decimal.Zero, r.Gross.Sub(r.Credits))
	trace.Addf(domain.SectionNetTax, "Net tax = max(0, %s - %s) = %s",
		brfmt.Currency(r.Gross), brfmt.Currency(r.Credits), brfmt.Currency(r.Net))
	return r
}
