package calculation

import (
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

// CrossCreditEngine offsets part of the IBS against legacy ICMS during the
// transition years that allow it.
type CrossCreditEngine struct {
	Fraction func(year int) (decimal.Decimal, bool)
}

// NewCrossCreditEngine creates an engine over the configuration's cross-credit schedule
func NewCrossCreditEngine(cfg domain.TaxConfiguration) *CrossCreditEngine {
	return &CrossCreditEngine{Fraction: cfg.CrossCreditFraction}
}

// Apply returns the legacy taxes with ICMS reduced by min(ibs × fraction, ICMS)
// and the total recomputed, together with the amount claimed. Years without
// a configured fraction pass through unchanged.
func (e *CrossCreditEngine) Apply(year int, ibs decimal.Decimal, legacy domain.LegacyTaxes, trace *domain.CalculationTrace) (domain.LegacyTaxes, decimal.Decimal) {
	fraction, ok := e.Fraction(year)
	if !ok {
		trace.Addf(domain.SectionCrossCredit, "No IBS to ICMS cross-credit in %d", year)
		return legacy, decimal.Zero
	}

	available := ibs.Mul(fraction)
	claim := decimal.Min(available, legacy.ICMS)
	if claim.IsNegative() {
		claim = decimal.Zero
	}

	out := legacy
	out.ICMS = legacy.ICMS.Sub(claim)
	out.Total = out.SumLines()

	trace.Addf(domain.SectionCrossCredit, "IBS usable against ICMS in %d: %s", year, brfmt.Percent(fraction))
	trace.Addf(domain.SectionCrossCredit, "Claim = min(%s × %s, %s) = %s",
		brfmt.Currency(ibs), brfmt.Percent(fraction), brfmt.Currency(legacy.ICMS), brfmt.Currency(claim))
	trace.Addf(domain.SectionCrossCredit, "ICMS after cross-credit: %s - %s = %s",
		brfmt.Currency(legacy.ICMS), brfmt.Currency(claim), brfmt.Currency(out.ICMS))
	trace.Addf(domain.SectionCrossCredit, "Legacy total after cross-credit: %s", brfmt.Currency(out.Total))
	return out, claim
}
