package calculation

import (
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Engine orchestrates the year-by-year comparison of the legacy regime and
// the dual VAT. It works on a snapshot of the configuration taken at
// construction, so callers may keep editing their own copy between runs.
type Engine struct {
	Config  domain.TaxConfiguration
	DualVat *DualVatCalculator
	Legacy  *LegacyTaxCalculator
	Cross   *CrossCreditEngine
	Logger  Logger

	parallel bool
	phaseOut bool
}

// Option configures an Engine
type Option func(*Engine)

// WithParallelYears computes the requested years concurrently. Years share
// no state, so results are identical to a sequential run.
func WithParallelYears() Option {
	return func(e *Engine) { e.parallel = true }
}

// WithLegacyPhaseOut scales legacy taxes by the configured phase-out
// schedule before the cross-credit step.
func WithLegacyPhaseOut() Option {
	return func(e *Engine) { e.phaseOut = true }
}

// NewEngine creates an engine over a copy of cfg
func NewEngine(cfg domain.TaxConfiguration, opts ...Option) *Engine {
	snapshot := cfg.Clone()
	e := &Engine{
		Config:  snapshot,
		DualVat: NewDualVatCalculator(snapshot),
		Legacy:  NewLegacyTaxCalculator(snapshot),
		Cross:   NewCrossCreditEngine(snapshot),
		Logger:  NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLogger sets the logger for the engine and its calculators. A nil
// logger restores the no-op logger.
func (e *Engine) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	e.Logger = logger
	e.Legacy.Logger = logger
}

// Validate checks an input against the engine's configuration
func (e *Engine) Validate(input domain.CompanyInput) error {
	return ValidateInput(e.Config, input)
}

// ComputeYear validates the input and computes the result of a single year
func (e *Engine) ComputeYear(input domain.CompanyInput, year int) (*domain.YearResult, error) {
	if err := e.Validate(input); err != nil {
		e.Logger.Warnf("rejected input for %d: %v", year, err)
		return nil, err
	}
	return e.computeYear(input, year), nil
}

// CompareAcrossYears computes one YearResult per requested year. Validation
// runs once before any year is processed. With no years given, every year
// of the transition schedule is computed.
func (e *Engine) CompareAcrossYears(input domain.CompanyInput, years []int) (map[int]*domain.YearResult, error) {
	if err := e.Validate(input); err != nil {
		e.Logger.Warnf("rejected input: %v", err)
		return nil, err
	}
	if len(years) == 0 {
		years = e.Config.TransitionYears()
	}
	e.Logger.Infof("comparing %d years for sector %s, revenue %s",
		len(years), input.SectorOrDefault(), input.Revenue.StringFixed(2))

	computed := make([]*domain.YearResult, len(years))
	if e.parallel {
		var g errgroup.Group
		for i, year := range years {
			g.Go(func() error {
				computed[i] = e.computeYear(input, year)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, year := range years {
			computed[i] = e.computeYear(input, year)
		}
	}

	results := make(map[int]*domain.YearResult, len(years))
	for _, r := range computed {
		results[r.Year] = r
	}
	return results, nil
}

// computeYear runs dual VAT, legacy, optional phase-out and cross-credit for
// an already validated input. Each call starts a fresh trace.
func (e *Engine) computeYear(input domain.CompanyInput, year int) *domain.YearResult {
	trace := domain.NewCalculationTrace()
	trace.Addf(domain.SectionValidation, "Input validated")

	vat := e.DualVat.compute(input, year, trace)

	legacy := e.Legacy.ComputeAll(input, year, trace)
	taxes := legacy.Taxes
	if e.phaseOut {
		taxes = e.Legacy.ApplyPhaseOut(taxes, year, trace)
	}
	taxes, claim := e.Cross.Apply(year, vat.IBS, taxes, trace)

	result := &domain.YearResult{
		Year:        year,
		TaxBase:     vat.Base,
		CBS:         vat.CBS,
		IBS:         vat.IBS,
		GrossTax:    vat.Gross,
		Credits:     vat.Credits,
		NetTax:      vat.Net,
		Rates:       vat.Rates,
		Legacy:      taxes,
		ICMS:        legacy.ICMS,
		CrossCredit: claim,
		TotalDue:    vat.Net.Add(taxes.Total),
		Warnings:    legacy.Warnings,
		Trace:       trace,
	}

	trace.Addf(domain.SectionTotalDue, "Total due = dual VAT %s + legacy %s = %s",
		brfmt.Currency(vat.Net), brfmt.Currency(taxes.Total), brfmt.Currency(result.TotalDue))
	if input.Revenue.IsPositive() {
		result.EffectiveRate = result.TotalDue.Div(input.Revenue)
		trace.Addf(domain.SectionTotalDue, "Effective rate: %s / %s = %s",
			brfmt.Currency(result.TotalDue), brfmt.Currency(input.Revenue), brfmt.Percent(result.EffectiveRate))
	} else {
		result.EffectiveRate = decimal.Zero
		trace.Addf(domain.SectionTotalDue, "Effective rate: 0%% (no revenue)")
	}

	e.Logger.Debugf("%d: net dual VAT %s, legacy %s, total %s",
		year, vat.Net.StringFixed(2), taxes.Total.StringFixed(2), result.TotalDue.StringFixed(2))
	return result
}
