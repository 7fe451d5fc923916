package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/ivadual/internal/calculation"
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)

	// CBS is roughly a third of the dual VAT
	cbsParts = decimal.NewFromInt(3)
)

// Solver back-calculates the dual VAT rates equivalent to a current burden
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new equivalent-rate solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// EquivalentRates is the closed-form estimate. Credits are assumed
// proportional to the cost ratio and the rate is split 1:2 between CBS and
// IBS, shifted towards IBS by the sector's CBS reduction. It is not
// reconciled with the real credit rules; see RefineEquivalentRates.
func (s *Solver) EquivalentRates(input domain.CompanyInput, burdenPercent decimal.Decimal, year int) (*EquivalentRates, error) {
	input.CurrentBurdenPercent = burdenPercent
	if err := s.Engine.Validate(input); err != nil {
		return nil, &SolverError{
			Operation: "equivalent_rates",
			Message:   "invalid input",
			Cause:     err,
		}
	}

	cfg := s.Engine.Config
	sector := input.SectorOrDefault()
	res := &EquivalentRates{
		Year:          year,
		Sector:        sector,
		BurdenPercent: burdenPercent,
		TargetValue:   input.Revenue.Mul(burdenPercent).Div(hundred),
		Base:          s.Engine.DualVat.TaxBase(input, year, nil),
	}

	cbsWeight := decimal.NewFromInt(1).Sub(cfg.Sector(sector).CBSReduction)
	res.CBSShare = cbsWeight.Div(cbsParts)

	if input.TaxableCosts.IsPositive() {
		res.EstimatedCredits = input.CostRatio().Mul(res.TargetValue)
	}
	res.RequiredGross = res.TargetValue.Add(res.EstimatedCredits)

	if res.Base.IsPositive() {
		total := res.RequiredGross.Div(res.Base)
		res.CBS = total.Mul(cbsWeight).Div(cbsParts)
		res.IBS = total.Sub(res.CBS)
	}
	res.Total = res.CBS.Add(res.IBS)

	s.Engine.Logger.Debugf("equivalent rates %d/%s: target %s, base %s, CBS %s, IBS %s",
		year, sector, res.TargetValue.StringFixed(2), res.Base.StringFixed(2),
		res.CBS.StringFixed(6), res.IBS.StringFixed(6))
	return res, nil
}

// RefineEquivalentRates searches for the multiplier of the configured CBS
// and IBS rates at which the dual VAT net tax, credits included, equals the
// target burden. Net tax is non-decreasing in the multiplier, so a binary
// search over [0, MaxScale] converges when the target is reachable.
func (s *Solver) RefineEquivalentRates(ctx context.Context, input domain.CompanyInput, burdenPercent decimal.Decimal, year int) (*RefinedRates, error) {
	estimate, err := s.EquivalentRates(input, burdenPercent, year)
	if err != nil {
		return nil, err
	}
	input.CurrentBurdenPercent = burdenPercent

	result := &RefinedRates{EquivalentRates: *estimate}
	if !estimate.TargetValue.IsPositive() {
		result.EquivalentRates.CBS = decimal.Zero
		result.EquivalentRates.IBS = decimal.Zero
		result.EquivalentRates.Total = decimal.Zero
		result.Converged = true
		result.ConvergenceInfo = "no burden to reproduce"
		return result, nil
	}

	tolerance := s.Options.Tolerance
	if tolerance.IsZero() {
		tolerance = DefaultSolverOptions().Tolerance
	}
	maxIterations := s.Options.MaxIterations
	if maxIterations == 0 {
		maxIterations = DefaultSolverOptions().MaxIterations
	}
	maxScale := s.Options.MaxScale
	if maxScale.IsZero() {
		maxScale = DefaultSolverOptions().MaxScale
	}

	ceiling, err := s.netTaxAt(input, year, maxScale)
	if err != nil {
		return nil, err
	}
	if ceiling.Net.LessThan(estimate.TargetValue.Sub(tolerance)) {
		return nil, &SolverError{
			Operation: "refine_equivalent_rates",
			Message: fmt.Sprintf("target burden %s is unreachable: net tax is only %s at %sx the configured rates",
				estimate.TargetValue.StringFixed(2), ceiling.Net.StringFixed(2), maxScale),
		}
	}

	lo, hi := decimal.Zero, maxScale
	for result.Iterations < maxIterations {
		result.Iterations++

		select {
		case <-ctx.Done():
			return nil, &SolverError{
				Operation: "refine_equivalent_rates",
				Message:   "cancelled",
				Cause:     ctx.Err(),
			}
		default:
		}

		mid := lo.Add(hi).Div(two)
		vat, err := s.netTaxAt(input, year, mid)
		if err != nil {
			return nil, err
		}

		result.Scale = mid
		result.NetTax = vat.Net
		result.EquivalentRates.CBS = vat.Rates.CBS
		result.EquivalentRates.IBS = vat.Rates.IBS
		result.EquivalentRates.Total = vat.Rates.Total

		diff := vat.Net.Sub(estimate.TargetValue)
		if diff.Abs().LessThanOrEqual(tolerance) {
			result.Converged = true
			result.ConvergenceInfo = fmt.Sprintf("converged within R$ %s after %d iterations",
				tolerance.StringFixed(2), result.Iterations)
			return result, nil
		}
		if diff.IsNegative() {
			lo = mid
		} else {
			hi = mid
		}
	}

	result.ConvergenceInfo = fmt.Sprintf("stopped after %d iterations, net tax %s vs target %s",
		result.Iterations, result.NetTax.StringFixed(2), estimate.TargetValue.StringFixed(2))
	return result, nil
}

// netTaxAt computes the dual VAT of a year with every CBS and IBS rate
// multiplied by scale.
func (s *Solver) netTaxAt(input domain.CompanyInput, year int, scale decimal.Decimal) (calculation.DualVatResult, error) {
	scaled := s.Engine.Config.Clone()
	scaled.BaseRates.CBS = scaled.BaseRates.CBS.Mul(scale)
	scaled.BaseRates.IBS = scaled.BaseRates.IBS.Mul(scale)
	for name, sector := range scaled.Sectors {
		sector.IBSRate = sector.IBSRate.Mul(scale)
		scaled.Sectors[name] = sector
	}

	vat, err := calculation.NewDualVatCalculator(scaled).ComputeYear(input, year, nil)
	if err != nil {
		return calculation.DualVatResult{}, &SolverError{
			Operation: "refine_equivalent_rates",
			Message:   fmt.Sprintf("dual VAT computation failed at scale %s", scale),
			Cause:     err,
		}
	}
	return vat, nil
}
