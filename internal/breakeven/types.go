package breakeven

import (
	"github.com/shopspring/decimal"
)

// EquivalentRates are the CBS/IBS rates that would reproduce a stated
// historical tax burden for one year.
type EquivalentRates struct {
	Year             int             `json:"year"`
	Sector           string          `json:"sector"`
	BurdenPercent    decimal.Decimal `json:"burden_percent"`
	TargetValue      decimal.Decimal `json:"target_value"`      // revenue × burden
	EstimatedCredits decimal.Decimal `json:"estimated_credits"` // proportional to the cost ratio
	RequiredGross    decimal.Decimal `json:"required_gross"`
	Base             decimal.Decimal `json:"base"`
	CBSShare         decimal.Decimal `json:"cbs_share"`
	CBS              decimal.Decimal `json:"cbs_equivalent"`
	IBS              decimal.Decimal `json:"ibs_equivalent"`
	Total            decimal.Decimal `json:"total_equivalent"`
}

// RefinedRates are equivalent rates reconciled with the actual dual VAT
// credit rules by searching for a uniform scale of the configured rates.
type RefinedRates struct {
	EquivalentRates
	Scale           decimal.Decimal `json:"scale"`
	NetTax          decimal.Decimal `json:"net_tax"`
	Iterations      int             `json:"iterations"`
	Converged       bool            `json:"converged"`
	ConvergenceInfo string          `json:"convergence_info"`
}

// SolverOptions configures the refined solve
type SolverOptions struct {
	Tolerance     decimal.Decimal // acceptable gap between net tax and target, in BRL
	MaxIterations int
	MaxScale      decimal.Decimal // upper bound of the rate multiplier searched
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1), // R$ 1 tolerance
		MaxIterations: 100,
		MaxScale:      decimal.NewFromInt(20),
	}
}

// SolverError represents errors from the equivalent-rate solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolverError) Unwrap() error {
	return e.Cause
}
