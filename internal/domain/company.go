package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Regime is the company's tax regime
type Regime string

const (
	RegimeReal     Regime = "real"     // Lucro Real
	RegimePresumed Regime = "presumed" // Lucro Presumido
	RegimeSimples  Regime = "simples"  // Simples Nacional
)

// ParseRegime converts a user supplied regime name
func ParseRegime(s string) (Regime, error) {
	switch Regime(s) {
	case RegimeReal, RegimePresumed, RegimeSimples:
		return Regime(s), nil
	}
	return "", fmt.Errorf("unknown regime %q (want real, presumed or simples)", s)
}

// CompanyInput holds the annual figures of the simulated business entity.
// All amounts are in BRL; CurrentBurdenPercent is expressed as 0-100.
type CompanyInput struct {
	Revenue              decimal.Decimal `yaml:"revenue" json:"revenue"`
	TaxableCosts         decimal.Decimal `yaml:"taxable_costs" json:"taxable_costs"`
	SimplesCosts         decimal.Decimal `yaml:"simples_costs" json:"simples_costs"`
	RuralCosts           decimal.Decimal `yaml:"rural_costs" json:"rural_costs"`
	ImportedCosts        decimal.Decimal `yaml:"imported_costs" json:"imported_costs"`
	PriorCredits         decimal.Decimal `yaml:"prior_credits" json:"prior_credits"`
	Sector               string          `yaml:"sector" json:"sector"`
	Regime               Regime          `yaml:"regime" json:"regime"`
	CurrentBurdenPercent decimal.Decimal `yaml:"current_burden_percent" json:"current_burden_percent"`
}

// SectorOrDefault returns the sector name, defaulting to the default sector
func (ci CompanyInput) SectorOrDefault() string {
	if ci.Sector == "" {
		return DefaultSector
	}
	return ci.Sector
}

// CostRatio returns taxable costs over revenue, or zero when there is no revenue
func (ci CompanyInput) CostRatio() decimal.Decimal {
	if ci.Revenue.IsZero() {
		return decimal.Zero
	}
	return ci.TaxableCosts.Div(ci.Revenue)
}
