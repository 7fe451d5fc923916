package domain

import (
	"github.com/shopspring/decimal"
)

// Configuration edits never modify the receiver. Each operation validates its
// arguments against a clone and returns the new configuration, or an error
// and the zero value, in which case the caller keeps its prior configuration.

// WithIncentive appends an incentive to the end of a category's list
func (c TaxConfiguration) WithIncentive(category IncentiveCategory, inc Incentive) (TaxConfiguration, error) {
	if inc.Type == "" {
		inc.Type = IncentiveNone
	}
	if err := ValidateIncentive(category, inc); err != nil {
		return TaxConfiguration{}, err
	}

	proposed := append(append([]Incentive{}, c.ICMS.Incentives(category)...), inc)
	if err := ValidateCoverage(category, proposed); err != nil {
		return TaxConfiguration{}, err
	}

	out := c.Clone()
	out.ICMS.setIncentives(category, proposed)
	return out, nil
}

// WithoutIncentive removes the incentive at index from a category's list
func (c TaxConfiguration) WithoutIncentive(category IncentiveCategory, index int) (TaxConfiguration, error) {
	if _, err := ParseIncentiveCategory(string(category)); err != nil {
		return TaxConfiguration{}, NewValidationError(RuleIncentiveCategory, "%s", err.Error())
	}
	list := c.ICMS.Incentives(category)
	if index < 0 || index >= len(list) {
		return TaxConfiguration{}, NewValidationError(RuleIncentiveIndex,
			"no %s incentive at index %d (have %d)", category, index, len(list))
	}

	remaining := make([]Incentive, 0, len(list)-1)
	remaining = append(remaining, list[:index]...)
	remaining = append(remaining, list[index+1:]...)

	out := c.Clone()
	out.ICMS.setIncentives(category, remaining)
	return out, nil
}

// WithBaseRates replaces the nominal CBS and IBS rates
func (c TaxConfiguration) WithBaseRates(cbs, ibs decimal.Decimal) (TaxConfiguration, error) {
	if err := validateRate("base CBS rate", cbs); err != nil {
		return TaxConfiguration{}, err
	}
	if err := validateRate("base IBS rate", ibs); err != nil {
		return TaxConfiguration{}, err
	}
	out := c.Clone()
	out.BaseRates = BaseRates{CBS: cbs, IBS: ibs}
	return out, nil
}

// WithTransitionFactor sets the implementation factor of one year
func (c TaxConfiguration) WithTransitionFactor(year int, factor decimal.Decimal) (TaxConfiguration, error) {
	if err := validateRate("transition factor", factor); err != nil {
		return TaxConfiguration{}, err
	}
	out := c.Clone()
	if out.TransitionSchedule == nil {
		out.TransitionSchedule = make(map[int]decimal.Decimal)
	}
	out.TransitionSchedule[year] = factor
	return out, nil
}

// WithSectorRates adds or replaces a sector's dual VAT treatment
func (c TaxConfiguration) WithSectorRates(sector string, rates SectorRates) (TaxConfiguration, error) {
	if sector == "" {
		return TaxConfiguration{}, NewValidationError(RuleUnknownSector, "sector name is required")
	}
	if err := validateRate("IBS rate of sector "+sector, rates.IBSRate); err != nil {
		return TaxConfiguration{}, err
	}
	if err := validateRate("CBS reduction of sector "+sector, rates.CBSReduction); err != nil {
		return TaxConfiguration{}, err
	}
	out := c.Clone()
	if out.Sectors == nil {
		out.Sectors = make(map[string]SectorRates)
	}
	out.Sectors[sector] = rates
	return out, nil
}

// WithICMSRates sets the average ICMS input and output rates of a simulation run
func (c TaxConfiguration) WithICMSRates(input, output decimal.Decimal) (TaxConfiguration, error) {
	if err := validateRate("ICMS input rate", input); err != nil {
		return TaxConfiguration{}, err
	}
	if err := validateRate("ICMS output rate", output); err != nil {
		return TaxConfiguration{}, err
	}
	out := c.Clone()
	out.ICMS.InputRate = input
	out.ICMS.OutputRate = output
	return out, nil
}

// WithCrossCredit sets the IBS-to-ICMS offset fraction of one year
func (c TaxConfiguration) WithCrossCredit(year int, fraction decimal.Decimal) (TaxConfiguration, error) {
	if err := validateRate("cross-credit fraction", fraction); err != nil {
		return TaxConfiguration{}, err
	}
	out := c.Clone()
	if out.CrossCredit == nil {
		out.CrossCredit = make(map[int]decimal.Decimal)
	}
	out.CrossCredit[year] = fraction
	return out, nil
}

func (c *ICMSConfig) setIncentives(category IncentiveCategory, list []Incentive) {
	switch category {
	case CategoryOutput:
		c.OutputIncentives = list
	case CategoryInput:
		c.InputIncentives = list
	case CategoryAssessment:
		c.AssessmentIncentives = list
	}
}

// PercentToFraction converts a percentage entered as 0-100 into a 0-1 fraction
func PercentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(decimal.NewFromInt(100))
}
