package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultSector is the sector table entry used for sectors without special rates
const DefaultSector = "default"

// BaseRates holds the nominal dual VAT rates (LC 214/2025, art. 12)
type BaseRates struct {
	CBS decimal.Decimal `yaml:"cbs" json:"cbs"`
	IBS decimal.Decimal `yaml:"ibs" json:"ibs"`
}

// SectorRates holds the differentiated dual VAT treatment of a sector
type SectorRates struct {
	IBSRate      decimal.Decimal `yaml:"ibs_rate" json:"ibs_rate"`
	CBSReduction decimal.Decimal `yaml:"cbs_reduction" json:"cbs_reduction"`
}

// IPIRates holds the IPI rates (average, varies by product)
type IPIRates struct {
	Default  decimal.Decimal `yaml:"default" json:"default"`
	Industry decimal.Decimal `yaml:"industry" json:"industry"`
}

// ICMSRates holds the nominal ICMS rates by sector
type ICMSRates struct {
	Default  decimal.Decimal `yaml:"default" json:"default"`
	Commerce decimal.Decimal `yaml:"commerce" json:"commerce"`
	Industry decimal.Decimal `yaml:"industry" json:"industry"`
	Services decimal.Decimal `yaml:"services" json:"services"`
}

// ISSRates holds the municipal service tax rates
type ISSRates struct {
	Default  decimal.Decimal `yaml:"default" json:"default"`
	Services decimal.Decimal `yaml:"services" json:"services"`
}

// LegacyRates contains the rates of the taxes being phased out
type LegacyRates struct {
	PIS    decimal.Decimal `yaml:"pis" json:"pis"`
	COFINS decimal.Decimal `yaml:"cofins" json:"cofins"`
	IPI    IPIRates        `yaml:"ipi" json:"ipi"`
	ICMS   ICMSRates       `yaml:"icms" json:"icms"`
	ISS    ISSRates        `yaml:"iss" json:"iss"`
}

// ICMSConfig holds the average operational ICMS rates for a simulation run
// and the three ordered incentive lists.
type ICMSConfig struct {
	InputRate            decimal.Decimal `yaml:"input_rate" json:"input_rate"`
	OutputRate           decimal.Decimal `yaml:"output_rate" json:"output_rate"`
	OutputIncentives     []Incentive     `yaml:"output_incentives" json:"output_incentives"`
	InputIncentives      []Incentive     `yaml:"input_incentives" json:"input_incentives"`
	AssessmentIncentives []Incentive     `yaml:"assessment_incentives" json:"assessment_incentives"`
}

// Incentives returns the list for a category
func (c ICMSConfig) Incentives(category IncentiveCategory) []Incentive {
	switch category {
	case CategoryOutput:
		return c.OutputIncentives
	case CategoryInput:
		return c.InputIncentives
	case CategoryAssessment:
		return c.AssessmentIncentives
	}
	return nil
}

// HasIncentives reports whether any incentive is configured in any category
func (c ICMSConfig) HasIncentives() bool {
	return len(c.OutputIncentives) > 0 || len(c.InputIncentives) > 0 || len(c.AssessmentIncentives) > 0
}

// CreditRules holds the dual VAT input-credit eligibility rules (art. 29)
type CreditRules struct {
	Normal             decimal.Decimal `yaml:"normal" json:"normal"`
	Simples            decimal.Decimal `yaml:"simples" json:"simples"`
	SimplesCapOnDueTax decimal.Decimal `yaml:"simples_cap_on_due_tax" json:"simples_cap_on_due_tax"`
	RuralCBS           decimal.Decimal `yaml:"rural_cbs" json:"rural_cbs"`
	ImportIBS          decimal.Decimal `yaml:"import_ibs" json:"import_ibs"`
	ImportCBS          decimal.Decimal `yaml:"import_cbs" json:"import_cbs"`
}

// LegacyReduction is the fraction of each legacy tax extinguished in a year
type LegacyReduction struct {
	PIS    decimal.Decimal `yaml:"pis" json:"pis"`
	COFINS decimal.Decimal `yaml:"cofins" json:"cofins"`
	IPI    decimal.Decimal `yaml:"ipi" json:"ipi"`
	ICMS   decimal.Decimal `yaml:"icms" json:"icms"`
	ISS    decimal.Decimal `yaml:"iss" json:"iss"`
}

// TaxConfiguration is the registry of rates, schedules, sector tables,
// credit rules and incentive lists read by every calculator. It is treated
// as a value: mutation goes through the With* methods, which return a new
// validated configuration.
type TaxConfiguration struct {
	BaseRates           BaseRates               `yaml:"base_rates" json:"base_rates"`
	TransitionSchedule  map[int]decimal.Decimal `yaml:"transition_schedule" json:"transition_schedule"`
	Sectors             map[string]SectorRates  `yaml:"sectors" json:"sectors"`
	LegacyRates         LegacyRates             `yaml:"legacy_rates" json:"legacy_rates"`
	ICMS                ICMSConfig              `yaml:"icms" json:"icms"`
	CreditRules         CreditRules             `yaml:"credit_rules" json:"credit_rules"`
	CrossCredit         map[int]decimal.Decimal `yaml:"cross_credit" json:"cross_credit"`
	SimplesRevenueLimit decimal.Decimal         `yaml:"simples_revenue_limit" json:"simples_revenue_limit"`
	LegacyPhaseOut      map[int]LegacyReduction `yaml:"legacy_phase_out,omitempty" json:"legacy_phase_out,omitempty"`
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewDefaultConfiguration returns the configuration defined by LC 214/2025
// with average legacy rates and no ICMS incentives.
func NewDefaultConfiguration() TaxConfiguration {
	return TaxConfiguration{
		BaseRates: BaseRates{CBS: d("0.088"), IBS: d("0.177")},
		TransitionSchedule: map[int]decimal.Decimal{
			2026: d("0.10"),
			2027: d("0.25"),
			2028: d("0.40"),
			2029: d("0.60"),
			2030: d("0.80"),
			2031: d("0.90"),
			2032: d("0.95"),
			2033: d("1.00"),
		},
		Sectors: map[string]SectorRates{
			DefaultSector: {IBSRate: d("0.177"), CBSReduction: decimal.Zero},
			"education":   {IBSRate: d("0.125"), CBSReduction: d("0.40")},
			"health":      {IBSRate: d("0.145"), CBSReduction: d("0.30")},
			"food":        {IBSRate: d("0.120"), CBSReduction: d("0.25")},
			"transport":   {IBSRate: d("0.150"), CBSReduction: d("0.20")},
		},
		LegacyRates: LegacyRates{
			PIS:    d("0.0165"),
			COFINS: d("0.076"),
			IPI:    IPIRates{Default: d("0.10"), Industry: d("0.15")},
			ICMS:   ICMSRates{Default: d("0.19"), Commerce: d("0.19"), Industry: d("0.19"), Services: d("0.19")},
			ISS:    ISSRates{Default: d("0.05"), Services: d("0.05")},
		},
		ICMS: ICMSConfig{
			InputRate:  d("0.19"),
			OutputRate: d("0.19"),
		},
		CreditRules: CreditRules{
			Normal:             d("1.0"),
			Simples:            d("0.20"),
			SimplesCapOnDueTax: d("0.40"),
			RuralCBS:           d("0.60"),
			ImportIBS:          d("1.0"),
			ImportCBS:          d("0.50"),
		},
		CrossCredit: map[int]decimal.Decimal{
			2028: d("0.40"),
			2029: d("0.50"),
			2030: d("0.60"),
			2031: d("0.70"),
			2032: d("0.80"),
		},
		SimplesRevenueLimit: decimal.NewFromInt(4_800_000),
		LegacyPhaseOut: map[int]LegacyReduction{
			2026: {},
			2027: {PIS: d("1"), COFINS: d("1")},
			2028: {PIS: d("1"), COFINS: d("1"), IPI: d("0.3"), ICMS: d("0.33"), ISS: d("0.40")},
			2029: {PIS: d("1"), COFINS: d("1"), IPI: d("0.6"), ICMS: d("0.56"), ISS: d("0.70")},
			2030: {PIS: d("1"), COFINS: d("1"), IPI: d("0.8"), ICMS: d("0.70"), ISS: d("0.80")},
			2031: {PIS: d("1"), COFINS: d("1"), IPI: d("0.9"), ICMS: d("0.80"), ISS: d("0.90")},
			2032: {PIS: d("1"), COFINS: d("1"), IPI: d("0.95"), ICMS: d("0.95"), ISS: d("0.95")},
			2033: {PIS: d("1"), COFINS: d("1"), IPI: d("1"), ICMS: d("1"), ISS: d("1")},
		},
	}
}

// TransitionFactor returns the dual VAT implementation factor for a year.
// Years outside the schedule are treated as fully implemented.
func (c TaxConfiguration) TransitionFactor(year int) decimal.Decimal {
	if f, ok := c.TransitionSchedule[year]; ok {
		return f
	}
	return decimal.NewFromInt(1)
}

// Sector returns the rates for a sector, falling back to the default entry
func (c TaxConfiguration) Sector(name string) SectorRates {
	if s, ok := c.Sectors[name]; ok {
		return s
	}
	return c.Sectors[DefaultSector]
}

// IsSpecialSector reports whether a sector has its own table entry other than the default
func (c TaxConfiguration) IsSpecialSector(name string) bool {
	if name == DefaultSector {
		return false
	}
	_, ok := c.Sectors[name]
	return ok
}

// EffectiveRates are the CBS/IBS rates after sector treatment and transition factor
type EffectiveRates struct {
	CBS              decimal.Decimal `json:"cbs"`
	IBS              decimal.Decimal `json:"ibs"`
	Total            decimal.Decimal `json:"total"`
	TransitionFactor decimal.Decimal `json:"transition_factor"`
}

// EffectiveRates calculates the effective dual VAT rates for a sector and year
func (c TaxConfiguration) EffectiveRates(sector string, year int) EffectiveRates {
	factor := c.TransitionFactor(year)
	rules := c.Sector(sector)

	cbs := c.BaseRates.CBS.Mul(decimal.NewFromInt(1).Sub(rules.CBSReduction)).Mul(factor)
	ibs := rules.IBSRate.Mul(factor)

	return EffectiveRates{CBS: cbs, IBS: ibs, Total: cbs.Add(ibs), TransitionFactor: factor}
}

// CrossCreditFraction returns the IBS-to-ICMS offset fraction for a year, if any
func (c TaxConfiguration) CrossCreditFraction(year int) (decimal.Decimal, bool) {
	f, ok := c.CrossCredit[year]
	return f, ok
}

// TransitionYears returns the scheduled years in ascending order
func (c TaxConfiguration) TransitionYears() []int {
	years := make([]int, 0, len(c.TransitionSchedule))
	for y := range c.TransitionSchedule {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Clone returns a deep copy so that callers can mutate the result freely
func (c TaxConfiguration) Clone() TaxConfiguration {
	out := c
	out.TransitionSchedule = cloneYearMap(c.TransitionSchedule)
	out.CrossCredit = cloneYearMap(c.CrossCredit)

	if c.Sectors != nil {
		out.Sectors = make(map[string]SectorRates, len(c.Sectors))
		for k, v := range c.Sectors {
			out.Sectors[k] = v
		}
	}
	if c.LegacyPhaseOut != nil {
		out.LegacyPhaseOut = make(map[int]LegacyReduction, len(c.LegacyPhaseOut))
		for k, v := range c.LegacyPhaseOut {
			out.LegacyPhaseOut[k] = v
		}
	}

	out.ICMS.OutputIncentives = cloneIncentives(c.ICMS.OutputIncentives)
	out.ICMS.InputIncentives = cloneIncentives(c.ICMS.InputIncentives)
	out.ICMS.AssessmentIncentives = cloneIncentives(c.ICMS.AssessmentIncentives)
	return out
}

func cloneYearMap(m map[int]decimal.Decimal) map[int]decimal.Decimal {
	if m == nil {
		return nil
	}
	out := make(map[int]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneIncentives(in []Incentive) []Incentive {
	if in == nil {
		return nil
	}
	out := make([]Incentive, len(in))
	copy(out, in)
	return out
}

// Validate checks the structural invariants of the whole configuration
func (c TaxConfiguration) Validate() error {
	if _, ok := c.Sectors[DefaultSector]; !ok {
		return NewValidationError(RuleMissingDefaultSector, "sector table must include a %q entry", DefaultSector)
	}
	if err := validateRate("base CBS rate", c.BaseRates.CBS); err != nil {
		return err
	}
	if err := validateRate("base IBS rate", c.BaseRates.IBS); err != nil {
		return err
	}
	for _, year := range c.TransitionYears() {
		if err := validateRate("transition factor", c.TransitionSchedule[year]); err != nil {
			return err
		}
	}
	for name, s := range c.Sectors {
		if err := validateRate("IBS rate of sector "+name, s.IBSRate); err != nil {
			return err
		}
		if err := validateRate("CBS reduction of sector "+name, s.CBSReduction); err != nil {
			return err
		}
	}
	if err := validateRates(c.legacyRateFields()); err != nil {
		return err
	}
	if err := validateRates(c.creditRuleFields()); err != nil {
		return err
	}
	for _, year := range sortedPhaseOutYears(c.LegacyPhaseOut) {
		red := c.LegacyPhaseOut[year]
		if err := validateRates(map[string]decimal.Decimal{
			"PIS": red.PIS, "COFINS": red.COFINS, "IPI": red.IPI, "ICMS": red.ICMS, "ISS": red.ISS,
		}); err != nil {
			return NewValidationError(RuleRateRange, "legacy phase-out %d: %s", year, err.(*ValidationError).Message)
		}
	}
	if err := validateRate("ICMS input rate", c.ICMS.InputRate); err != nil {
		return err
	}
	if err := validateRate("ICMS output rate", c.ICMS.OutputRate); err != nil {
		return err
	}
	for year, f := range c.CrossCredit {
		if err := validateRate("cross-credit fraction", f); err != nil {
			return NewValidationError(RuleRateRange, "year %d: %s", year, err.(*ValidationError).Message)
		}
	}
	if c.SimplesRevenueLimit.LessThan(decimal.Zero) {
		return NewValidationError(RuleRateRange, "Simples revenue limit cannot be negative")
	}
	for _, category := range Categories {
		list := c.ICMS.Incentives(category)
		for i, inc := range list {
			if err := ValidateIncentive(category, inc); err != nil {
				ve := err.(*ValidationError)
				return NewValidationError(ve.Rule, "%s incentive %d (%s): %s", category, i+1, inc.Description, ve.Message)
			}
		}
		if err := ValidateCoverage(category, list); err != nil {
			return err
		}
	}
	return nil
}

func validateRate(name string, rate decimal.Decimal) error {
	if !isFraction(rate) {
		return NewValidationError(RuleRateRange, "%s must be between 0 and 1, got %s", name, rate)
	}
	return nil
}

func (c TaxConfiguration) legacyRateFields() map[string]decimal.Decimal {
	r := c.LegacyRates
	return map[string]decimal.Decimal{
		"PIS rate":           r.PIS,
		"COFINS rate":        r.COFINS,
		"IPI default rate":   r.IPI.Default,
		"IPI industry rate":  r.IPI.Industry,
		"ICMS default rate":  r.ICMS.Default,
		"ICMS commerce rate": r.ICMS.Commerce,
		"ICMS industry rate": r.ICMS.Industry,
		"ICMS services rate": r.ICMS.Services,
		"ISS default rate":   r.ISS.Default,
		"ISS services rate":  r.ISS.Services,
	}
}

func (c TaxConfiguration) creditRuleFields() map[string]decimal.Decimal {
	r := c.CreditRules
	return map[string]decimal.Decimal{
		"normal credit share":     r.Normal,
		"Simples credit share":    r.Simples,
		"Simples credit cap":      r.SimplesCapOnDueTax,
		"rural CBS credit share":  r.RuralCBS,
		"import IBS credit share": r.ImportIBS,
		"import CBS credit share": r.ImportCBS,
	}
}

// validateRates checks named fractions in name order so errors are stable
func validateRates(fields map[string]decimal.Decimal) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validateRate(name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}

func sortedPhaseOutYears(m map[int]LegacyReduction) []int {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
