package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfiguration(t *testing.T) {
	cfg := NewDefaultConfiguration()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{2026, 2027, 2028, 2029, 2030, 2031, 2032, 2033}, cfg.TransitionYears())
	assert.True(t, cfg.BaseRates.CBS.Equal(d("0.088")))
	assert.True(t, cfg.BaseRates.IBS.Equal(d("0.177")))
	assert.False(t, cfg.ICMS.HasIncentives())

	_, ok := cfg.CrossCreditFraction(2027)
	assert.False(t, ok, "no cross-credit before 2028")
	f, ok := cfg.CrossCreditFraction(2028)
	assert.True(t, ok)
	assert.True(t, f.Equal(d("0.40")))
}

func TestTransitionFactor_OutsideSchedule(t *testing.T) {
	cfg := NewDefaultConfiguration()
	assert.True(t, cfg.TransitionFactor(2028).Equal(d("0.40")))
	assert.True(t, cfg.TransitionFactor(2040).Equal(decimal.NewFromInt(1)), "fully implemented after the schedule")
}

func TestEffectiveRates(t *testing.T) {
	cfg := NewDefaultConfiguration()

	tests := []struct {
		name   string
		sector string
		year   int
		cbs    string
		ibs    string
	}{
		{"default sector 2026", "default", 2026, "0.0088", "0.0177"},
		{"education 2033", "education", 2033, "0.0528", "0.125"},
		{"unknown sector falls back", "mining", 2033, "0.088", "0.177"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := cfg.EffectiveRates(tt.sector, tt.year)
			assert.True(t, r.CBS.Equal(d(tt.cbs)), "CBS: expected %s, got %s", tt.cbs, r.CBS)
			assert.True(t, r.IBS.Equal(d(tt.ibs)), "IBS: expected %s, got %s", tt.ibs, r.IBS)
			assert.True(t, r.Total.Equal(r.CBS.Add(r.IBS)))
		})
	}

	assert.True(t, cfg.IsSpecialSector("health"))
	assert.False(t, cfg.IsSpecialSector(DefaultSector))
	assert.False(t, cfg.IsSpecialSector("mining"))
}

func TestClone_IsDeep(t *testing.T) {
	cfg, err := NewDefaultConfiguration().WithIncentive(CategoryInput, Incentive{
		Description: "crédito presumido", Type: IncentivePresumedCredit, Percentage: d("0.1"), Coverage: d("0.5"),
	})
	require.NoError(t, err)

	clone := cfg.Clone()
	clone.TransitionSchedule[2026] = d("0.99")
	clone.Sectors["food"] = SectorRates{}
	clone.CrossCredit[2028] = d("0")
	clone.LegacyPhaseOut[2033] = LegacyReduction{}
	clone.ICMS.InputIncentives[0].Percentage = d("0.9")

	assert.True(t, cfg.TransitionSchedule[2026].Equal(d("0.10")))
	assert.True(t, cfg.Sectors["food"].IBSRate.Equal(d("0.120")))
	assert.True(t, cfg.CrossCredit[2028].Equal(d("0.40")))
	assert.True(t, cfg.LegacyPhaseOut[2033].ICMS.Equal(d("1")))
	assert.True(t, cfg.ICMS.InputIncentives[0].Percentage.Equal(d("0.1")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TaxConfiguration)
		rule   ValidationRule
	}{
		{"missing default sector", func(c *TaxConfiguration) { delete(c.Sectors, DefaultSector) }, RuleMissingDefaultSector},
		{"CBS above one", func(c *TaxConfiguration) { c.BaseRates.CBS = d("1.5") }, RuleRateRange},
		{"negative factor", func(c *TaxConfiguration) { c.TransitionSchedule[2030] = d("-0.1") }, RuleRateRange},
		{"sector IBS above one", func(c *TaxConfiguration) { c.Sectors["food"] = SectorRates{IBSRate: d("2")} }, RuleRateRange},
		{"ICMS rate", func(c *TaxConfiguration) { c.ICMS.OutputRate = d("-0.01") }, RuleRateRange},
		{"cross-credit", func(c *TaxConfiguration) { c.CrossCredit[2029] = d("1.01") }, RuleRateRange},
		{"simples limit", func(c *TaxConfiguration) { c.SimplesRevenueLimit = d("-1") }, RuleRateRange},
		{"negative PIS", func(c *TaxConfiguration) { c.LegacyRates.PIS = d("-0.5") }, RuleRateRange},
		{"ISS above one", func(c *TaxConfiguration) { c.LegacyRates.ISS.Services = d("5") }, RuleRateRange},
		{"IPI industry", func(c *TaxConfiguration) { c.LegacyRates.IPI.Industry = d("-0.15") }, RuleRateRange},
		{"negative Simples cap", func(c *TaxConfiguration) { c.CreditRules.SimplesCapOnDueTax = d("-2") }, RuleRateRange},
		{"import credit above one", func(c *TaxConfiguration) { c.CreditRules.ImportCBS = d("1.5") }, RuleRateRange},
		{"phase-out above one", func(c *TaxConfiguration) {
			c.LegacyPhaseOut[2028] = LegacyReduction{ICMS: d("1.5")}
		}, RuleRateRange},
		{"incentive type not allowed", func(c *TaxConfiguration) {
			c.ICMS.AssessmentIncentives = []Incentive{{Type: IncentiveDeferral, Percentage: d("0.1"), Coverage: d("0.1")}}
		}, RuleIncentiveType},
		{"coverage sum", func(c *TaxConfiguration) {
			c.ICMS.OutputIncentives = []Incentive{
				{Type: IncentiveRateReduction, Percentage: d("0.1"), Coverage: d("0.6")},
				{Type: IncentiveDeferral, Percentage: d("0.1"), Coverage: d("0.5")},
			}
		}, RuleIncentiveCoverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfiguration()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.rule, ve.Rule)
		})
	}
}
