package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration())

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.DualVat, "Should initialize dual VAT calculator")
	assert.NotNil(t, engine.Legacy, "Should initialize legacy calculator")
	assert.NotNil(t, engine.Cross, "Should initialize cross-credit engine")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestEngine_SetLogger(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration())

	// Test setting a custom logger
	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)

	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")
	assert.Equal(t, customLogger, engine.Legacy.Logger, "Should propagate to the legacy calculator")

	// Test setting nil logger (should use no-op logger)
	engine.SetLogger(nil)

	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestEngine_ScenarioA(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration())

	results, err := engine.CompareAcrossYears(scenarioA(), []int{2026, 2028})
	require.NoError(t, err)
	require.Len(t, results, 2)

	y2026 := results[2026]
	assert.True(t, y2026.CBS.Equal(dec("880")), "CBS: got %s", y2026.CBS)
	assert.True(t, y2026.IBS.Equal(dec("1770")), "IBS: got %s", y2026.IBS)
	assert.True(t, y2026.Legacy.ICMS.Equal(dec("114000")))
	assert.True(t, y2026.CrossCredit.IsZero(), "no cross-credit in 2026")
	assert.True(t, y2026.TotalDue.Equal(dec("169500")), "total due: got %s", y2026.TotalDue)
	assert.True(t, y2026.EffectiveRate.Equal(dec("0.1695")), "effective rate: got %s", y2026.EffectiveRate)

	y2028 := results[2028]
	assert.True(t, y2028.IBS.Equal(dec("28320")), "IBS: got %s", y2028.IBS)
	assert.True(t, y2028.CrossCredit.Equal(dec("11328")), "cross credit: got %s", y2028.CrossCredit)
	assert.True(t, y2028.Legacy.ICMS.Equal(dec("102672")))
	assert.True(t, y2028.NetTax.IsZero())
	assert.True(t, y2028.TotalDue.Equal(dec("158172")), "total due: got %s", y2028.TotalDue)
}

func TestEngine_ScenarioD_ZeroRevenue(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration())

	result, err := engine.ComputeYear(domain.CompanyInput{Regime: domain.RegimeReal}, 2030)
	require.NoError(t, err)

	assert.True(t, result.EffectiveRate.IsZero())
	assert.True(t, result.TotalDue.IsZero())
	assert.Contains(t, result.Trace.Section(domain.SectionTotalDue)[1], "no revenue")
}

func TestEngine_AllScheduleYearsByDefault(t *testing.T) {
	cfg := domain.NewDefaultConfiguration()
	engine := NewEngine(cfg)

	results, err := engine.CompareAcrossYears(scenarioA(), nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.TransitionYears(), domain.SortedYears(results))
}

func TestEngine_ValidationFailsFast(t *testing.T) {
	tests := []struct {
		name  string
		input domain.CompanyInput
		rule  domain.ValidationRule
	}{
		{"negative revenue", domain.CompanyInput{Revenue: dec("-10")}, domain.RuleNegativeRevenue},
		{"costs exceed revenue", domain.CompanyInput{Revenue: dec("10"), TaxableCosts: dec("11")}, domain.RuleCostsExceedRevenue},
		{"simples over the limit", domain.CompanyInput{Revenue: dec("4800001"), Regime: domain.RegimeSimples}, domain.RuleSimplesRevenueLimit},
		{"negative rural costs", domain.CompanyInput{Revenue: dec("10"), RuralCosts: dec("-1")}, domain.RuleNegativeAmount},
		{"unknown regime", domain.CompanyInput{Revenue: dec("10"), Regime: "mei"}, domain.RuleUnknownRegime},
		{"burden above 100", domain.CompanyInput{Revenue: dec("10"), CurrentBurdenPercent: dec("101")}, domain.RuleBurdenPercent},
	}

	engine := NewEngine(domain.NewDefaultConfiguration())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := engine.CompareAcrossYears(tt.input, []int{2026, 2027})
			require.Error(t, err)
			assert.Nil(t, results, "no year is processed")

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "expected a ValidationError, got %T", err)
			assert.Equal(t, tt.rule, ve.Rule)
			assert.Contains(t, err.Error(), string(tt.rule))
		})
	}
}

func TestEngine_SimplesAtTheLimit(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration())
	input := domain.CompanyInput{Revenue: dec("4800000"), Regime: domain.RegimeSimples}

	_, err := engine.ComputeYear(input, 2026)
	assert.NoError(t, err, "the limit itself is allowed")
}

func TestEngine_Idempotent(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration())
	input := scenarioA()
	input.SimplesCosts = dec("150000")
	input.Sector = "health"

	first, err := engine.CompareAcrossYears(input, nil)
	require.NoError(t, err)
	second, err := engine.CompareAcrossYears(input, nil)
	require.NoError(t, err)

	for year, a := range first {
		b := second[year]
		assert.True(t, a.TotalDue.Equal(b.TotalDue), "%d: total due differs", year)
		assert.True(t, a.Credits.Equal(b.Credits), "%d: credits differ", year)
		assert.Equal(t, len(a.Trace.Entries), len(b.Trace.Entries), "%d: trace length differs", year)
		assert.NotEqual(t, a.Trace.RunID, b.Trace.RunID, "each run gets a fresh trace")
	}
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	cfg := domain.NewDefaultConfiguration()
	cfg, err := cfg.WithIncentive(domain.CategoryOutput, domain.Incentive{
		Description: "Programa de desenvolvimento", Type: domain.IncentivePresumedCredit,
		Percentage: dec("0.6"), Coverage: dec("0.7"),
	})
	require.NoError(t, err)

	input := scenarioA()
	input.ImportedCosts = dec("80000")

	sequential, err := NewEngine(cfg).CompareAcrossYears(input, nil)
	require.NoError(t, err)
	parallel, err := NewEngine(cfg, WithParallelYears()).CompareAcrossYears(input, nil)
	require.NoError(t, err)

	require.Equal(t, domain.SortedYears(sequential), domain.SortedYears(parallel))
	for year, s := range sequential {
		p := parallel[year]
		assert.True(t, s.TotalDue.Equal(p.TotalDue), "%d: %s vs %s", year, s.TotalDue, p.TotalDue)
		assert.True(t, s.Legacy.ICMS.Equal(p.Legacy.ICMS), "%d: ICMS differs", year)
	}
}

func TestEngine_SnapshotsConfiguration(t *testing.T) {
	cfg := domain.NewDefaultConfiguration()
	engine := NewEngine(cfg)

	cfg.BaseRates.CBS = dec("0.5")
	cfg.Sectors["default"] = domain.SectorRates{IBSRate: dec("0.9")}

	result, err := engine.ComputeYear(scenarioA(), 2026)
	require.NoError(t, err)
	assert.True(t, result.CBS.Equal(dec("880")), "later edits must not reach the engine")
	assert.True(t, result.IBS.Equal(dec("1770")))
}

func TestEngine_LegacyPhaseOut(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration(), WithLegacyPhaseOut())

	result, err := engine.ComputeYear(scenarioA(), 2033)
	require.NoError(t, err)

	assert.True(t, result.Legacy.Total.IsZero(), "every legacy tax is extinguished in 2033")
	assert.True(t, result.TotalDue.Equal(result.NetTax))
	assert.NotEmpty(t, result.Trace.Section(domain.SectionPhaseOut))
}

func TestEngine_TotalDueInvariant(t *testing.T) {
	engine := NewEngine(domain.NewDefaultConfiguration())
	input := domain.CompanyInput{
		Revenue:       dec("2500000"),
		TaxableCosts:  dec("300000"),
		RuralCosts:    dec("120000"),
		ImportedCosts: dec("50000"),
		Sector:        "industry",
		Regime:        domain.RegimePresumed,
	}

	results, err := engine.CompareAcrossYears(input, nil)
	require.NoError(t, err)
	for year, r := range results {
		assert.True(t, r.NetTax.Equal(decimal.Max(decimal.Zero, r.GrossTax.Sub(r.Credits))), "%d: net tax", year)
		assert.True(t, r.TotalDue.Equal(r.NetTax.Add(r.Legacy.Total)), "%d: total due", year)
		assert.True(t, r.Legacy.Total.Equal(r.Legacy.SumLines()), "%d: legacy total", year)
		assert.True(t, r.CrossCredit.LessThanOrEqual(r.ICMS.Due), "%d: cross-credit above ICMS", year)
	}
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
