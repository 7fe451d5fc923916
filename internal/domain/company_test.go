package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegime(t *testing.T) {
	for _, s := range []string{"real", "presumed", "simples"} {
		r, err := ParseRegime(s)
		require.NoError(t, err)
		assert.Equal(t, Regime(s), r)
	}
	_, err := ParseRegime("mei")
	assert.Error(t, err)
}

func TestCompanyInput(t *testing.T) {
	assert.Equal(t, DefaultSector, CompanyInput{}.SectorOrDefault())
	assert.Equal(t, "health", CompanyInput{Sector: "health"}.SectorOrDefault())

	assert.True(t, CompanyInput{}.CostRatio().IsZero(), "no revenue")
	ratio := CompanyInput{Revenue: d("1000000"), TaxableCosts: d("400000")}.CostRatio()
	assert.True(t, ratio.Equal(d("0.4")))
}

func TestCalculationTrace(t *testing.T) {
	trace := NewCalculationTrace()
	other := NewCalculationTrace()
	assert.NotEqual(t, trace.RunID, other.RunID)

	trace.Addf(SectionCBS, "CBS: %s", "R$ 880,00")
	trace.Addf(SectionIBS, "IBS")
	trace.Addf(SectionCBS, "second")

	assert.Equal(t, []string{"CBS: R$ 880,00", "second"}, trace.Section(SectionCBS))
	assert.Equal(t, []TraceSection{SectionCBS, SectionIBS}, trace.Sections())
	assert.Empty(t, trace.Section(SectionICMS))

	var nilTrace *CalculationTrace
	nilTrace.Addf(SectionCBS, "ignored")
	assert.Nil(t, nilTrace.Section(SectionCBS))
}
