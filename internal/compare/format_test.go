package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *ComparisonSet {
	cs := &ComparisonSet{
		Company:    scenarioA(),
		BaseYear:   2026,
		ConfigPath: "config.yaml",
		Years: []YearComparison{
			{Year: 2026, TransitionFactor: dec("0.10"), LegacyTotal: dec("169500"), TotalDue: dec("169500"), EffectiveRate: dec("0.1695"),
				ICMS: dec("114000"), ICMSWithoutIncentives: dec("114000")},
			{Year: 2028, TransitionFactor: dec("0.40"), LegacyTotal: dec("158172"), CrossCredit: dec("11328"), TotalDue: dec("158172"),
				EffectiveRate: dec("0.158172"), ICMS: dec("90000"), ICMSWithoutIncentives: dec("114000"), ICMSSavings: dec("24000"),
				DiffFromBase: dec("-11328"), PctFromBase: dec("-6.68"), Warnings: []string{"legacy tax computation failed"}},
		},
	}
	cs.Recommendations = GenerateRecommendations(cs)
	return cs
}

func TestTableFormatter_Format(t *testing.T) {
	out := (&TableFormatter{}).Format(sampleSet())

	assert.Contains(t, out, "LEGACY REGIME VS DUAL VAT COMPARISON")
	assert.Contains(t, out, "Revenue: R$ 1.000.000,00 | Sector: default | Regime: real")
	assert.Contains(t, out, "Configuration: config.yaml")
	assert.Contains(t, out, "(base)")
	assert.Contains(t, out, "158.172")
	assert.Contains(t, out, "-6,7%")
	assert.Contains(t, out, "ICMS WITH AND WITHOUT INCENTIVES")
	assert.Contains(t, out, "WARNING (2028): legacy tax computation failed")
	assert.Contains(t, out, "ICMS incentives save R$ 24.000,00 over the period")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	out := (&TableFormatter{}).FormatCompact(sampleSet())
	assert.Equal(t, "2026: R$ 169.500,00 | 2028: R$ 158.172,00", out)
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(sampleSet())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Year", records[0][0])
	assert.Equal(t, []string{"2026", "base"}, records[1][:2])
	assert.Equal(t, "2028", records[2][0])
	assert.Equal(t, "158172.00", records[2][12])
	assert.Equal(t, "0.1582", records[2][13])
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(sampleSet())
		require.NoError(t, err)
		assert.Equal(t, pretty, strings.Contains(out, "\n  "), "indentation follows Pretty")

		var decoded ComparisonSet
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, 2026, decoded.BaseYear)
		require.Len(t, decoded.Years, 2)
		assert.True(t, decoded.Years[1].CrossCredit.Equal(dec("11328")))
	}
}
