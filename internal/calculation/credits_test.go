package calculation

import (
	"testing"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fullRates() domain.EffectiveRates {
	return domain.EffectiveRates{CBS: dec("0.088"), IBS: dec("0.177"), Total: dec("0.265"), TransitionFactor: dec("1")}
}

func TestCreditAggregator_BySource(t *testing.T) {
	tests := []struct {
		name     string
		input    domain.CompanyInput
		due      string
		expected string
	}{
		{
			name:     "normal suppliers",
			input:    domain.CompanyInput{TaxableCosts: dec("100000")},
			due:      "1000000",
			expected: "26500",
		},
		{
			name:     "simples cap binds",
			input:    domain.CompanyInput{SimplesCosts: dec("100000")},
			due:      "10000",
			expected: "4000",
		},
		{
			name:     "simples under the cap",
			input:    domain.CompanyInput{SimplesCosts: dec("100000")},
			due:      "100000",
			expected: "5300",
		},
		{
			name:     "rural producers",
			input:    domain.CompanyInput{RuralCosts: dec("100000")},
			due:      "0",
			expected: "22980",
		},
		{
			name:     "imports",
			input:    domain.CompanyInput{ImportedCosts: dec("100000")},
			due:      "0",
			expected: "22100",
		},
		{
			name:     "prior credits added unconditionally",
			input:    domain.CompanyInput{PriorCredits: dec("5000")},
			due:      "0",
			expected: "5000",
		},
		{
			name: "all sources summed",
			input: domain.CompanyInput{
				TaxableCosts:  dec("100000"),
				SimplesCosts:  dec("100000"),
				RuralCosts:    dec("100000"),
				ImportedCosts: dec("100000"),
				PriorCredits:  dec("5000"),
			},
			due:      "10000",
			expected: "80580",
		},
	}

	agg := NewCreditAggregator(domain.NewDefaultConfiguration().CreditRules)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.ComputeCredits(tt.input, fullRates(), dec(tt.due), domain.NewCalculationTrace())
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCreditAggregator_NoCostsNoCredit(t *testing.T) {
	agg := NewCreditAggregator(domain.NewDefaultConfiguration().CreditRules)
	trace := domain.NewCalculationTrace()

	got := agg.ComputeCredits(domain.CompanyInput{}, fullRates(), decimal.Zero, trace)

	assert.True(t, got.IsZero())
	lines := trace.Section(domain.SectionCredits)
	assert.Len(t, lines, 2, "rates line and total line only")
}
