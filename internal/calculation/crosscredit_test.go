package calculation

import (
	"testing"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCrossCreditEngine_Apply(t *testing.T) {
	legacy := domain.LegacyTaxes{
		PIS:    dec("9900"),
		COFINS: dec("45600"),
		ICMS:   dec("114000"),
		Total:  dec("169500"),
	}
	engine := NewCrossCreditEngine(domain.NewDefaultConfiguration())

	tests := []struct {
		name          string
		year          int
		ibs           string
		expectedClaim string
		expectedICMS  string
	}{
		{"fraction of IBS", 2028, "28320", "11328", "102672"},
		{"claim capped at ICMS", 2032, "1000000", "114000", "0"},
		{"no offset configured", 2026, "28320", "0", "114000"},
		{"after the transition", 2033, "28320", "0", "114000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adjusted, claim := engine.Apply(tt.year, dec(tt.ibs), legacy, domain.NewCalculationTrace())

			assert.True(t, claim.Equal(dec(tt.expectedClaim)), "claim: expected %s, got %s", tt.expectedClaim, claim)
			assert.True(t, adjusted.ICMS.Equal(dec(tt.expectedICMS)), "ICMS: expected %s, got %s", tt.expectedICMS, adjusted.ICMS)
			assert.False(t, adjusted.ICMS.IsNegative())
			assert.True(t, adjusted.Total.Equal(adjusted.SumLines()))
			assert.True(t, legacy.ICMS.Equal(dec("114000")), "input must not be mutated")
		})
	}
}

func TestCrossCreditEngine_FollowsConfiguration(t *testing.T) {
	cfg, err := domain.NewDefaultConfiguration().WithCrossCredit(2033, dec("0.5"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	legacy := domain.LegacyTaxes{ICMS: dec("114000"), Total: dec("114000")}

	adjusted, claim := NewCrossCreditEngine(cfg).Apply(2033, dec("10000"), legacy, domain.NewCalculationTrace())
	assert.True(t, claim.Equal(dec("5000")), "got %s", claim)
	assert.True(t, adjusted.ICMS.Equal(dec("109000")), "got %s", adjusted.ICMS)
}
