package calculation

import (
	"testing"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func icmsConfig(out, in, assessment []domain.Incentive) domain.ICMSConfig {
	return domain.ICMSConfig{
		InputRate:            dec("0.19"),
		OutputRate:           dec("0.19"),
		OutputIncentives:     out,
		InputIncentives:      in,
		AssessmentIncentives: assessment,
	}
}

func TestComputeICMS_NoIncentives(t *testing.T) {
	tests := []struct {
		name         string
		revenue      string
		costs        string
		inRate       string
		outRate      string
		expectedDue  string
		expectedBase string
	}{
		{"scenario A", "1000000", "400000", "0.19", "0.19", "114000", "114000"},
		{"credit exceeds debit", "100000", "100000", "0.25", "0.12", "0", "-13000"},
		{"zero revenue", "0", "0", "0.19", "0.19", "0", "0"},
		{"different rates", "500000", "200000", "0.07", "0.18", "76000", "76000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.ICMSConfig{InputRate: dec(tt.inRate), OutputRate: dec(tt.outRate)}
			detail := ComputeICMS(cfg, dec(tt.revenue), dec(tt.costs), domain.NewCalculationTrace())

			assert.True(t, detail.Due.Equal(dec(tt.expectedDue)), "due: expected %s, got %s", tt.expectedDue, detail.Due)
			assert.True(t, detail.Baseline.Equal(dec(tt.expectedBase)), "baseline: expected %s, got %s", tt.expectedBase, detail.Baseline)
			assert.True(t, detail.Savings.IsZero(), "no incentive means no savings")
			assert.Empty(t, detail.OutputSlices)
		})
	}
}

func TestComputeICMS_OutputRateReduction(t *testing.T) {
	cfg := icmsConfig([]domain.Incentive{
		{Description: "Programa estadual", Type: domain.IncentiveRateReduction, Percentage: dec("0.50"), Coverage: dec("1.0")},
	}, nil, nil)

	detail := ComputeICMS(cfg, dec("1000000"), decimal.Zero, domain.NewCalculationTrace())

	assert.True(t, detail.TotalDebit.Equal(dec("95000")), "expected 95000, got %s", detail.TotalDebit)
	assert.True(t, detail.UnincentivizedRevenue.IsZero(), "full coverage leaves no revenue")
	require.Len(t, detail.OutputSlices, 1)
	assert.True(t, detail.OutputSlices[0].Slice.Equal(dec("1000000")))
	assert.True(t, detail.Due.Equal(dec("95000")))
	assert.True(t, detail.Savings.Equal(dec("95000")))
	assert.True(t, detail.SavingsPercent.Equal(dec("50")), "expected 50%%, got %s", detail.SavingsPercent)
}

func TestComputeICMS_OutputTypes(t *testing.T) {
	// 1,000,000 of revenue at 19%, half of it incentivized at 40%
	tests := []struct {
		name          string
		incentiveType domain.IncentiveType
		expectedDebit string
	}{
		{"rate reduction", domain.IncentiveRateReduction, "152000"},
		{"presumed credit", domain.IncentivePresumedCredit, "152000"},
		{"base reduction", domain.IncentiveBaseReduction, "152000"},
		{"deferral", domain.IncentiveDeferral, "152000"},
		{"unknown type uses the standard rate", domain.IncentiveType("mystery"), "190000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := icmsConfig([]domain.Incentive{
				{Description: tt.name, Type: tt.incentiveType, Percentage: dec("0.40"), Coverage: dec("0.5")},
			}, nil, nil)
			detail := ComputeICMS(cfg, dec("1000000"), decimal.Zero, domain.NewCalculationTrace())
			assert.True(t, detail.TotalDebit.Equal(dec(tt.expectedDebit)),
				"expected %s, got %s", tt.expectedDebit, detail.TotalDebit)
		})
	}
}

func TestComputeICMS_InputTypes(t *testing.T) {
	// 400,000 of costs at 19% = 76,000 of credit, fully covered at 25%
	tests := []struct {
		name           string
		incentiveType  domain.IncentiveType
		expectedCredit string
	}{
		{"rate reduction", domain.IncentiveRateReduction, "57000"},
		{"presumed credit adds", domain.IncentivePresumedCredit, "95000"},
		{"credit reversal subtracts", domain.IncentiveCreditReversal, "57000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := icmsConfig(nil, []domain.Incentive{
				{Description: tt.name, Type: tt.incentiveType, Percentage: dec("0.25"), Coverage: dec("1")},
			}, nil)
			detail := ComputeICMS(cfg, dec("1000000"), dec("400000"), domain.NewCalculationTrace())
			assert.True(t, detail.TotalCredit.Equal(dec(tt.expectedCredit)),
				"expected %s, got %s", tt.expectedCredit, detail.TotalCredit)
			assert.True(t, detail.TotalDebit.Equal(dec("190000")))
		})
	}
}

func TestComputeICMS_PoolPartition(t *testing.T) {
	outputs := []domain.Incentive{
		{Description: "A", Type: domain.IncentiveRateReduction, Percentage: dec("0.3"), Coverage: dec("0.25")},
		{Description: "B", Type: domain.IncentivePresumedCredit, Percentage: dec("0.5"), Coverage: dec("0.40")},
		{Description: "C", Type: domain.IncentiveDeferral, Percentage: dec("0.2"), Coverage: dec("0.35")},
	}
	inputs := []domain.Incentive{
		{Description: "D", Type: domain.IncentiveCreditReversal, Percentage: dec("0.1"), Coverage: dec("0.6")},
		{Description: "E", Type: domain.IncentivePresumedCredit, Percentage: dec("0.2"), Coverage: dec("0.4")},
	}
	revenue, costs := dec("1234567.89"), dec("765432.10")

	detail := ComputeICMS(icmsConfig(outputs, inputs, nil), revenue, costs, domain.NewCalculationTrace())

	sum := detail.UnincentivizedRevenue
	for _, s := range detail.OutputSlices {
		sum = sum.Add(s.Slice)
	}
	assert.True(t, sum.Equal(revenue), "revenue slices must add back to revenue: %s vs %s", sum, revenue)

	sum = detail.UnincentivizedCosts
	for _, s := range detail.InputSlices {
		sum = sum.Add(s.Slice)
	}
	assert.True(t, sum.Equal(costs), "cost slices must add back to costs: %s vs %s", sum, costs)
}

func TestComputeICMS_OrderMatters(t *testing.T) {
	first := domain.Incentive{Description: "first", Type: domain.IncentiveRateReduction, Percentage: dec("0.9"), Coverage: dec("0.5")}
	second := domain.Incentive{Description: "second", Type: domain.IncentiveRateReduction, Percentage: dec("0.1"), Coverage: dec("1.0")}

	ab := ComputeICMS(icmsConfig([]domain.Incentive{first, second}, nil, nil), dec("1000000"), decimal.Zero, domain.NewCalculationTrace())
	ba := ComputeICMS(icmsConfig([]domain.Incentive{second, first}, nil, nil), dec("1000000"), decimal.Zero, domain.NewCalculationTrace())

	// first claims 500,000 at 1.9%, second the remaining 500,000 at 17.1%
	assert.True(t, ab.TotalDebit.Equal(dec("95000")), "got %s", ab.TotalDebit)
	// second claims everything, first finds an empty pool
	assert.True(t, ba.TotalDebit.Equal(dec("171000")), "got %s", ba.TotalDebit)
}

func TestComputeICMS_NoopIncentivesDoNotConsumePool(t *testing.T) {
	cfg := icmsConfig([]domain.Incentive{
		{Description: "placeholder", Type: domain.IncentiveNone, Percentage: dec("0.5"), Coverage: dec("0.8")},
		{Description: "zero", Type: domain.IncentiveRateReduction, Percentage: decimal.Zero, Coverage: dec("0.8")},
		{Description: "real", Type: domain.IncentiveRateReduction, Percentage: dec("0.5"), Coverage: dec("0.5")},
	}, nil, nil)

	detail := ComputeICMS(cfg, dec("1000000"), decimal.Zero, domain.NewCalculationTrace())

	require.Len(t, detail.OutputSlices, 1)
	assert.True(t, detail.OutputSlices[0].Slice.Equal(dec("500000")))
	assert.True(t, detail.TotalDebit.Equal(dec("142500")), "got %s", detail.TotalDebit)
}

func TestComputeICMS_AssessmentIncentives(t *testing.T) {
	// Interim balance is 114,000; each incentive claims a share of that same balance
	assessment := []domain.Incentive{
		{Description: "outorgado", Type: domain.IncentivePresumedCredit, Percentage: dec("0.5"), Coverage: dec("0.6")},
		{Description: "saldo", Type: domain.IncentiveBalanceReduction, Percentage: dec("0.25"), Coverage: dec("0.4")},
	}
	detail := ComputeICMS(icmsConfig(nil, nil, assessment), dec("1000000"), dec("400000"), domain.NewCalculationTrace())

	assert.True(t, detail.Interim.Equal(dec("114000")))
	require.Len(t, detail.AssessmentSlices, 2)
	assert.True(t, detail.AssessmentSlices[0].Slice.Equal(dec("68400")))
	assert.True(t, detail.AssessmentSlices[1].Slice.Equal(dec("45600")))
	assert.True(t, detail.AssessmentReduction.Equal(dec("45600")), "34200 + 11400, got %s", detail.AssessmentReduction)
	assert.True(t, detail.Due.Equal(dec("68400")), "got %s", detail.Due)
	assert.True(t, detail.Savings.Equal(dec("45600")))
	assert.True(t, detail.SavingsPercent.Equal(dec("40")), "got %s", detail.SavingsPercent)
}

func TestComputeICMS_AssessmentWithoutBalance(t *testing.T) {
	assessment := []domain.Incentive{
		{Description: "saldo", Type: domain.IncentiveBalanceReduction, Percentage: dec("1"), Coverage: dec("1")},
	}
	detail := ComputeICMS(icmsConfig(nil, nil, assessment), dec("100000"), dec("100000"), domain.NewCalculationTrace())

	assert.True(t, detail.Interim.IsZero())
	assert.Empty(t, detail.AssessmentSlices)
	assert.True(t, detail.Due.IsZero())
}

func TestComputeICMS_TraceIsSectioned(t *testing.T) {
	trace := domain.NewCalculationTrace()
	cfg := icmsConfig([]domain.Incentive{
		{Description: "Programa", Type: domain.IncentiveRateReduction, Percentage: dec("0.5"), Coverage: dec("1")},
	}, nil, nil)

	ComputeICMS(cfg, dec("1000000"), dec("400000"), trace)

	lines := trace.Section(domain.SectionICMS)
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[2], "R$ 190.000,00")
	assert.Equal(t, []domain.TraceSection{domain.SectionICMS}, trace.Sections())
}
