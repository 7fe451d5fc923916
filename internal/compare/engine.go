package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/ivadual/internal/calculation"
	"github.com/rgehrsitz/ivadual/internal/domain"
)

// CompareEngine turns a multi-year calculation into a comparison set
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Years      []int  // Years to compare; empty means every scheduled year
	BaseYear   int    // Year the others are compared to; zero means the first year
	ConfigPath string // Shown in reports
}

// Compare runs the calculation for every requested year and compares each
// year to the base year
func (ce *CompareEngine) Compare(ctx context.Context, input domain.CompanyInput, options CompareOptions) (*ComparisonSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results, err := ce.CalcEngine.CompareAcrossYears(input, options.Years)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate comparison: %w", err)
	}
	years := domain.SortedYears(results)
	if len(years) == 0 {
		return nil, fmt.Errorf("no years to compare")
	}

	baseYear := options.BaseYear
	if baseYear == 0 {
		baseYear = years[0]
	}
	baseResult, ok := results[baseYear]
	if !ok {
		return nil, fmt.Errorf("base year %d is not among the compared years", baseYear)
	}
	base := ce.MetricsCalculator.CalculateMetrics(baseResult)

	compSet := &ComparisonSet{
		Company:    input,
		BaseYear:   baseYear,
		Years:      make([]YearComparison, 0, len(years)),
		ConfigPath: options.ConfigPath,
	}
	for _, year := range years {
		row := ce.MetricsCalculator.CalculateMetrics(results[year])
		compSet.Years = append(compSet.Years, ce.MetricsCalculator.CalculateComparison(row, base))
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
