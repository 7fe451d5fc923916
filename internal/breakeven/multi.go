package breakeven

import (
	"context"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/shopspring/decimal"
)

// EquivalentSchedule computes the closed-form equivalent rates for every
// requested year, or for every year of the transition schedule when none
// are given. With refine set each year is also reconciled with the actual
// credit rules.
func (s *Solver) EquivalentSchedule(ctx context.Context, input domain.CompanyInput, burdenPercent decimal.Decimal, years []int, refine bool) ([]RefinedRates, error) {
	if len(years) == 0 {
		years = s.Engine.Config.TransitionYears()
	}

	schedule := make([]RefinedRates, 0, len(years))
	for _, year := range years {
		if refine {
			r, err := s.RefineEquivalentRates(ctx, input, burdenPercent, year)
			if err != nil {
				return nil, &SolverError{
					Operation: "equivalent_schedule",
					Message:   "failed to refine year",
					Cause:     err,
				}
			}
			schedule = append(schedule, *r)
			continue
		}

		est, err := s.EquivalentRates(input, burdenPercent, year)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, RefinedRates{EquivalentRates: *est})
	}
	return schedule, nil
}
