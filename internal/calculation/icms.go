package calculation

import (
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// stackStep turns the slice an incentive claimed into its debit, credit or reduction
type stackStep func(inc domain.Incentive, slice decimal.Decimal) decimal.Decimal

// stackIncentives folds an ordered incentive list over a depleting pool.
// Each incentive claims Coverage of what is left, never of the original
// pool, so list order changes the outcome. No-op incentives neither claim
// pool nor produce a slice.
func stackIncentives(pool decimal.Decimal, list []domain.Incentive, step stackStep) (remaining, total decimal.Decimal, slices []domain.IncentiveSlice) {
	remaining = pool
	for _, inc := range list {
		if inc.IsNoop() {
			continue
		}
		slice := remaining.Mul(inc.Coverage)
		remaining = remaining.Sub(slice)

		amount := step(inc, slice)
		total = total.Add(amount)
		slices = append(slices, domain.IncentiveSlice{
			Description: inc.Description,
			Type:        inc.Type,
			Slice:       slice,
			Amount:      amount,
		})
	}
	return remaining, total, slices
}

// ComputeICMS runs the ICMS incentive-stacking algorithm for the configured
// operational rates: output incentives against revenue, input incentives
// against costs, then assessment incentives against the interim balance.
func ComputeICMS(cfg domain.ICMSConfig, revenue, costs decimal.Decimal, trace *domain.CalculationTrace) domain.ICMSDetail {
	sec := domain.SectionICMS
	outRate, inRate := cfg.OutputRate, cfg.InputRate

	detail := domain.ICMSDetail{
		BaselineDebit:  revenue.Mul(outRate),
		BaselineCredit: costs.Mul(inRate),
	}
	detail.Baseline = detail.BaselineDebit.Sub(detail.BaselineCredit)

	trace.Addf(sec, "Revenue: %s, taxable costs: %s", brfmt.Currency(revenue), brfmt.Currency(costs))
	trace.Addf(sec, "Average rates: input %s, output %s", brfmt.Percent(inRate), brfmt.Percent(outRate))
	trace.Addf(sec, "Debit without incentives: %s × %s = %s",
		brfmt.Currency(revenue), brfmt.Percent(outRate), brfmt.Currency(detail.BaselineDebit))
	trace.Addf(sec, "Credit without incentives: %s × %s = %s",
		brfmt.Currency(costs), brfmt.Percent(inRate), brfmt.Currency(detail.BaselineCredit))

	if !cfg.HasIncentives() {
		detail.TotalDebit = detail.BaselineDebit
		detail.TotalCredit = detail.BaselineCredit
		detail.Interim = decimal.Max(decimal.Zero, detail.Baseline)
		detail.Due = detail.Interim
		detail.UnincentivizedRevenue = revenue
		detail.UnincentivizedCosts = costs
		trace.Addf(sec, "No fiscal incentive configured")
		trace.Addf(sec, "ICMS due: max(0, %s - %s) = %s",
			brfmt.Currency(detail.BaselineDebit), brfmt.Currency(detail.BaselineCredit), brfmt.Currency(detail.Due))
		return detail
	}

	// Output incentives (debits on sales)
	remRevenue, debit, outSlices := stackIncentives(revenue, cfg.OutputIncentives, func(inc domain.Incentive, slice decimal.Decimal) decimal.Decimal {
		amount := outputDebit(inc, slice, outRate)
		trace.Addf(sec, "Output incentive %q (%s %s on %s of remaining revenue): slice %s, debit %s",
			inc.Description, inc.Type, brfmt.Percent(inc.Percentage), brfmt.Percent(inc.Coverage),
			brfmt.Currency(slice), brfmt.Currency(amount))
		return amount
	})
	if remRevenue.IsPositive() {
		rest := remRevenue.Mul(outRate)
		debit = debit.Add(rest)
		trace.Addf(sec, "Revenue without incentive: %s × %s = %s",
			brfmt.Currency(remRevenue), brfmt.Percent(outRate), brfmt.Currency(rest))
	}
	trace.Addf(sec, "Total debits after incentives: %s", brfmt.Currency(debit))

	// Input incentives (credits on purchases)
	remCosts, credit, inSlices := stackIncentives(costs, cfg.InputIncentives, func(inc domain.Incentive, slice decimal.Decimal) decimal.Decimal {
		amount := inputCredit(inc, slice, inRate)
		trace.Addf(sec, "Input incentive %q (%s %s on %s of remaining costs): slice %s, credit %s",
			inc.Description, inc.Type, brfmt.Percent(inc.Percentage), brfmt.Percent(inc.Coverage),
			brfmt.Currency(slice), brfmt.Currency(amount))
		return amount
	})
	if remCosts.IsPositive() {
		rest := remCosts.Mul(inRate)
		credit = credit.Add(rest)
		trace.Addf(sec, "Costs without incentive: %s × %s = %s",
			brfmt.Currency(remCosts), brfmt.Percent(inRate), brfmt.Currency(rest))
	}
	trace.Addf(sec, "Total credits after incentives: %s", brfmt.Currency(credit))

	detail.TotalDebit = debit
	detail.TotalCredit = credit
	detail.OutputSlices = outSlices
	detail.InputSlices = inSlices
	detail.UnincentivizedRevenue = remRevenue
	detail.UnincentivizedCosts = remCosts
	detail.Interim = decimal.Max(decimal.Zero, debit.Sub(credit))
	trace.Addf(sec, "Balance before assessment incentives: max(0, %s - %s) = %s",
		brfmt.Currency(debit), brfmt.Currency(credit), brfmt.Currency(detail.Interim))

	detail.AssessmentSlices, detail.AssessmentReduction = assessmentReductions(cfg.AssessmentIncentives, detail.Interim, trace)
	detail.Due = decimal.Max(decimal.Zero, detail.Interim.Sub(detail.AssessmentReduction))
	trace.Addf(sec, "ICMS due: max(0, %s - %s) = %s",
		brfmt.Currency(detail.Interim), brfmt.Currency(detail.AssessmentReduction), brfmt.Currency(detail.Due))

	detail.Savings = detail.Baseline.Sub(detail.Due)
	if detail.Baseline.IsPositive() {
		detail.SavingsPercent = detail.Savings.Div(detail.Baseline).Mul(hundred)
	}
	trace.Addf(sec, "Savings against ICMS without incentives (%s): %s (%s%%)",
		brfmt.Currency(detail.Baseline), brfmt.Currency(detail.Savings), brfmt.Number(detail.SavingsPercent, 2))
	return detail
}

func outputDebit(inc domain.Incentive, slice, rate decimal.Decimal) decimal.Decimal {
	full := slice.Mul(rate)
	switch inc.Type {
	case domain.IncentiveRateReduction:
		return slice.Mul(rate.Mul(one.Sub(inc.Percentage)))
	case domain.IncentiveBaseReduction:
		return slice.Mul(one.Sub(inc.Percentage)).Mul(rate)
	case domain.IncentivePresumedCredit, domain.IncentiveDeferral:
		return full.Sub(full.Mul(inc.Percentage))
	default:
		return full
	}
}

func inputCredit(inc domain.Incentive, slice, rate decimal.Decimal) decimal.Decimal {
	base := slice.Mul(rate)
	switch inc.Type {
	case domain.IncentiveRateReduction:
		return slice.Mul(rate.Mul(one.Sub(inc.Percentage)))
	case domain.IncentivePresumedCredit:
		return base.Add(base.Mul(inc.Percentage))
	case domain.IncentiveCreditReversal:
		return base.Sub(base.Mul(inc.Percentage))
	default:
		return base
	}
}

// assessmentReductions applies the assessment incentives to the interim
// balance. Unlike the output and input lists the balance is not depleted:
// every incentive claims its coverage of the same interim amount.
func assessmentReductions(list []domain.Incentive, interim decimal.Decimal, trace *domain.CalculationTrace) ([]domain.IncentiveSlice, decimal.Decimal) {
	if !interim.IsPositive() || len(list) == 0 {
		trace.Addf(domain.SectionICMS, "No debtor balance or assessment incentive to apply")
		return nil, decimal.Zero
	}

	var slices []domain.IncentiveSlice
	total := decimal.Zero
	for _, inc := range list {
		if inc.IsNoop() {
			continue
		}
		slice := interim.Mul(inc.Coverage)

		reduction := decimal.Zero
		switch inc.Type {
		case domain.IncentivePresumedCredit, domain.IncentiveBalanceReduction:
			reduction = slice.Mul(inc.Percentage)
		}
		trace.Addf(domain.SectionICMS, "Assessment incentive %q (%s %s on %s of the balance): slice %s, reduction %s",
			inc.Description, inc.Type, brfmt.Percent(inc.Percentage), brfmt.Percent(inc.Coverage),
			brfmt.Currency(slice), brfmt.Currency(reduction))

		total = total.Add(reduction)
		slices = append(slices, domain.IncentiveSlice{
			Description: inc.Description,
			Type:        inc.Type,
			Slice:       slice,
			Amount:      reduction,
		})
	}
	return slices, total
}
