package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

// Assumptions lists the modeling assumptions behind a run of cfg
func Assumptions(cfg domain.TaxConfiguration, phaseOut bool) []string {
	out := []string{
		fmt.Sprintf("Nominal dual VAT rates: CBS %s, IBS %s", brfmt.Percent(cfg.BaseRates.CBS), brfmt.Percent(cfg.BaseRates.IBS)),
		"Transition factors: " + yearFractions(cfg.TransitionSchedule) + "; later years are fully implemented",
		fmt.Sprintf("Legacy rates: PIS %s, COFINS %s (non-cumulative, not floored), IPI industry %s with 70%% input credit, ISS %s",
			brfmt.Percent(cfg.LegacyRates.PIS), brfmt.Percent(cfg.LegacyRates.COFINS),
			brfmt.Percent(cfg.LegacyRates.IPI.Industry), brfmt.Percent(cfg.LegacyRates.ISS.Default)),
		fmt.Sprintf("ICMS average rates: input %s, output %s", brfmt.Percent(cfg.ICMS.InputRate), brfmt.Percent(cfg.ICMS.OutputRate)),
		"Special sectors halve the dual VAT base and use their own IBS rate and CBS reduction",
		fmt.Sprintf("Simples purchases give %s credit, capped at %s of the tax due estimate",
			brfmt.Percent(cfg.CreditRules.Simples), brfmt.Percent(cfg.CreditRules.SimplesCapOnDueTax)),
		"Credits are estimated in a single pass against the gross dual VAT",
	}
	if len(cfg.CrossCredit) > 0 {
		out = append(out, "IBS offsets against ICMS: "+yearFractions(cfg.CrossCredit))
	}
	if phaseOut {
		out = append(out, "Legacy taxes are scaled down by the configured phase-out schedule")
	} else {
		out = append(out, "Legacy taxes are computed at full value in every year")
	}
	return out
}

func yearFractions(m map[int]decimal.Decimal) string {
	years := make([]int, 0, len(m))
	for y := range m {
		years = append(years, y)
	}
	sort.Ints(years)

	parts := make([]string, 0, len(years))
	for _, y := range years {
		parts = append(parts, fmt.Sprintf("%d %s", y, brfmt.Percent(m[y])))
	}
	return strings.Join(parts, ", ")
}
