package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
)

// ConsoleFormatter renders the detailed year-by-year report for a terminal
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render(strings.ToUpper(report.Title)) + "\n")
	company := report.Company
	sb.WriteString(row("Revenue", brfmt.Currency(company.Revenue)))
	sb.WriteString(row("Taxable costs", brfmt.Currency(company.TaxableCosts)))
	if company.SimplesCosts.IsPositive() {
		sb.WriteString(row("Costs from Simples suppliers", brfmt.Currency(company.SimplesCosts)))
	}
	if company.RuralCosts.IsPositive() {
		sb.WriteString(row("Rural producer costs", brfmt.Currency(company.RuralCosts)))
	}
	if company.ImportedCosts.IsPositive() {
		sb.WriteString(row("Imported costs", brfmt.Currency(company.ImportedCosts)))
	}
	if company.PriorCredits.IsPositive() {
		sb.WriteString(row("Prior credits", brfmt.Currency(company.PriorCredits)))
	}
	sb.WriteString(row("Sector", company.SectorOrDefault()))
	sb.WriteString(row("Regime", regimeName(company.Regime)))
	if report.ConfigPath != "" {
		sb.WriteString(NoteStyle.Render("configuration: "+report.ConfigPath) + "\n")
	}

	for _, y := range report.Years {
		writeYear(&sb, y)
	}

	if len(report.Equivalent) > 0 {
		sb.WriteString(SectionStyle.Render("EQUIVALENT DUAL VAT RATES") + "\n")
		for _, eq := range report.Equivalent {
			sb.WriteString(fmt.Sprintf("  %d, burden %s%%: CBS %s, IBS %s, total %s\n", eq.Year,
				brfmt.Number(eq.BurdenPercent, 2), brfmt.Percent(eq.CBS), brfmt.Percent(eq.IBS), brfmt.Percent(eq.Total)))
			if eq.Iterations > 0 {
				sb.WriteString(NoteStyle.Render(eq.ConvergenceInfo) + "\n")
			}
		}
	}

	if len(report.Assumptions) > 0 {
		sb.WriteString(SectionStyle.Render("KEY ASSUMPTIONS") + "\n")
		for _, a := range report.Assumptions {
			sb.WriteString(fmt.Sprintf("• %s\n", a))
		}
	}

	return []byte(sb.String()), nil
}

func writeYear(sb *strings.Builder, y *domain.YearResult) {
	sb.WriteString(SectionStyle.Render(fmt.Sprintf("YEAR %d (transition factor %s)", y.Year, brfmt.Percent(y.Rates.TransitionFactor))) + "\n")

	sb.WriteString(SubsectionStyle.Render("Dual VAT (CBS/IBS)") + "\n")
	sb.WriteString(row("Tax base", brfmt.Currency(y.TaxBase)))
	sb.WriteString(row("CBS at "+brfmt.Percent(y.Rates.CBS), brfmt.Currency(y.CBS)))
	sb.WriteString(row("IBS at "+brfmt.Percent(y.Rates.IBS), brfmt.Currency(y.IBS)))
	sb.WriteString(row("Gross tax", brfmt.Currency(y.GrossTax)))
	sb.WriteString(row("Credits", brfmt.Currency(y.Credits)))
	sb.WriteString(row("Net dual VAT", brfmt.Currency(y.NetTax)))

	sb.WriteString(SubsectionStyle.Render("Legacy taxes") + "\n")
	sb.WriteString(row("PIS", brfmt.Currency(y.Legacy.PIS)))
	sb.WriteString(row("COFINS", brfmt.Currency(y.Legacy.COFINS)))
	sb.WriteString(row("ICMS", brfmt.Currency(y.Legacy.ICMS)))
	if !y.Legacy.ICMSSavings.IsZero() {
		sb.WriteString(NoteStyle.Render(fmt.Sprintf("incentives save %s (%s%%) against %s without incentives",
			brfmt.Currency(y.Legacy.ICMSSavings), brfmt.Number(y.ICMS.SavingsPercent, 2),
			brfmt.Currency(y.ICMS.Baseline))) + "\n")
	}
	sb.WriteString(row("ISS", brfmt.Currency(y.Legacy.ISS)))
	sb.WriteString(row("IPI", brfmt.Currency(y.Legacy.IPI)))
	sb.WriteString(row("Legacy total", brfmt.Currency(y.Legacy.Total)))
	if y.CrossCredit.IsPositive() {
		sb.WriteString(row("IBS offset against ICMS", brfmt.Currency(y.CrossCredit)))
	}

	sb.WriteString(totalRow("TOTAL DUE", brfmt.Currency(y.TotalDue)))
	sb.WriteString(totalRow("Effective rate", brfmt.Percent(y.EffectiveRate)))

	for _, w := range y.Warnings {
		sb.WriteString(WarningStyle.Render("WARNING: "+w) + "\n")
	}
}

func regimeName(r domain.Regime) string {
	switch r {
	case domain.RegimePresumed:
		return "Lucro Presumido"
	case domain.RegimeSimples:
		return "Simples Nacional"
	default:
		return "Lucro Real"
	}
}
