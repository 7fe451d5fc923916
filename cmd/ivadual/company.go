package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// amountFlags maps company amount flags to the field they set
var amountFlags = []struct {
	name  string
	usage string
	set   func(*domain.CompanyInput, decimal.Decimal)
}{
	{"revenue", "Annual revenue in BRL", func(c *domain.CompanyInput, v decimal.Decimal) { c.Revenue = v }},
	{"costs", "Costs generating credit in BRL", func(c *domain.CompanyInput, v decimal.Decimal) { c.TaxableCosts = v }},
	{"simples-costs", "Purchases from Simples Nacional suppliers", func(c *domain.CompanyInput, v decimal.Decimal) { c.SimplesCosts = v }},
	{"rural-costs", "Purchases from rural producers", func(c *domain.CompanyInput, v decimal.Decimal) { c.RuralCosts = v }},
	{"imported-costs", "Imported goods and services", func(c *domain.CompanyInput, v decimal.Decimal) { c.ImportedCosts = v }},
	{"prior-credits", "Credits carried from prior periods", func(c *domain.CompanyInput, v decimal.Decimal) { c.PriorCredits = v }},
}

// addCompanyFlags registers the flags that describe a company on the command line
func addCompanyFlags(cmd *cobra.Command) {
	for _, f := range amountFlags {
		cmd.Flags().String(f.name, "", f.usage+" (1.234,56 or 1234.56; a lone dot before three digits is rejected)")
	}
	cmd.Flags().String("sector", "", "Activity sector (default, health, education, ...)")
	cmd.Flags().String("regime", "", "Tax regime: real, presumed or simples")
	cmd.Flags().String("burden", "", "Current total tax burden as a percentage of revenue")
}

// loadCompany reads the optional company file given as the first argument
// and then applies any company flag set on the command line
func loadCompany(cli *cliContext, cmd *cobra.Command, args []string) (domain.CompanyInput, error) {
	var input domain.CompanyInput
	if len(args) > 0 {
		loaded, err := cli.parser.LoadCompany(args[0])
		if err != nil {
			return input, err
		}
		input = *loaded
	}

	flags := cmd.Flags()
	for _, f := range amountFlags {
		if !flags.Changed(f.name) {
			continue
		}
		raw, _ := flags.GetString(f.name)
		v, err := brfmt.ParseNumber(raw)
		if err != nil {
			return input, fmt.Errorf("invalid --%s %q: %w", f.name, raw, err)
		}
		f.set(&input, v)
	}

	if flags.Changed("sector") {
		input.Sector, _ = flags.GetString("sector")
	}
	if flags.Changed("regime") {
		raw, _ := flags.GetString("regime")
		regime, err := domain.ParseRegime(strings.ToLower(raw))
		if err != nil {
			return input, err
		}
		input.Regime = regime
	}
	if flags.Changed("burden") {
		raw, _ := flags.GetString("burden")
		v, err := brfmt.ParseNumber(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
		if err != nil {
			return input, fmt.Errorf("invalid --burden %q: %w", raw, err)
		}
		input.CurrentBurdenPercent = v
	}
	return input, nil
}

// parseYears accepts "", "2026", "2026,2028" or "2026-2030". An empty
// selection means every year of the transition schedule.
func parseYears(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if from, to, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(from))
			if err != nil {
				return nil, fmt.Errorf("invalid year range %q", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(to))
			if err != nil || end < start {
				return nil, fmt.Errorf("invalid year range %q", part)
			}
			for y := start; y <= end; y++ {
				seen[y] = true
			}
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		seen[year] = true
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// parsePercent reads a 0-100 percentage flag and returns it as a fraction
func parsePercent(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	v, err := brfmt.ParseNumber(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return domain.PercentToFraction(v), nil
}
