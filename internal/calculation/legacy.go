package calculation

import (
	"fmt"

	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
	"github.com/shopspring/decimal"
)

// ipiCreditFactor is the share of IPI paid on inputs that can be recovered
var ipiCreditFactor = decimal.RequireFromString("0.70")

// issSectors are the sectors subject to the municipal service tax
var issSectors = map[string]bool{
	"services":  true,
	"education": true,
	"health":    true,
}

const ipiSector = "industry"

// LegacyTaxCalculator computes PIS, COFINS, ICMS, ISS and IPI under the
// legacy regime.
type LegacyTaxCalculator struct {
	Config domain.TaxConfiguration
	Logger Logger

	icms func(cfg domain.ICMSConfig, revenue, costs decimal.Decimal, trace *domain.CalculationTrace) domain.ICMSDetail
}

// NewLegacyTaxCalculator creates a legacy calculator over a configuration
func NewLegacyTaxCalculator(cfg domain.TaxConfiguration) *LegacyTaxCalculator {
	return &LegacyTaxCalculator{Config: cfg, Logger: NopLogger{}, icms: ComputeICMS}
}

// LegacyOutcome is everything a legacy computation produces
type LegacyOutcome struct {
	Taxes    domain.LegacyTaxes
	ICMS     domain.ICMSDetail
	Warnings []string
}

// ComputeAll calculates every legacy tax line for one year. A fault inside
// the computation does not abort the caller: the lines come back as zero,
// and the failure is written to the trace, logged and returned as a warning.
func (c *LegacyTaxCalculator) ComputeAll(input domain.CompanyInput, year int, trace *domain.CalculationTrace) (out LegacyOutcome) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("legacy tax computation failed for %d, all legacy lines set to zero: %v", year, r)
			trace.Addf(domain.SectionLegacyTotal, "ERROR: %s", msg)
			c.logger().Warnf("%s", msg)
			out = LegacyOutcome{Warnings: []string{msg}}
		}
	}()

	revenue, costs := input.Revenue, input.TaxableCosts
	sector := input.SectorOrDefault()
	rates := c.Config.LegacyRates

	pis := c.flatWithCredit(domain.SectionPIS, revenue, costs, rates.PIS, trace)
	cofins := c.flatWithCredit(domain.SectionCOFINS, revenue, costs, rates.COFINS, trace)

	icmsFn := c.icms
	if icmsFn == nil {
		icmsFn = ComputeICMS
	}
	icms := icmsFn(c.Config.ICMS, revenue, costs, trace)

	iss := decimal.Zero
	if issSectors[sector] {
		iss = revenue.Mul(rates.ISS.Default)
		trace.Addf(domain.SectionISS, "ISS due: %s × %s = %s",
			brfmt.Currency(revenue), brfmt.Percent(rates.ISS.Default), brfmt.Currency(iss))
	} else {
		trace.Addf(domain.SectionISS, "Not applicable to sector %s", sector)
	}

	ipi := decimal.Zero
	if sector == ipiSector {
		rate := rates.IPI.Industry
		gross := revenue.Mul(rate)
		credit := decimal.Zero
		if revenue.IsPositive() {
			credit = costs.Mul(rate).Mul(ipiCreditFactor)
		}
		ipi = gross.Sub(credit)
		trace.Addf(domain.SectionIPI, "IPI credit: %s × %s × %s = %s",
			brfmt.Currency(costs), brfmt.Percent(rate), brfmt.Percent(ipiCreditFactor), brfmt.Currency(credit))
		trace.Addf(domain.SectionIPI, "IPI due: %s - %s = %s",
			brfmt.Currency(gross), brfmt.Currency(credit), brfmt.Currency(ipi))
	} else {
		trace.Addf(domain.SectionIPI, "Not applicable to sector %s", sector)
	}

	out.Taxes = domain.LegacyTaxes{
		PIS:         pis,
		COFINS:      cofins,
		ICMS:        icms.Due,
		ISS:         iss,
		IPI:         ipi,
		ICMSSavings: icms.Savings,
	}
	out.Taxes.Total = out.Taxes.SumLines()
	out.ICMS = icms

	trace.Addf(domain.SectionLegacyTotal, "PIS + COFINS + ICMS + ISS + IPI = %s + %s + %s + %s + %s = %s",
		brfmt.Currency(pis), brfmt.Currency(cofins), brfmt.Currency(icms.Due),
		brfmt.Currency(iss), brfmt.Currency(ipi), brfmt.Currency(out.Taxes.Total))
	return out
}

// flatWithCredit is the non-cumulative PIS/COFINS model: output rate on
// revenue minus the same rate on taxable costs. The result is not floored.
func (c *LegacyTaxCalculator) flatWithCredit(sec domain.TraceSection, revenue, costs, rate decimal.Decimal, trace *domain.CalculationTrace) decimal.Decimal {
	gross := revenue.Mul(rate)
	credit := decimal.Zero
	if revenue.IsPositive() {
		credit = costs.Mul(rate)
	}
	due := gross.Sub(credit)

	trace.Addf(sec, "Gross: %s × %s = %s", brfmt.Currency(revenue), brfmt.Percent(rate), brfmt.Currency(gross))
	trace.Addf(sec, "Credit: %s × %s = %s", brfmt.Currency(costs), brfmt.Percent(rate), brfmt.Currency(credit))
	trace.Addf(sec, "Due: %s - %s = %s", brfmt.Currency(gross), brfmt.Currency(credit), brfmt.Currency(due))
	return due
}

// ApplyPhaseOut scales each legacy line by the share still in force in a
// year. Years without a schedule entry are left untouched.
func (c *LegacyTaxCalculator) ApplyPhaseOut(taxes domain.LegacyTaxes, year int, trace *domain.CalculationTrace) domain.LegacyTaxes {
	red, ok := c.Config.LegacyPhaseOut[year]
	if !ok {
		trace.Addf(domain.SectionPhaseOut, "No legacy phase-out configured for %d", year)
		return taxes
	}

	keep := func(v, r decimal.Decimal) decimal.Decimal { return v.Mul(one.Sub(r)) }
	out := taxes
	out.PIS = keep(taxes.PIS, red.PIS)
	out.COFINS = keep(taxes.COFINS, red.COFINS)
	out.ICMS = keep(taxes.ICMS, red.ICMS)
	out.ISS = keep(taxes.ISS, red.ISS)
	out.IPI = keep(taxes.IPI, red.IPI)
	out.Total = out.SumLines()

	trace.Addf(domain.SectionPhaseOut, "Extinguished in %d: PIS %s, COFINS %s, ICMS %s, ISS %s, IPI %s", year,
		brfmt.Percent(red.PIS), brfmt.Percent(red.COFINS), brfmt.Percent(red.ICMS),
		brfmt.Percent(red.ISS), brfmt.Percent(red.IPI))
	trace.Addf(domain.SectionPhaseOut, "Legacy total after phase-out: %s", brfmt.Currency(out.Total))
	return out
}

func (c *LegacyTaxCalculator) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}
