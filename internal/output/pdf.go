package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/rgehrsitz/ivadual/internal/domain"
	"github.com/rgehrsitz/ivadual/pkg/brfmt"
)

const (
	pdfMarginL = 15.0
	pdfMarginR = 15.0
	pdfPageW   = 210.0
	pdfContent = pdfPageW - pdfMarginL - pdfMarginR
)

var (
	pdfPrimary = [3]int{31, 111, 235}
	pdfHeader  = [3]int{230, 237, 247}
	pdfText    = [3]int{36, 41, 47}
	pdfWarning = [3]int{154, 103, 0}
)

// PDFFormatter renders a printable A4 summary of the run
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginL, 15, pdfMarginR)
	pdf.SetAutoPageBreak(true, 18)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 7)
		setText(pdf, pdfText)
		pdf.CellFormat(pdfContent/2, 6, tr(report.Title), "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfContent/2, 6, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	// Title band
	setFill(pdf, pdfPrimary)
	pdf.Rect(0, 0, pdfPageW, 28, "F")
	pdf.SetXY(pdfMarginL, 9)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(pdfContent, 9, tr(report.Title), "", 1, "L", false, 0, "")
	pdf.SetX(pdfMarginL)
	pdf.SetFont("Helvetica", "", 8.5)
	pdf.CellFormat(pdfContent, 5, tr("Generated "+report.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.SetY(34)

	// Company
	setText(pdf, pdfText)
	section(pdf, tr, "Company")
	c := report.Company
	keyValue(pdf, tr, "Revenue", brfmt.Currency(c.Revenue))
	keyValue(pdf, tr, "Taxable costs", brfmt.Currency(c.TaxableCosts))
	keyValue(pdf, tr, "Sector", c.SectorOrDefault())
	keyValue(pdf, tr, "Regime", regimeName(c.Regime))

	// Year summary
	section(pdf, tr, "Legacy regime vs dual VAT")
	widths := []float64{16, 30, 30, 28, 34, 42}
	headers := []string{"Year", "Net CBS+IBS", "Legacy", "Cross-credit", "Total due", "Effective rate"}
	tableHeader(pdf, tr, widths, headers)
	pdf.SetFont("Helvetica", "", 8.5)
	for _, y := range report.Years {
		cells := []string{
			fmt.Sprintf("%d", y.Year),
			brfmt.Number(y.NetTax, 2),
			brfmt.Number(y.Legacy.Total, 2),
			brfmt.Number(y.CrossCredit, 2),
			brfmt.Number(y.TotalDue, 2),
			brfmt.Percent(y.EffectiveRate),
		}
		for i, cell := range cells {
			align := "R"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, tr(cell), "B", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// ICMS incentives
	if len(report.Years) > 0 {
		writeIncentives(pdf, tr, report.Years[0].ICMS)
	}

	// Equivalent rates
	if len(report.Equivalent) > 0 {
		section(pdf, tr, "Equivalent dual VAT rates")
		widths := []float64{20, 36, 42, 30, 30, 22}
		tableHeader(pdf, tr, widths, []string{"Year", "Burden", "Target", "CBS", "IBS", "Total"})
		pdf.SetFont("Helvetica", "", 8.5)
		for _, eq := range report.Equivalent {
			cells := []string{
				fmt.Sprintf("%d", eq.Year),
				brfmt.Number(eq.BurdenPercent, 2) + "%",
				brfmt.Currency(eq.TargetValue),
				brfmt.Percent(eq.CBS),
				brfmt.Percent(eq.IBS),
				brfmt.Percent(eq.Total),
			}
			for i, cell := range cells {
				pdf.CellFormat(widths[i], 6, tr(cell), "B", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	// Warnings
	if warnings := report.Warnings(); len(warnings) > 0 {
		section(pdf, tr, "Warnings")
		setText(pdf, pdfWarning)
		pdf.SetFont("Helvetica", "", 8.5)
		for _, w := range warnings {
			pdf.MultiCell(pdfContent, 4.5, tr(w), "", "L", false)
		}
		setText(pdf, pdfText)
	}

	if len(report.Assumptions) > 0 {
		section(pdf, tr, "Key assumptions")
		pdf.SetFont("Helvetica", "", 8.5)
		for _, a := range report.Assumptions {
			pdf.MultiCell(pdfContent, 4.5, tr("• "+a), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeIncentives(pdf *gofpdf.Fpdf, tr func(string) string, detail domain.ICMSDetail) {
	groups := []struct {
		title  string
		slices []domain.IncentiveSlice
	}{
		{"Output", detail.OutputSlices},
		{"Input", detail.InputSlices},
		{"Assessment", detail.AssessmentSlices},
	}

	found := false
	for _, g := range groups {
		found = found || len(g.slices) > 0
	}
	if !found {
		return
	}

	section(pdf, tr, "ICMS incentives")
	widths := []float64{26, 64, 30, 30, 30}
	tableHeader(pdf, tr, widths, []string{"Stage", "Incentive", "Type", "Slice", "Amount"})
	pdf.SetFont("Helvetica", "", 8)
	for _, g := range groups {
		for _, s := range g.slices {
			cells := []string{g.title, s.Description, string(s.Type), brfmt.Number(s.Slice, 2), brfmt.Number(s.Amount, 2)}
			for i, cell := range cells {
				align := "L"
				if i >= 3 {
					align = "R"
				}
				pdf.CellFormat(widths[i], 6, tr(truncate(cell, 40)), "B", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	keyValue(pdf, tr, "Savings against no incentives",
		fmt.Sprintf("%s (%s%%)", brfmt.Currency(detail.Savings), brfmt.Number(detail.SavingsPercent, 2)))
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	setText(pdf, pdfPrimary)
	pdf.CellFormat(pdfContent, 7, tr(title), "", 1, "L", false, 0, "")
	setText(pdf, pdfText)
}

func keyValue(pdf *gofpdf.Fpdf, tr func(string) string, key, value string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(60, 5.5, tr(key), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(pdfContent-60, 5.5, tr(value), "", 1, "L", false, 0, "")
}

func tableHeader(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, headers []string) {
	pdf.SetFont("Helvetica", "B", 8.5)
	setFill(pdf, pdfHeader)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func setFill(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetFillColor(c[0], c[1], c[2]) }
func setText(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
