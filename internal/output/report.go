package output

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rgehrsitz/ivadual/internal/breakeven"
	"github.com/rgehrsitz/ivadual/internal/domain"
)

// Report is everything a formatter renders for one calculation run
type Report struct {
	Title       string                   `json:"title"`
	GeneratedAt time.Time                `json:"generated_at"`
	ConfigPath  string                   `json:"config_path,omitempty"`
	Company     domain.CompanyInput      `json:"company"`
	Years       []*domain.YearResult     `json:"years"`
	Equivalent  []breakeven.RefinedRates `json:"equivalent_rates,omitempty"`
	Assumptions []string                 `json:"assumptions"`
}

// NewReport builds a report from a multi-year result set, ordered by year
func NewReport(input domain.CompanyInput, results map[int]*domain.YearResult, assumptions []string) *Report {
	years := make([]*domain.YearResult, 0, len(results))
	for _, y := range domain.SortedYears(results) {
		years = append(years, results[y])
	}
	return &Report{
		Title:       "IVA Dual Simulation",
		GeneratedAt: time.Now(),
		Company:     input,
		Years:       years,
		Assumptions: assumptions,
	}
}

// Warnings returns every warning of the run prefixed with its year
func (r *Report) Warnings() []string {
	var out []string
	for _, y := range r.Years {
		for _, w := range y.Warnings {
			out = append(out, fmt.Sprintf("%d: %s", y.Year, w))
		}
	}
	return out
}

// Formatter renders a report in one output format
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

var formatters = map[string]func() Formatter{
	"console": func() Formatter { return ConsoleFormatter{} },
	"trace":   func() Formatter { return TraceFormatter{} },
	"json":    func() Formatter { return JSONFormatter{Pretty: true} },
	"pdf":     func() Formatter { return PDFFormatter{} },
}

// FormatterNames lists the available report formats
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string) (Formatter, error) {
	f, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s (want one of %v)", name, FormatterNames())
	}
	return f(), nil
}

// WriteFormatted renders report with f and writes the result to w
func WriteFormatted(w io.Writer, f Formatter, report *Report) error {
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter failed: %w", f.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s report: %w", f.Name(), err)
	}
	return nil
}
