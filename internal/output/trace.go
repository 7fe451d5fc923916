package output

import (
	"fmt"
	"strings"
)

// TraceFormatter dumps the calculation trace of every year, section by section
type TraceFormatter struct{}

func (t TraceFormatter) Name() string { return "trace" }

func (t TraceFormatter) Format(report *Report) ([]byte, error) {
	var sb strings.Builder

	for _, y := range report.Years {
		if y.Trace == nil {
			continue
		}
		sb.WriteString(SectionStyle.Render(fmt.Sprintf("CALCULATION TRACE %d", y.Year)) + "\n")
		sb.WriteString(NoteStyle.Render("run "+y.Trace.RunID.String()) + "\n")

		for _, sec := range y.Trace.Sections() {
			sb.WriteString(SubsectionStyle.Render(strings.ToUpper(strings.ReplaceAll(string(sec), "_", " "))) + "\n")
			for _, line := range y.Trace.Section(sec) {
				sb.WriteString("  " + line + "\n")
			}
		}
	}
	return []byte(sb.String()), nil
}
