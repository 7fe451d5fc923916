package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TraceSection tags a calculation trace entry with the step that produced it
type TraceSection string

const (
	SectionValidation  TraceSection = "validation"
	SectionTaxBase     TraceSection = "tax_base"
	SectionRates       TraceSection = "rates"
	SectionCBS         TraceSection = "cbs"
	SectionIBS         TraceSection = "ibs"
	SectionCredits     TraceSection = "credits"
	SectionNetTax      TraceSection = "net_tax"
	SectionPIS         TraceSection = "PIS"
	SectionCOFINS      TraceSection = "COFINS"
	SectionICMS        TraceSection = "ICMS"
	SectionISS         TraceSection = "ISS"
	SectionIPI         TraceSection = "IPI"
	SectionLegacyTotal TraceSection = "legacy_total"
	SectionPhaseOut    TraceSection = "phase_out"
	SectionCrossCredit TraceSection = "cross_credit"
	SectionTotalDue    TraceSection = "total_due"
)

// TraceEntry is one human-readable computation step
type TraceEntry struct {
	Section TraceSection `json:"section"`
	Message string       `json:"message"`
}

// CalculationTrace is the ordered, section-tagged log of a single top-level
// calculation. A new trace is created for every calculation so nothing leaks
// between runs. Consumers must treat it as read-only.
type CalculationTrace struct {
	RunID   uuid.UUID    `json:"run_id"`
	Entries []TraceEntry `json:"entries"`
}

// NewCalculationTrace creates an empty trace with a fresh run identifier
func NewCalculationTrace() *CalculationTrace {
	return &CalculationTrace{RunID: uuid.New()}
}

// Addf appends a formatted entry to a section
func (t *CalculationTrace) Addf(section TraceSection, format string, args ...any) {
	if t == nil {
		return
	}
	t.Entries = append(t.Entries, TraceEntry{Section: section, Message: fmt.Sprintf(format, args...)})
}

// Section returns the messages of one section in order
func (t *CalculationTrace) Section(section TraceSection) []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, e := range t.Entries {
		if e.Section == section {
			out = append(out, e.Message)
		}
	}
	return out
}

// Sections returns the distinct sections in order of first appearance
func (t *CalculationTrace) Sections() []TraceSection {
	if t == nil {
		return nil
	}
	seen := make(map[TraceSection]bool)
	var out []TraceSection
	for _, e := range t.Entries {
		if !seen[e.Section] {
			seen[e.Section] = true
			out = append(out, e.Section)
		}
	}
	return out
}
