package output

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("#1F6FEB")
	ColorSuccess = lipgloss.Color("#2DA44E")
	ColorWarning = lipgloss.Color("#D29922")
	ColorMuted   = lipgloss.Color("#8B949E")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginTop(1)

	SubsectionStyle = lipgloss.NewStyle().Bold(true)

	LabelStyle = lipgloss.NewStyle().Width(34).PaddingLeft(2)

	ValueStyle = lipgloss.NewStyle().Width(24).Align(lipgloss.Right)

	TotalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	NoteStyle = lipgloss.NewStyle().Foreground(ColorMuted).PaddingLeft(2)

	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
)

// row renders a label and a right-aligned value on one line
func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(value)) + "\n"
}

// totalRow is row with the value highlighted
func totalRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), TotalStyle.Inherit(ValueStyle).Render(value)) + "\n"
}
