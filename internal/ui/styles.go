package ui

import "github.com/charmbracelet/lipgloss"

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(10)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

// StatusLine renders "label  value" with value colored by ok.
func StatusLine(label, value string, ok bool) string {
	style := okStyle
	if !ok {
		style = missingStyle
	}
	return labelStyle.Render(label) + " " + style.Render(value)
}

// InfoLine renders "label  value" without status coloring.
func InfoLine(label, value string) string {
	return labelStyle.Render(label) + " " + value
}

func Hint(s string) string { return hintStyle.Render(s) }
