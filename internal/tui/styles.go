package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups every style the screens use.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Body     lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Footer   lipgloss.Style
	Label    lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#7D56F4")
	muted := lipgloss.Color("#8A8A8A")

	return Styles{
		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),
		Item: lipgloss.NewStyle().
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(primary).
			Foreground(primary).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Body: lipgloss.NewStyle().
			Padding(1, 2),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")),
		Footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(1, 2, 0, 2),
		Label: lipgloss.NewStyle().
			Foreground(muted).
			Bold(true),
	}
}
