package theme

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Color palette, ANSI 0-15
// ---------------------------------------------------------------------------

var (
	Text      = lipgloss.Color("7")
	TextMuted = lipgloss.Color("8")

	Primary   = lipgloss.Color("4") // blue
	Secondary = lipgloss.Color("6") // cyan
	Accent    = lipgloss.Color("5") // magenta
	Success   = lipgloss.Color("2") // green
	Warning   = lipgloss.Color("3") // yellow
	Danger    = lipgloss.Color("1") // red
	Border    = lipgloss.Color("8") // dim
)

// ---------------------------------------------------------------------------
// Semantic text styles
// ---------------------------------------------------------------------------

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)

	Error = lipgloss.NewStyle().Bold(true).Foreground(Danger)
	Ok    = lipgloss.NewStyle().Bold(true).Foreground(Success)

	Selected = lipgloss.NewStyle().Bold(true).Foreground(Warning)
	Tag      = lipgloss.NewStyle().Foreground(Warning)
)

// ---------------------------------------------------------------------------
// Reusable component helpers
// ---------------------------------------------------------------------------

var (
	Pane = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(Border)

	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(1, 2)

	ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(Accent)

	StatusBar = lipgloss.NewStyle().
			Foreground(TextMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	HelpHint = lipgloss.NewStyle().Foreground(TextMuted)
)
