package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors, missing output
	Orange  = "#FC9867" // Stale output
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success, up to date
	Cyan    = "#78DCE8" // Labels
	Magenta = "#AB9DF2" // Titles

	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	LabelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Cyan))
	ValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Magenta))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border))

	ViewportStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(1)
)
