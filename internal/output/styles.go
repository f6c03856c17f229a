package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for all ANSI 256 colors used in the CLI.
var (
	// ColorCyan is used for identifiable nouns: project names, paths, generators.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for created files.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for overwritten files and warnings.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for removed keys and failures.
	ColorRed = lipgloss.Color("196")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (project names, paths, generators).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs.
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// File status constants used when listing scaffolded files.
const (
	StatusCreated     = "created"
	StatusOverwritten = "overwritten"
	StatusSkipped     = "skipped"
)

// Styles groups the styles used by renderers.
type Styles struct {
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// GetStyles returns the default renderer styles.
func GetStyles() *Styles {
	return &Styles{
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   StyleDim,
		Success: lipgloss.NewStyle().Foreground(ColorGreen),
		Warning: lipgloss.NewStyle().Foreground(ColorYellow),
		Error:   lipgloss.NewStyle().Foreground(ColorRed),
	}
}

// StatusStyle returns the lipgloss style for a file status.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusOverwritten:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	default:
		return lipgloss.NewStyle()
	}
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatTODO renders the message printed by unimplemented generators.
func FormatTODO(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorYellow).Render("TODO") + " " + msg
}
