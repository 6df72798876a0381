package cli

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all command output.
const (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorError   = lipgloss.Color("#EF4444")
	ColorSuccess = lipgloss.Color("#10B981")
)

var (
	// TitleStyle is for section headings.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// MutedStyle is for totals and secondary lines.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ErrorStyle is for the top-level error message.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// SuccessStyle is for confirmations.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)
