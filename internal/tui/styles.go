// Package tui: Lipgloss style constants for the watch dashboard.
package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all theme-aware Lipgloss styles.
type Styles struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Danger  lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color

	Header      lipgloss.Style
	HeaderHost  lipgloss.Style
	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	TableRowSel lipgloss.Style
	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	StatusOK    lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusErr   lipgloss.Style
	Footer      lipgloss.Style
	FooterKey   lipgloss.Style
	Message     lipgloss.Style
}

// newStyles returns the default dashboard theme.
func newStyles() Styles {
	primary := lipgloss.Color("#5FA8D3")
	accent := lipgloss.Color("#9BE8C8")
	danger := lipgloss.Color("#F56565")
	warning := lipgloss.Color("#ECC94B")
	success := lipgloss.Color("#68D391")
	muted := lipgloss.Color("#4A5568")
	text := lipgloss.Color("#E2E8F0")
	bg := lipgloss.Color("#0D0F18")

	return Styles{
		Primary: primary, Accent: accent, Danger: danger,
		Warning: warning, Success: success, Muted: muted, Text: text,

		Header: lipgloss.NewStyle().
			Background(primary).Foreground(bg).
			Bold(true).Padding(0, 1),

		HeaderHost: lipgloss.NewStyle().
			Foreground(accent).Bold(true),

		TableHeader: lipgloss.NewStyle().
			Foreground(primary).Bold(true),

		TableRow: lipgloss.NewStyle().
			Foreground(text),

		TableRowSel: lipgloss.NewStyle().
			Foreground(accent).Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(accent).Bold(true),

		StatusOK:   lipgloss.NewStyle().Foreground(success).Bold(true),
		StatusWarn: lipgloss.NewStyle().Foreground(warning),
		StatusErr:  lipgloss.NewStyle().Foreground(danger).Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(muted),

		FooterKey: lipgloss.NewStyle().
			Foreground(primary).Bold(true),

		Message: lipgloss.NewStyle().
			Foreground(warning),
	}
}
