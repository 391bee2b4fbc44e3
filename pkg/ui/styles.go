package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// palette holds the colours a theme assigns to each role
type palette struct {
	success lipgloss.TerminalColor
	err     lipgloss.TerminalColor
	primary lipgloss.TerminalColor
	info    lipgloss.TerminalColor
	muted   lipgloss.TerminalColor
	warning lipgloss.TerminalColor
	accent  lipgloss.TerminalColor
	text    lipgloss.TerminalColor
}

var palettes = map[string]palette{
	// ANSI indices so the terminal's own scheme decides the exact shade
	"auto": {
		success: lipgloss.AdaptiveColor{Light: "2", Dark: "2"},
		err:     lipgloss.AdaptiveColor{Light: "1", Dark: "1"},
		primary: lipgloss.AdaptiveColor{Light: "5", Dark: "5"},
		info:    lipgloss.AdaptiveColor{Light: "6", Dark: "6"},
		muted:   lipgloss.AdaptiveColor{Light: "8", Dark: "8"},
		warning: lipgloss.AdaptiveColor{Light: "3", Dark: "3"},
		accent:  lipgloss.AdaptiveColor{Light: "4", Dark: "4"},
		text:    lipgloss.AdaptiveColor{Light: "0", Dark: "7"},
	},
	"dark": {
		success: lipgloss.Color("#8BD5A0"),
		err:     lipgloss.Color("#F28B82"),
		primary: lipgloss.Color("#FFD580"),
		info:    lipgloss.Color("#89CFF0"),
		muted:   lipgloss.Color("#7A7A7A"),
		warning: lipgloss.Color("#FFB86C"),
		accent:  lipgloss.Color("#F5C542"),
		text:    lipgloss.Color("#E6E6E6"),
	},
	"light": {
		success: lipgloss.Color("#1E7B34"),
		err:     lipgloss.Color("#B3261E"),
		primary: lipgloss.Color("#8A5A00"),
		info:    lipgloss.Color("#0B5CAD"),
		muted:   lipgloss.Color("#6B6B6B"),
		warning: lipgloss.Color("#9A5B00"),
		accent:  lipgloss.Color("#B07D00"),
		text:    lipgloss.Color("#1A1A1A"),
	},
}

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style

	StyleTitle       lipgloss.Style
	StyleHeader      lipgloss.Style
	StyleSelected    lipgloss.Style
	StylePanel       lipgloss.Style
	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style

	IconSuccess  = "✔"
	IconError    = "✘"
	IconInfo     = "ℹ"
	IconWarning  = "⚠"
	IconImage    = "🖼"
	IconSun      = "☀"
	IconContrast = "◐"
	IconSaved    = "💾"
)

func init() {
	SetTheme("auto")
}

// SetTheme rebuilds every style for theme ("auto", "dark", "light").
// Unknown names fall back to auto.
func SetTheme(theme string) {
	p, ok := palettes[theme]
	if !ok {
		theme, p = "auto", palettes["auto"]
	}
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	StyleSuccess = lipgloss.NewStyle().Foreground(p.success).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(p.err).Bold(true)
	StylePrimary = lipgloss.NewStyle().Foreground(p.primary).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(p.info)
	StyleMuted = lipgloss.NewStyle().Foreground(p.muted)
	StyleWarning = lipgloss.NewStyle().Foreground(p.warning).Bold(true)
	StyleAccent = lipgloss.NewStyle().Foreground(p.accent)

	StyleTitle = StylePrimary.Underline(true)
	StyleHeader = StylePrimary.Padding(0, 1)
	StyleSelected = StylePrimary
	StylePanel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.muted).
		Padding(0, 1)

	StyleTableHeader = lipgloss.NewStyle().Foreground(p.primary).Bold(true)
	StyleTableRow = lipgloss.NewStyle().Foreground(p.text)
	StyleTableRowAlt = StyleTableRow.Faint(true)
	StyleTableBorder = lipgloss.NewStyle().Foreground(p.muted)
}

// FormatSuccess returns a success message with icon
func FormatSuccess(msg string) string {
	return StyleSuccess.Render(IconSuccess + " " + msg)
}

// FormatError returns an error message with icon
func FormatError(msg string) string {
	return StyleError.Render(IconError + " " + msg)
}

// FormatInfo returns an info message with icon
func FormatInfo(msg string) string {
	return StyleInfo.Render(IconInfo + " " + msg)
}

// FormatWarning returns a warning message with icon
func FormatWarning(msg string) string {
	return StyleWarning.Render(IconWarning + " " + msg)
}

// FormatSaved reports a written file
func FormatSaved(path string) string {
	return StyleSuccess.Render(IconSaved + " Saved " + path)
}

func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}
