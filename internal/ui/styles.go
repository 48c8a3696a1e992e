package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan, headings
	colorAccent  = lipgloss.Color("#FFD700") // Gold, exact dates
	colorSuccess = lipgloss.Color("#00E676") // Green, confirmations
	colorDanger  = lipgloss.Color("#FF5252") // Red, errors and retrograde
	colorMuted   = lipgloss.Color("#636363") // Gray, de-emphasized
	colorBlue    = lipgloss.Color("#5B8DEF") // Blue, transits
	colorMagenta = lipgloss.Color("#C792EA") // Magenta, progressions
)

// Status icons.
const (
	iconDone    = "✓"
	iconFailed  = "✗"
	iconWarn    = "⚠"
	iconRetro   = "℞"
	iconOngoing = "→"
	iconExact   = "◆"
)

var (
	styleHeading = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleLabel   = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleRetro   = lipgloss.NewStyle().Foreground(colorDanger)
	styleExact   = lipgloss.NewStyle().Foreground(colorAccent)
)

// tierStyles colors event names by tier.
var tierStyles = [...]lipgloss.Style{
	lipgloss.NewStyle().Foreground(colorMagenta).Bold(true),
	lipgloss.NewStyle().Foreground(colorMagenta),
	lipgloss.NewStyle().Foreground(colorBlue),
}
