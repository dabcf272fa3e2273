package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/loan"
)

// Color palette matching existing fatih/color usage
var (
	// ColorGreen for available books and success indicators
	ColorGreen = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}

	// ColorCyan for categories and metadata
	ColorCyan = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}

	// ColorWhite for primary text
	ColorWhite = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}

	// ColorGray for secondary text and help
	ColorGray = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}

	// ColorYellow for warnings and highlights
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}

	// ColorRed for overdue loans and errors
	ColorRed = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}

	ColorOrange    = lipgloss.AdaptiveColor{Light: "#D75F00", Dark: "#FF8700"}
	ColorTeal      = lipgloss.AdaptiveColor{Light: "#008787", Dark: "#00AFAF"}
	ColorTealLight = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#5FD7D7"}
)

// Reusable styles
var (
	// StyleNormal is the base style for regular text
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	// StyleHighlight is for selected items
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	// StyleAvailable marks borrowable books
	StyleAvailable = lipgloss.NewStyle().Foreground(ColorGreen)

	// StyleTag is for categories and badges
	StyleTag = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleHelp is for help text and hints
	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	// StyleError is for error lines
	StyleError = lipgloss.NewStyle().Foreground(ColorRed)

	// StyleHeader is for section headers
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	// StyleBorder is for borders and separators
	StyleBorder = lipgloss.NewStyle().
			Foreground(ColorGray).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)
)

// ToneStyle returns the style for a loan badge or notification tone.
func ToneStyle(t loan.Tone) lipgloss.Style {
	switch t {
	case loan.ToneSuccess:
		return lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	case loan.ToneWarning:
		return lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	case loan.ToneDanger:
		return lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorCyan)
	}
}
