package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the dashboard.
var (
	ColorRed    = lipgloss.Color("#FF5555")
	ColorGreen  = lipgloss.Color("#10B981")
	ColorYellow = lipgloss.Color("#FFD166")
	ColorCyan   = lipgloss.Color("#00FFFF")
	ColorGray   = lipgloss.Color("#A0AEC0")
	ColorDim    = lipgloss.Color("#4A5568")
	ColorWhite  = lipgloss.Color("#FFFFFF")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	RunningStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	StoppedStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	UpcomingStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	PastStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorYellow).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDim)
)

// levelStyles colors log lines by level name
var levelStyles = map[string]lipgloss.Style{
	"DEBUG":   lipgloss.NewStyle().Foreground(ColorDim),
	"INFO":    lipgloss.NewStyle().Foreground(ColorWhite),
	"SUCCESS": lipgloss.NewStyle().Foreground(ColorGreen),
	"WARNING": lipgloss.NewStyle().Foreground(ColorYellow),
	"ERROR":   lipgloss.NewStyle().Foreground(ColorRed),
}
