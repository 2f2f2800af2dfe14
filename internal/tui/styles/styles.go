package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Amber     = lipgloss.Color("#E5A00D")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Amber).
			Padding(0, 1)
)

// Panel styles
var (
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2)
)

// PlayingChar marks the show whose file is currently playing
const PlayingChar = "▶"
