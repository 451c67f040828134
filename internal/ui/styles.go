package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI. The blue and pink pairs match the orb's
// listening and speaking colors.
var (
	ColorBlue     = lipgloss.Color("#3b82f6")
	ColorBlueDeep = lipgloss.Color("#1d4ed8")
	ColorPink     = lipgloss.Color("#ec4899")
	ColorPinkDeep = lipgloss.Color("#be185d")
	ColorSlate    = lipgloss.Color("#94a3b8")
	ColorRed      = lipgloss.Color("#ef4444")
	ColorGreen    = lipgloss.Color("#22c55e")
	ColorYellow   = lipgloss.Color("#eab308")
	ColorGray     = lipgloss.Color("#666666")
	ColorDimGray  = lipgloss.Color("#444444")
	ColorWhite    = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBlue)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ListeningDotStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true)

	SpeakingDotStyle = lipgloss.NewStyle().
				Foreground(ColorPink).
				Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorSlate)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	AssistantLabelStyle = lipgloss.NewStyle().
				Foreground(ColorPink).
				Bold(true)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	PanelTitleActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorBlue)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	CandidateStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlueDeep).
			Padding(0, 1)

	DisallowedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorRed).
			Padding(0, 1)

	MemoryStatusStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	LevelBlueStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	LevelDeepStyle = lipgloss.NewStyle().
			Foreground(ColorBlueDeep)

	LevelGrayStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	BadgeOnStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	BadgeOffStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)
)
