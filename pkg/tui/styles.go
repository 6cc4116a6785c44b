package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// Single source of truth for all TUI colors.
var (
	emberOrange = lipgloss.Color("#FFB86C") // hot accent
	frostBlue   = lipgloss.Color("#8BE9FD") // cold accent
	mossGreen   = lipgloss.Color("#A8E6CF") // done / success
	duskViolet  = lipgloss.Color("#BD93F9") // delayed accent
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
	alertRed    = lipgloss.Color("#FF5555") // errors / destructive
)

// Common Styles
var (
	tabActiveStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Background(emberOrange).
			Bold(true).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(mutedGray).
				Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(emberOrange).
			Padding(0, 1)

	inputBoxBlurredStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(mutedGray).
				Padding(0, 1)

	selectedTitleStyle = lipgloss.NewStyle().
				Foreground(emberOrange).
				Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	bodyStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			PaddingLeft(4)

	metaStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			PaddingLeft(4)

	sectionStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Bold(true)

	spotlightBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(frostBlue).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	searchStyle = lipgloss.NewStyle().
			Foreground(frostBlue)

	toastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mossGreen).
			Padding(0, 1)

	toastErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(alertRed).
			Padding(0, 1)

	readyStyle = lipgloss.NewStyle().
			Foreground(mossGreen).
			Bold(true)

	delayedStyle = lipgloss.NewStyle().
			Foreground(duskViolet)
)
