package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Private brand colors.
	colorIris  = lipgloss.Color("#5D3FD3")
	colorSlate = lipgloss.Color("#667085")
	colorWhite = lipgloss.Color("#FFFFFF")

	// Target Status Styles.
	targetRunningStyle = lipgloss.NewStyle().
				Foreground(colorIris).
				Bold(true)

	targetDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	targetErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")) // Red

	targetCachedStyle = lipgloss.NewStyle().
				Foreground(colorSlate).
				Faint(true)

	logLineStyle = lipgloss.NewStyle().
			Foreground(colorSlate).
			PaddingLeft(4)

	// Header Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(colorIris).
			Foreground(colorWhite)
)
