package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary  = lipgloss.AdaptiveColor{Light: "#6B5B2E", Dark: "#E2C98F"}
	colorText     = lipgloss.AdaptiveColor{Light: "#2B2B2B", Dark: "#E8E4DA"}
	colorDim      = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#7A7A7A"}
	colorNotice   = lipgloss.AdaptiveColor{Light: "#9A6B00", Dark: "#F2C14E"}
	colorError    = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#F2B8B5"}
	colorStatusBg = lipgloss.AdaptiveColor{Light: "#EFE8D6", Dark: "#2A2722"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingLeft(1)

	stateStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			PaddingLeft(1)

	currentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			PaddingLeft(2)

	itemActiveStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			PaddingLeft(1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorNotice).
			PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true).
			PaddingLeft(1)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorStatusBg).
			Foreground(colorText).
			PaddingLeft(1).
			PaddingRight(1)
)
