package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan — primary accent
	colorAccent  = lipgloss.Color("#FFD700") // Gold — near-critical
	colorSuccess = lipgloss.Color("#00E676") // Green — comfortable float
	colorDanger  = lipgloss.Color("#FF5252") // Red — violations
	colorMuted   = lipgloss.Color("#636363") // Gray — de-emphasized
	colorWhite   = lipgloss.Color("#EEEEEE") // Off-white — primary text
	colorSurface = lipgloss.Color("#1E1E2E") // Dark surface — status bar bg
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

// Status bar styles.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Row styles by classification.
var (
	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorWhite).
				Bold(true)

	styleRowCritical = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	styleRowNear = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleRowViolates = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true).
				Underline(true)

	styleRowOK = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleRowDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Detail panel styles.
var (
	styleDetailBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	styleDetailTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Footer styles.
var (
	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMuted)
)
