package report

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan — headers/accents
	colorAccent  = lipgloss.Color("#FFD700") // Gold — near-critical
	colorSuccess = lipgloss.Color("#00E676") // Green — comfortable float
	colorDanger  = lipgloss.Color("#FF5252") // Red — violations/cycles
	colorMuted   = lipgloss.Color("#636363") // Gray — de-emphasized
	colorWhite   = lipgloss.Color("#EEEEEE") // Off-white — primary text
)

// styles bundles the lipgloss styles used by a Renderer. A zero styles value
// renders everything unstyled, which is what --no-color produces.
type styles struct {
	header   lipgloss.Style
	critical lipgloss.Style
	near     lipgloss.Style
	violates lipgloss.Style
	ok       lipgloss.Style
	dim      lipgloss.Style
	banner   lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		return styles{}
	}
	return styles{
		header:   lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		critical: lipgloss.NewStyle().Foreground(colorDanger).Bold(true),
		near:     lipgloss.NewStyle().Foreground(colorAccent),
		violates: lipgloss.NewStyle().Foreground(colorDanger).Bold(true).Underline(true),
		ok:       lipgloss.NewStyle().Foreground(colorSuccess),
		dim:      lipgloss.NewStyle().Foreground(colorMuted),
		banner: lipgloss.NewStyle().
			Foreground(colorWhite).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
	}
}
