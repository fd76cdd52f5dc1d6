// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the TUI colour palette.
type Theme struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	Bar        lipgloss.Color

	// Critical, High, Medium and Low colour the CVSS v3 severity bands.
	Critical lipgloss.Color
	High     lipgloss.Color
	Medium   lipgloss.Color
	Low      lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
		Bar:        lipgloss.Color("#181825"),
		Critical:   lipgloss.Color("#D20F39"),
		High:       lipgloss.Color("#FE640B"),
		Medium:     lipgloss.Color("#DF8E1D"),
		Low:        lipgloss.Color("#40A02B"),
	}
}

// Styles contains the lipgloss styles shared by every view.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Header     lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(theme.Muted),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground).Background(theme.Primary),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// band is one CVSS v3 qualitative severity range.
type band struct {
	min   float64
	label string
	color func(*Theme) lipgloss.Color
}

// bands are ordered from most to least severe. Scores of 0 are "NONE".
var bands = []band{
	{9.0, "CRITICAL", func(t *Theme) lipgloss.Color { return t.Critical }},
	{7.0, "HIGH", func(t *Theme) lipgloss.Color { return t.High }},
	{4.0, "MEDIUM", func(t *Theme) lipgloss.Color { return t.Medium }},
	{0.1, "LOW", func(t *Theme) lipgloss.Color { return t.Low }},
}

func bandFor(score *float64) (band, bool) {
	if score == nil {
		return band{}, false
	}
	for _, b := range bands {
		if *score >= b.min {
			return b, true
		}
	}
	return band{}, false
}

// Severity returns the style for a CVSS base score. Unscored and zero
// scores render muted.
func (s *Styles) Severity(score *float64) lipgloss.Style {
	b, ok := bandFor(score)
	if !ok {
		return s.Muted
	}
	return lipgloss.NewStyle().Bold(true).Foreground(b.color(s.theme))
}

// SeverityLabel names the CVSS v3 band for a score.
func SeverityLabel(score *float64) string {
	if score == nil {
		return "UNSCORED"
	}
	if b, ok := bandFor(score); ok {
		return b.label
	}
	return "NONE"
}
