package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for name, c := range map[string]lipgloss.Color{
		"primary":  theme.Primary,
		"muted":    theme.Muted,
		"error":    theme.Error,
		"critical": theme.Critical,
		"high":     theme.High,
		"medium":   theme.Medium,
		"low":      theme.Low,
	} {
		assert.NotEmpty(t, string(c), name)
	}
}

func TestDefaultTheme_SeverityColoursDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Critical, theme.High, theme.Medium, theme.Low} {
		assert.False(t, seen[c], "duplicate colour: %s", c)
		seen[c] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles()

	require.NotNil(t, styles)
	assert.Equal(t, DefaultTheme(), styles.Theme())
	assert.NotEqual(t, lipgloss.Style{}, styles.Header)
	assert.NotEqual(t, lipgloss.Style{}, styles.Selected)
}

func TestSeverityLabel(t *testing.T) {
	score := func(f float64) *float64 { return &f }

	tests := []struct {
		score    *float64
		expected string
	}{
		{nil, "UNSCORED"},
		{score(0), "NONE"},
		{score(0.1), "LOW"},
		{score(3.9), "LOW"},
		{score(4.0), "MEDIUM"},
		{score(6.9), "MEDIUM"},
		{score(7.0), "HIGH"},
		{score(8.9), "HIGH"},
		{score(9.0), "CRITICAL"},
		{score(10), "CRITICAL"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, SeverityLabel(tt.score))
		})
	}
}

func TestStyles_Severity(t *testing.T) {
	s := DefaultStyles()
	critical := 9.8
	low := 2.0

	assert.Equal(t, s.Muted, s.Severity(nil))
	assert.Equal(t, s.theme.Critical, s.Severity(&critical).GetForeground())
	assert.Equal(t, s.theme.Low, s.Severity(&low).GetForeground())
	assert.NotEmpty(t, s.Severity(&critical).Render("9.8"))
}
