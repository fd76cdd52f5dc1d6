package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterInput(t *testing.T) {
	f := NewFilterInput(nil)

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
	assert.False(t, f.Focused())
	assert.Empty(t, f.Value())
}

func TestFilterInput_Init(t *testing.T) {
	assert.NotNil(t, NewFilterInput(nil).Init())
}

func TestFilterInput_TypingWhenFocused(t *testing.T) {
	f := NewFilterInput(nil)
	f.Focus()

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("CVE-1")})

	assert.Equal(t, "CVE-1", f.Value())
}

func TestFilterInput_IgnoresTypingWhenBlurred(t *testing.T) {
	f := NewFilterInput(nil)

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Empty(t, f.Value())
}

func TestFilterInput_ValueTrimmed(t *testing.T) {
	f := NewFilterInput(nil)

	f.SetValue("  CVE-2024-3094 ")

	assert.Equal(t, "CVE-2024-3094", f.Value())
}

func TestFilterInput_FocusBlurReset(t *testing.T) {
	f := NewFilterInput(nil)
	f.SetValue("CVE-2024-3094")

	f.Focus()
	assert.True(t, f.Focused())

	f.Blur()
	assert.False(t, f.Focused())

	f.Reset()
	assert.Empty(t, f.Value())
}

func TestFilterInput_SetWidth(t *testing.T) {
	f := NewFilterInput(nil)

	f.SetWidth(100)
	assert.Equal(t, 86, f.textinput.Width)

	f.SetWidth(10)
	assert.Equal(t, 20, f.textinput.Width)
}

func TestFilterInput_View(t *testing.T) {
	f := NewFilterInput(nil)
	f.SetValue("CVE-2024-3094")

	assert.Contains(t, f.View(), "CVE ID:")
	assert.Contains(t, f.View(), "CVE-2024-3094")
}
