package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
)

func TestNewSearchInput(t *testing.T) {
	input := NewSearchInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
	assert.Equal(t, "查询: ", input.Label())
}

func TestNewCharacterInput(t *testing.T) {
	input := NewCharacterInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
	assert.Equal(t, "人物: ", input.Label())
}

func TestTextInput_Init(t *testing.T) {
	input := NewSearchInput(nil)

	assert.NotNil(t, input.Init(), "blink command should be returned")
}

func TestTextInput_TypesCJK(t *testing.T) {
	input := NewSearchInput(nil)

	for _, r := range "虎妞" {
		updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		assert.Same(t, input, updated)
	}

	assert.Equal(t, "虎妞", input.Value())
}

func TestTextInput_View(t *testing.T) {
	input := NewCharacterInput(nil)
	input.SetValue("祥子")

	view := input.View()

	assert.Contains(t, view, "人物")
	assert.Contains(t, view, "祥子")
}

func TestTextInput_FocusAndBlur(t *testing.T) {
	input := NewSearchInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	input.Focus()
	assert.True(t, input.Focused())
}

func TestTextInput_SetWidth(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		inputWidth int
	}{
		{"wide", 100, 100 - 6 - 6},
		{"narrow clamps", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := NewSearchInput(nil)

			input.SetWidth(tt.width)

			assert.Equal(t, tt.width, input.Width())
			assert.Equal(t, tt.inputWidth, input.textinput.Width)
		})
	}
}

func TestTextInput_Reset(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("骆驼的故事")

	input.Reset()

	assert.Equal(t, "", input.Value())
}
