// Package input provides text input components for the browse TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
)

// charLimit bounds queries and character names.
const charLimit = 128

// TextInput wraps a bubbles textinput with a styled label.
type TextInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewTextInput creates a focused input with the given label and placeholder.
func NewTextInput(s *styles.Styles, label, placeholder string) *TextInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = charLimit
	ti.Width = 50

	return &TextInput{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// NewSearchInput creates the query input used by the search view.
func NewSearchInput(s *styles.Styles) *TextInput {
	return NewTextInput(s, "查询: ", "祥子做了什么")
}

// NewCharacterInput creates the name input used by the chapters view.
func NewCharacterInput(s *styles.Styles) *TextInput {
	return NewTextInput(s, "人物: ", "祥子")
}

// Init initialises the input.
func (s *TextInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *TextInput) Update(msg tea.Msg) (*TextInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the label and input.
func (s *TextInput) View() string {
	label := s.styles.Title.Render(s.label)
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Label returns the input label.
func (s *TextInput) Label() string {
	return s.label
}

// Value returns the current input value.
func (s *TextInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *TextInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (s *TextInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *TextInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *TextInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *TextInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - lipgloss.Width(s.label) - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *TextInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *TextInput) Reset() {
	s.textinput.Reset()
}
