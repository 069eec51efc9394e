// Package status provides the status bar for the browse TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
)

// State is what the search view is currently doing.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateResults   State = "results"
	StateError     State = "error"
)

// HintSeparator joins keybinding hints.
const HintSeparator = " · "

var labels = map[State]string{
	StateReady:     "就绪",
	StateSearching: "检索中...",
	StateResults:   "就绪",
	StateError:     "错误",
}

// Bar shows the search state on the left and keybinding hints on the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	state   State
	message string
	results int
	width   int
}

// NewBar creates a status bar. Nil arguments use the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// SetState switches the displayed state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// SetMessage sets the detail shown after the error label.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// SetResultCount sets how many passages the last search returned.
func (s *Bar) SetResultCount(n int) {
	s.results = n
}

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear returns the bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.results = 0
}

// View renders the bar, padding between the two sides.
func (s *Bar) View() string {
	left := s.status()
	right := s.styles.Muted.Render(Hints(s.bindings()))

	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	switch {
	case s.state == StateError && s.message != "":
		return s.styles.Error.Render(labels[StateError] + ": " + s.message)
	case s.state == StateError:
		return s.styles.Error.Render(labels[StateError])
	case s.state == StateResults && s.results > 0:
		return s.styles.Normal.Render(fmt.Sprintf("%d 条结果", s.results))
	}

	label, ok := labels[s.state]
	if !ok {
		label = labels[StateReady]
	}
	return s.styles.Muted.Render(label)
}

func (s *Bar) bindings() []key.Binding {
	if s.state == StateResults && s.results > 0 {
		return s.keymap.ResultsHelp()
	}
	return s.keymap.ShortHelp()
}

// Hints renders bindings as "key desc" pairs.
func Hints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, HintSeparator)
}
