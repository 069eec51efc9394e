// Package passage provides the full-text view of a retrieved passage.
package passage

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/components/text"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// View shows one retrieved chunk with its metadata, scrollable.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	result       *domain.RetrievalResult
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new passage view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		width:  80,
		height: 24,
	}
}

// SetResult replaces the displayed passage and scrolls to the top.
func (v *View) SetResult(result domain.RetrievalResult) {
	v.result = &result
	v.scrollOffset = 0
	v.wrapContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the passage view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PassageSelected:
		v.SetResult(msg.Result)
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	case keymap.Matches(key, v.keymap.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case keymap.Matches(key, v.keymap.PageUp):
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case keymap.Matches(key, v.keymap.PageDown):
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case keymap.Matches(key, v.keymap.Top):
		v.scrollOffset = 0
	case keymap.Matches(key, v.keymap.Bottom):
		v.scrollOffset = v.maxScrollOffset()
	}

	return v, nil
}

// wrapContent wraps the passage to fit the view width.
func (v *View) wrapContent() {
	if v.result == nil || v.result.Document == "" {
		v.lines = nil
		return
	}
	v.lines = text.Wrap(v.result.Document, max(v.width-4, 20))
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, metadata, separator, help and padding
	return max(v.height-8, 1)
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the passage view.
func (v *View) View() string {
	if !v.ready {
		return "加载中..."
	}

	var b strings.Builder

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("(未选择段落)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(v.result.ChapterTitle()))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("人物: " + v.result.Characters()))
	b.WriteString("  ")
	b.WriteString(v.styles.Score.Render(fmt.Sprintf("相似度: %.3f", v.result.Similarity())))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(无内容)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for _, line := range v.lines[v.scrollOffset:end] {
		b.WriteString(v.styles.Normal.Render(line))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] 第 %d-%d 行，共 %d 行",
			percentage, v.scrollOffset+1, end, len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("↑/↓ 滚动" + status.HintSeparator + status.Hints(v.keymap.PassageHelp()))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Result returns the displayed passage, or nil.
func (v *View) Result() *domain.RetrievalResult {
	return v.result
}

// ScrollOffset returns the index of the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// LineCount returns the number of wrapped lines.
func (v *View) LineCount() int {
	return len(v.lines)
}
