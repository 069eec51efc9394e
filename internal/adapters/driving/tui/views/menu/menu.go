// Package menu provides the start screen of the browse TUI.
package menu

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
)

// Item is one entry of the start screen.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

// View lists the browse modes. Items can be picked with the arrows or by number.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the start screen.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		items: []Item{
			{Label: "检索段落  Search passages", Hint: "按问题检索相似段落", View: messages.ViewSearch},
			{Label: "人物章节  Character chapters", Hint: "列出提到某个人物的章节", View: messages.ViewChapters},
			{Label: "帮助      Help", Hint: "快捷键说明", View: messages.ViewHelp},
			{Label: "退出      Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}

	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
		return nil

	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.items)-1 {
			v.selected++
		}
		return nil

	case keymap.Matches(k, v.keymap.Select):
		return v.choose(v.selected)

	case keymap.Matches(k, v.keymap.Quit):
		return tea.Quit
	}

	// 1-based shortcuts
	if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(v.items) {
		v.selected = n - 1
		return v.choose(v.selected)
	}
	return nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "加载中..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("novelrag"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Subtitle.Render("小说检索与人物分析"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := strconv.Itoa(i+1) + ". " + item.Label
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		b.WriteString("\n")
	}

	if hint := v.items[v.selected].Hint; hint != "" {
		b.WriteString("\n  " + v.styles.Muted.Render(hint) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("j/k 浏览" + status.HintSeparator + "1-4 跳转" + status.HintSeparator + "enter 选择" + status.HintSeparator + "q 退出"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
