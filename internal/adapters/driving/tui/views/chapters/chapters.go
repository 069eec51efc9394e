// Package chapters provides the view listing the chapters a character appears in.
package chapters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/components/text"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
)

// ErrNoAnalysisService indicates that no analysis service was provided.
var ErrNoAnalysisService = errors.New("analysis service is required")

// previewLines is the number of preview lines shown under the list.
const previewLines = 4

// View asks for a character name and lists the chapters mentioning it.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	input    *input.TextInput
	analysis driving.AnalysisService
	ctx      context.Context

	character    string
	chapters     []domain.ChapterMatch
	selected     int
	scrollOffset int
	width        int
	height       int
	ready        bool
	loading      bool
	err          error
	focusInput   bool
}

// NewView creates a new chapters view.
func NewView(s *styles.Styles, km *keymap.KeyMap, analysis driving.AnalysisService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewCharacterInput(s),
		analysis:   analysis,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chapters view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChaptersLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.focusInput = true
			return v, v.input.Focus()
		}
		v.err = nil
		v.character = msg.Character
		v.chapters = msg.Chapters
		v.selected = 0
		v.scrollOffset = 0
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if keymap.Matches(key, v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			v.focusInput = false
			v.loading = true
			v.input.Blur()
			return v, v.loadChapters(strings.TrimSpace(v.input.Value()))
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.chapters)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	return v, nil
}

// loadChapters returns a command that asks the analysis service for matches.
// An empty name selects the configured default character.
func (v *View) loadChapters(character string) tea.Cmd {
	analysis, ctx := v.analysis, v.ctx
	return func() tea.Msg {
		if analysis == nil {
			return messages.ChaptersLoaded{Character: character, Err: ErrNoAnalysisService}
		}
		chapters, err := analysis.FindChapters(ctx, character)
		return messages.ChaptersLoaded{Character: character, Chapters: chapters, Err: err}
	}
}

// adjustScroll keeps the selected chapter visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount returns the number of chapters that can be displayed.
func (v *View) visibleItemCount() int {
	// Title, input, preview block, help and padding
	return max(v.height-10-previewLines, 1)
}

// View renders the chapters view.
func (v *View) View() string {
	if !v.ready {
		return "加载中..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("novelrag · 人物章节"))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("正在查找章节..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("错误: " + v.err.Error()))
		b.WriteString("\n")
	case !v.focusInput || v.character != "" || v.chapters != nil:
		v.renderList(&b)
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderList(b *strings.Builder) {
	if len(v.chapters) == 0 {
		b.WriteString(v.styles.Muted.Render("未找到包含该人物的章节"))
		b.WriteString("\n")
		return
	}

	b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("找到 %d 个章节", len(v.chapters))))
	b.WriteString("\n")

	rowWidth := max(v.width-4, 20)
	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.chapters))
	for i := v.scrollOffset; i < end; i++ {
		ch := v.chapters[i]
		row := text.Fit(fmt.Sprintf("第%d章 %s (%d 字)", ch.ChapterNum, ch.ChapterTitle, ch.WordCount), rowWidth)
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(row))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(row))
		}
		b.WriteString("\n")
	}

	preview := text.Wrap(v.chapters[v.selected].ContentPreview, rowWidth)
	if len(preview) > previewLines {
		preview = preview[:previewLines]
	}
	b.WriteString("\n")
	for _, line := range preview {
		b.WriteString(v.styles.Muted.Render("  " + line))
		b.WriteString("\n")
	}
}

func (v *View) renderHelp() string {
	if v.focusInput {
		return v.styles.Help.Render("enter 查找章节" + status.HintSeparator + "esc 返回")
	}
	return v.styles.Help.Render("↑/↓ 浏览" + status.HintSeparator + "n 换个人物" + status.HintSeparator + "esc 返回")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
}

// Character returns the name of the last completed lookup.
func (v *View) Character() string {
	return v.character
}

// Chapters returns the loaded chapters.
func (v *View) Chapters() []domain.ChapterMatch {
	return v.chapters
}

// Selected returns the index of the selected chapter.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the name input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to input mode.
func (v *View) Reset() tea.Cmd {
	v.focusInput = true
	v.loading = false
	v.err = nil
	v.character = ""
	v.chapters = nil
	v.selected = 0
	v.scrollOffset = 0
	v.input.SetValue("")
	return v.input.Focus()
}
