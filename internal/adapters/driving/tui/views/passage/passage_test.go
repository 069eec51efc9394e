package passage

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/novelrag/internal/core/domain"
)

func longResult(lines int) domain.RetrievalResult {
	paragraphs := make([]string, lines)
	for i := range paragraphs {
		paragraphs[i] = "祥子拉着车在街上跑"
	}
	return domain.RetrievalResult{
		ID:       "chunk_0001",
		Document: strings.Join(paragraphs, "\n"),
		Metadata: map[string]any{
			domain.MetaChapterTitle: "第一章",
			domain.MetaCharacters:   "祥子",
		},
		Distance: 0.2,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.Nil(t, view.Result())
	assert.Nil(t, view.Init())
	assert.Equal(t, "加载中...", view.View())
}

func TestView_SetResult(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)

	view.SetResult(longResult(3))

	require.NotNil(t, view.Result())
	assert.Equal(t, 3, view.LineCount())

	out := view.View()
	assert.Contains(t, out, "第一章")
	assert.Contains(t, out, "人物: 祥子")
	assert.Contains(t, out, "相似度: 0.800")
	assert.Contains(t, out, "祥子拉着车")
}

func TestView_Update_PassageSelected(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)
	view.scrollOffset = 4

	view.Update(messages.PassageSelected{Result: longResult(2)})

	assert.Equal(t, "chunk_0001", view.Result().ID)
	assert.Zero(t, view.ScrollOffset())
}

func TestView_Scroll(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24) // 16 visible lines
	view.SetResult(longResult(40))

	view.Update(key("k"))
	assert.Zero(t, view.ScrollOffset(), "cannot scroll above the top")

	view.Update(key("j"))
	assert.Equal(t, 1, view.ScrollOffset())

	view.Update(key("pgdown"))
	assert.Equal(t, 17, view.ScrollOffset())

	view.Update(key("G"))
	assert.Equal(t, 24, view.ScrollOffset())

	view.Update(key("j"))
	assert.Equal(t, 24, view.ScrollOffset(), "cannot scroll past the end")

	view.Update(key("pgup"))
	assert.Equal(t, 8, view.ScrollOffset())

	view.Update(key("g"))
	assert.Zero(t, view.ScrollOffset())

	assert.Contains(t, view.View(), "第 1-16 行，共 40 行")
}

func TestView_Esc_ReturnsToSearch(t *testing.T) {
	view := NewView(nil, nil)

	_, cmd := view.Update(key("esc"))

	require.NotNil(t, cmd)
	changed, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	assert.Equal(t, messages.ViewSearch, changed.View)
}

func TestView_View_Empty(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(80, 24)
	assert.Contains(t, view.View(), "未选择段落")

	view.SetResult(domain.RetrievalResult{})
	assert.Contains(t, view.View(), "无内容")
}

func TestView_Wrap_NarrowWidth(t *testing.T) {
	view := NewView(nil, nil)
	view.SetDimensions(24, 24) // 20 cells of content
	view.SetResult(domain.RetrievalResult{Document: strings.Repeat("祥", 25)})

	assert.Equal(t, 3, view.LineCount())
}
