package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

func sampleChunks() []domain.Chunk {
	return []domain.Chunk{
		{
			ID:            "chunk_0001",
			ChapterNum:    1,
			ChapterTitle:  "第一章",
			BookTitle:     "骆驼祥子",
			BookAuthor:    "老舍",
			WordCount:     9,
			Characters:    []string{"祥子", "虎妞"},
			Content:       "祥子<和>虎妞 & 车。",
			StartPosition: 0,
			EndPosition:   12,
		},
		{
			ID:            "chunk_0002",
			ChapterNum:    1,
			ChapterTitle:  "第一章",
			BookTitle:     "骆驼祥子",
			BookAuthor:    "老舍",
			WordCount:     4,
			Characters:    []string{},
			Content:       "北平的风",
			StartPosition: 8,
			EndPosition:   12,
		},
	}
}

func TestBookStore_ChunksRoundTrip(t *testing.T) {
	store := NewBookStore()
	path := filepath.Join(t.TempDir(), "data", "processed", "luotuoxiangzi_chunks.json")

	require.NoError(t, store.SaveChunks(path, sampleChunks()))
	loaded, err := store.LoadChunks(path)

	require.NoError(t, err)
	assert.Equal(t, sampleChunks(), loaded)
}

func TestBookStore_WritesReadableUnicode(t *testing.T) {
	store := NewBookStore()
	path := filepath.Join(t.TempDir(), "chunks.json")

	require.NoError(t, store.SaveChunks(path, sampleChunks()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "祥子<和>虎妞 & 车。")
	assert.NotContains(t, text, `\u`)
	assert.True(t, strings.HasPrefix(text, "[\n  {\n    \"chunk_id\": \"chunk_0001\""))
}

func TestBookStore_BookRoundTrip(t *testing.T) {
	store := NewBookStore()
	path := filepath.Join(t.TempDir(), "processed_luotuoxiangzi.json")
	book := domain.NewBook("骆驼祥子", "老舍", []domain.Chapter{
		{Number: 1, Title: "第一章", Content: "祥子", WordCount: 2, FileName: "ch1.xhtml", BookTitle: "骆驼祥子", BookAuthor: "老舍"},
	})

	require.NoError(t, store.SaveBook(path, book))
	loaded, err := store.LoadBook(path)

	require.NoError(t, err)
	assert.Equal(t, book, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"book_info"`)
	assert.Contains(t, string(data), `"total_words": 2`)
}

func TestBookStore_MissingFile(t *testing.T) {
	store := NewBookStore()
	dir := t.TempDir()

	_, err := store.LoadBook(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.LoadChunks(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookStore_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewBookStore().LoadBook(path)

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestBookStore_SaveNilBook(t *testing.T) {
	err := NewBookStore().SaveBook(filepath.Join(t.TempDir(), "x.json"), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBookStore_SaveNilChunksWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.json")

	require.NoError(t, NewBookStore().SaveChunks(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
