package domain

import "fmt"

// ChapterTitleLimit bounds chapter titles stored on chunks and reports.
const ChapterTitleLimit = 100

// Chunk is an overlapping window of one chapter's text.
// Chunks are the unit of embedding and retrieval.
type Chunk struct {
	// ID is the book-wide sequence identifier (chunk_0001, ...).
	ID string `json:"chunk_id"`

	// ChapterNum links back to the owning chapter.
	ChapterNum int `json:"chapter_num"`

	// ChapterTitle is the owning chapter's title, truncated for display.
	ChapterTitle string `json:"chapter_title"`

	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`

	// WordCount is the number of characters (runes) in Content.
	WordCount int `json:"word_count"`

	// Characters lists the vocabulary names found in Content.
	Characters []string `json:"characters"`

	// Content is the chunk text.
	Content string `json:"content"`

	// StartPosition and EndPosition are rune offsets into the chapter content.
	StartPosition int `json:"start_position"`
	EndPosition   int `json:"end_position"`
}

// ChunkID formats the identifier for the n-th chunk of a book.
func ChunkID(n int) string {
	return fmt.Sprintf("chunk_%04d", n)
}
