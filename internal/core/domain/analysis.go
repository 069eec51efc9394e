package domain

import "time"

// Preview limits used when listing chapters and degrading reports.
const (
	ContentPreviewLimit  = 200
	FallbackExcerptLimit = 300
)

// ChapterMatch is a chapter whose text mentions the analysed character.
type ChapterMatch struct {
	ChapterNum     int    `json:"chapter_num"`
	ChapterTitle   string `json:"chapter_title"`
	ContentPreview string `json:"content_preview"`
	WordCount      int    `json:"word_count"`
}

// ChapterContext accumulates retrieved passages for one chapter.
type ChapterContext struct {
	ChapterNum   int
	ChapterTitle string

	// Context is the concatenation of annotated passages.
	Context string

	// Passages counts the passages that passed the similarity threshold.
	Passages int
}

// AnalysisReport is the outcome of a character analysis run.
type AnalysisReport struct {
	Character   string
	BookTitle   string
	BookAuthor  string
	Chapters    []ChapterContext
	Answer      string
	Model       string
	GeneratedAt time.Time

	// Degraded is set when the LLM call failed and Answer holds the
	// excerpt fallback. Degraded reports are never written to disk.
	Degraded bool

	// Err records the synthesis failure behind a degraded report.
	Err error
}
