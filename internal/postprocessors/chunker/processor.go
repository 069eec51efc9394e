// Package chunker provides a fixed-window text chunking processor that
// prefers to end each window on sentence-final punctuation.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 400

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 80

// DefaultMinLength drops a chapter's trailing chunk shorter than this.
const DefaultMinLength = 50

// DefaultLookback bounds how far back a window end may move to reach a terminator.
const DefaultLookback = 100

// DefaultTerminators are the sentence-final marks a window may end on.
const DefaultTerminators = "。！？"

// Processor splits chapter content into overlapping windows.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize   int
	overlap     int
	minLength   int
	lookback    int
	terminators map[rune]bool
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithMinLength sets the minimum length of a chapter's trailing chunk.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minLength = n
		}
	}
}

// WithTerminators replaces the sentence-final punctuation set.
func WithTerminators(marks string) Option {
	return func(p *Processor) {
		if marks != "" {
			p.terminators = runeSet(marks)
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:   DefaultChunkSize,
		overlap:     DefaultChunkOverlap,
		minLength:   DefaultMinLength,
		lookback:    DefaultLookback,
		terminators: runeSet(DefaultTerminators),
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the chapter content into chunks.
// Input chunks are ignored; this processor creates new chunks from chapter content.
//
// Each window spans chunkSize characters. When more text follows, the end
// moves back to just after the nearest terminator found between the window
// midpoint (or lookback characters before the end, whichever is later) and
// the first character past the window, so a chunk grows by at most one
// character. The next window starts overlap characters before the end.
// Only the chapter's final chunk may be dropped for being too short.
func (p *Processor) Process(ctx context.Context, chapter *domain.Chapter, _ []domain.Chunk) ([]domain.Chunk, error) {
	if chapter == nil || chapter.Content == "" {
		return nil, nil
	}

	runes := []rune(chapter.Content)
	total := len(runes)
	title := domain.Truncate(chapter.Title, domain.ChapterTitleLimit)

	chunks := make([]domain.Chunk, 0, total/(p.chunkSize-p.overlap)+1)

	start := 0
	for start < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := p.windowEnd(runes, start)
		last := end >= total

		content := strings.TrimSpace(string(runes[start:end]))
		length := domain.RuneCount(content)

		if content != "" && (!last || length >= p.minLength) {
			chunks = append(chunks, domain.Chunk{
				ChapterNum:    chapter.Number,
				ChapterTitle:  title,
				BookTitle:     chapter.BookTitle,
				BookAuthor:    chapter.BookAuthor,
				WordCount:     length,
				Characters:    []string{},
				Content:       content,
				StartPosition: start,
				EndPosition:   end,
			})
		}

		if last {
			break
		}

		next := end - p.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// windowEnd returns the exclusive end of the window beginning at start.
func (p *Processor) windowEnd(runes []rune, start int) int {
	total := len(runes)
	end := start + p.chunkSize
	if end >= total {
		return total
	}

	lower := start + p.chunkSize/2
	if end-p.lookback > lower {
		lower = end - p.lookback
	}

	for i := end; i > lower; i-- {
		if p.terminators[runes[i]] {
			return i + 1
		}
	}
	return end
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		set[r] = true
	}
	return set
}
