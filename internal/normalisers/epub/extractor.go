package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/logger"
	"github.com/custodia-labs/novelrag/internal/normalisers/html"
)

// Ensure Extractor implements the interface.
var _ driven.BookExtractor = (*Extractor)(nil)

// Default extraction parameters.
const (
	// DefaultMinChars skips front matter, copyright pages and the like.
	DefaultMinChars = 100

	// DefaultHeadingLines is how many leading lines are searched for a heading.
	DefaultHeadingLines = 5
)

// DefaultHeadingPattern matches 第 + Chinese or Arabic numeral + 章/回/节.
var DefaultHeadingPattern = regexp.MustCompile(`第[一二三四五六七八九十百千零〇两\d]+[章回节]`)

// Extractor reads EPUB containers into chapters.
type Extractor struct {
	minChars     int
	headingLines int
	heading      *regexp.Regexp
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinChars sets the minimum cleaned length for a document to become a chapter.
func WithMinChars(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.minChars = n
		}
	}
}

// WithHeadingLines sets how many leading lines are scanned for a heading.
func WithHeadingLines(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.headingLines = n
		}
	}
}

// WithHeadingPattern replaces the chapter-heading pattern.
func WithHeadingPattern(re *regexp.Regexp) Option {
	return func(e *Extractor) {
		if re != nil {
			e.heading = re
		}
	}
}

// New creates an EPUB extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		minChars:     DefaultMinChars,
		headingLines: DefaultHeadingLines,
		heading:      DefaultHeadingPattern,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract opens the EPUB at path and returns its chapters.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening e-book: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading e-book info: %w", err)
	}

	return e.ExtractFrom(ctx, f, info.Size())
}

// ExtractFrom reads an EPUB from an in-memory or on-disk reader.
func (e *Extractor) ExtractFrom(ctx context.Context, r io.ReaderAt, size int64) (*domain.Book, error) {
	reader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidContainer, err)
	}

	p, err := openPackage(reader)
	if err != nil {
		return nil, err
	}

	title := p.title
	if title == "" {
		title = domain.UnknownBookTitle
	}
	author := p.author
	if author == "" {
		author = domain.UnknownBookAuthor
	}
	logger.Info("正在处理: %s - %s", title, author)

	var chapters []domain.Chapter
	chapterNum := 0

	for _, item := range p.documents() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := p.read(item)
		if err != nil {
			logger.Warn("skipping %s: %v", item.Href, err)
			continue
		}

		text := html.ToText(string(data))
		if domain.RuneCount(text) < e.minChars {
			logger.Debug("skipping %s: %d characters", item.Href, domain.RuneCount(text))
			continue
		}

		chapterTitle := e.detectHeading(text)
		if chapterTitle != "" {
			chapterNum++
		} else {
			chapterTitle = fmt.Sprintf("第%d部分", chapterNum)
		}

		chapters = append(chapters, domain.Chapter{
			Number:     chapterNum,
			Title:      chapterTitle,
			Content:    text,
			WordCount:  domain.RuneCount(text),
			FileName:   item.Href,
			BookTitle:  title,
			BookAuthor: author,
		})
	}

	logger.Info("成功提取 %d 个章节", len(chapters))
	return domain.NewBook(title, author, chapters), nil
}

// detectHeading returns the first of the leading lines matching the heading pattern.
func (e *Extractor) detectHeading(text string) string {
	lines := strings.SplitN(text, "\n", e.headingLines+1)
	if len(lines) > e.headingLines {
		lines = lines[:e.headingLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if e.heading.MatchString(line) {
			return line
		}
	}
	return ""
}
