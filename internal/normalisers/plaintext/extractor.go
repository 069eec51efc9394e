package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/logger"
	"github.com/custodia-labs/novelrag/internal/normalisers/epub"
)

// Ensure Extractor implements the interface.
var _ driven.BookExtractor = (*Extractor)(nil)

// maxHeadingRunes bounds heading lines so prose mentioning 第三章 is not a split point.
const maxHeadingRunes = 40

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor reads plain-text novels into chapters.
type Extractor struct {
	minChars int
	heading  *regexp.Regexp
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinChars sets the minimum section length for a chapter.
func WithMinChars(n int) Option {
	return func(e *Extractor) {
		if n >= 0 {
			e.minChars = n
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

// New creates a plain-text extractor sharing the EPUB heading rules.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		minChars: epub.DefaultMinChars,
		heading:  epub.DefaultHeadingPattern,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads the text file at path and returns its chapters.
// The book title is taken from the file name.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening e-book: %w", err)
	}

	text, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidContainer, err)
	}

	return e.ExtractText(ctx, titleFromPath(path), filepath.Base(path), text)
}

// ExtractText splits already decoded text into chapters.
func (e *Extractor) ExtractText(ctx context.Context, title, fileName, text string) (*domain.Book, error) {
	if title == "" {
		title = domain.UnknownBookTitle
	}
	author := domain.UnknownBookAuthor
	logger.Info("正在处理: %s - %s", title, author)

	var chapters []domain.Chapter
	chapterNum := 0

	for _, sec := range e.split(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content := strings.TrimSpace(sec.body)
		if domain.RuneCount(content) < e.minChars {
			logger.Debug("skipping section %q: %d characters", sec.heading, domain.RuneCount(content))
			continue
		}

		chapterTitle := sec.heading
		if chapterTitle != "" {
			chapterNum++
		} else {
			chapterTitle = fmt.Sprintf("第%d部分", chapterNum)
		}

		chapters = append(chapters, domain.Chapter{
			Number:     chapterNum,
			Title:      chapterTitle,
			Content:    content,
			WordCount:  domain.RuneCount(content),
			FileName:   fileName,
			BookTitle:  title,
			BookAuthor: author,
		})
	}

	logger.Info("成功提取 %d 个章节", len(chapters))
	return domain.NewBook(title, author, chapters), nil
}

type section struct {
	heading string
	body    string
}

// split cuts text at heading lines. The heading line stays in its section body.
func (e *Extractor) split(text string) []section {
	var (
		sections []section
		current  section
		body     strings.Builder
	)

	flush := func() {
		current.body = body.String()
		if strings.TrimSpace(current.body) != "" {
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if h := e.headingOf(line); h != "" {
			flush()
			current = section{heading: h}
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()

	return sections
}

// headingOf returns the trimmed line when it opens with a chapter heading.
func (e *Extractor) headingOf(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || domain.RuneCount(line) > maxHeadingRunes {
		return ""
	}
	loc := e.heading.FindStringIndex(line)
	if loc == nil || loc[0] != 0 {
		return ""
	}
	return line
}

// decode returns UTF-8 text, converting GB18030 input and normalising line endings.
func decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decoding GB18030: %w", err)
		}
		data = decoded
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

// titleFromPath derives a title from the file name, dropping the extension
// and the 《》 brackets common in shared novel files.
func titleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimPrefix(name, "《")
	if i := strings.Index(name, "》"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
