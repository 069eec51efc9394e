package epub

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

type testDoc struct {
	href      string
	mediaType string
	body      string
}

// buildEPUB assembles a minimal EPUB archive in memory.
func buildEPUB(t *testing.T, title, author string, docs []testDoc) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	write("mimetype", "application/epub+zip")
	write(containerPath, `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)

	var meta, manifest strings.Builder
	if title != "" {
		fmt.Fprintf(&meta, "<dc:title>%s</dc:title>", title)
	}
	if author != "" {
		fmt.Fprintf(&meta, "<dc:creator>%s</dc:creator>", author)
	}
	for i, d := range docs {
		mt := d.mediaType
		if mt == "" {
			mt = "application/xhtml+xml"
		}
		fmt.Fprintf(&manifest, `<item id="item%d" href="%s" media-type="%s"/>`, i, d.href, mt)
		write("OEBPS/"+d.href, d.body)
	}

	write("OEBPS/content.opf", fmt.Sprintf(`<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">%s</metadata>
  <manifest>%s</manifest>
</package>`, meta.String(), manifest.String()))

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func xhtml(lines ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><html><head><title>t</title></head><body>`)
	for _, l := range lines {
		b.WriteString("<p>" + l + "</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func longText(seed string) string {
	return strings.Repeat(seed, 60)
}

func extract(t *testing.T, data []byte) *domain.Book {
	t.Helper()
	book, err := New().ExtractFrom(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return book
}

func TestExtract_ChaptersAndMetadata(t *testing.T) {
	data := buildEPUB(t, "骆驼祥子", "老舍", []testDoc{
		{href: "Text/ch1.xhtml", body: xhtml("第一章", longText("祥子拉车。"))},
		{href: "Text/ch2.xhtml", body: xhtml("第二回 逃", longText("虎妞笑了。"))},
	})

	book := extract(t, data)

	require.Len(t, book.Chapters, 2)
	assert.Equal(t, "骆驼祥子", book.Info.Title)
	assert.Equal(t, "老舍", book.Info.Author)
	assert.Equal(t, 2, book.Info.TotalChapters)

	first := book.Chapters[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, "第一章", first.Title)
	assert.Equal(t, "Text/ch1.xhtml", first.FileName)
	assert.Equal(t, "骆驼祥子", first.BookTitle)
	assert.Equal(t, domain.RuneCount(first.Content), first.WordCount)

	assert.Equal(t, 2, book.Chapters[1].Number)
	assert.Equal(t, "第二回 逃", book.Chapters[1].Title)
	assert.Equal(t, first.WordCount+book.Chapters[1].WordCount, book.Info.TotalWords)
}

func TestExtract_SkipsShortDocuments(t *testing.T) {
	data := buildEPUB(t, "书", "人", []testDoc{
		{href: "cover.xhtml", body: xhtml("封面")},
		{href: "ch1.xhtml", body: xhtml("第1章", longText("祥子。"))},
	})

	book := extract(t, data)

	require.Len(t, book.Chapters, 1)
	assert.Equal(t, "ch1.xhtml", book.Chapters[0].FileName)
}

func TestExtract_NoHeadingUsesPartLabel(t *testing.T) {
	data := buildEPUB(t, "书", "人", []testDoc{
		{href: "preface.xhtml", body: xhtml(longText("序言。"))},
		{href: "ch1.xhtml", body: xhtml("第一章", longText("祥子。"))},
		{href: "ch1b.xhtml", body: xhtml(longText("续。"))},
	})

	book := extract(t, data)

	require.Len(t, book.Chapters, 3)
	assert.Equal(t, 0, book.Chapters[0].Number)
	assert.Equal(t, "第0部分", book.Chapters[0].Title)
	assert.Equal(t, 1, book.Chapters[1].Number)
	assert.Equal(t, 1, book.Chapters[2].Number)
	assert.Equal(t, "第1部分", book.Chapters[2].Title)
}

func TestExtract_HeadingOnlyInFirstLines(t *testing.T) {
	lines := []string{"一", "二", "三", "四", "五", "第六章", longText("祥子。")}
	data := buildEPUB(t, "书", "人", []testDoc{{href: "ch.xhtml", body: xhtml(lines...)}})

	book := extract(t, data)

	require.Len(t, book.Chapters, 1)
	assert.Equal(t, 0, book.Chapters[0].Number)
	assert.Equal(t, "第0部分", book.Chapters[0].Title)
}

func TestExtract_IgnoresNonDocumentItems(t *testing.T) {
	data := buildEPUB(t, "书", "人", []testDoc{
		{href: "style.css", mediaType: "text/css", body: longText("p{margin:0}")},
		{href: "ch1.xhtml", body: xhtml("第一章", longText("祥子。"))},
	})

	book := extract(t, data)

	require.Len(t, book.Chapters, 1)
}

func TestExtract_DefaultsMissingMetadata(t *testing.T) {
	data := buildEPUB(t, "", "", []testDoc{{href: "ch1.xhtml", body: xhtml("第一章", longText("祥子。"))}})

	book := extract(t, data)

	assert.Equal(t, domain.UnknownBookTitle, book.Info.Title)
	assert.Equal(t, domain.UnknownBookAuthor, book.Chapters[0].BookAuthor)
}

func TestExtract_EmptyBookIsNotAnError(t *testing.T) {
	data := buildEPUB(t, "书", "人", nil)

	book := extract(t, data)

	assert.Empty(t, book.Chapters)
	assert.Zero(t, book.Info.TotalChapters)
}

func TestExtract_InvalidContainer(t *testing.T) {
	data := []byte("not a zip file")

	_, err := New().ExtractFrom(context.Background(), bytes.NewReader(data), int64(len(data)))

	assert.ErrorIs(t, err, domain.ErrInvalidContainer)
}

func TestExtract_MissingContainerXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("mimetype")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = New().ExtractFrom(context.Background(), bytes.NewReader(buf.Bytes()), int64(buf.Len()))

	assert.ErrorIs(t, err, domain.ErrInvalidContainer)
}

func TestExtract_FromFile(t *testing.T) {
	data := buildEPUB(t, "骆驼祥子", "老舍", []testDoc{{href: "ch1.xhtml", body: xhtml("第一章", longText("祥子。"))}})
	path := filepath.Join(t.TempDir(), "book.epub")
	require.NoError(t, os.WriteFile(path, data, 0600))

	book, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Len(t, book.Chapters, 1)
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.epub"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_CancelledContext(t *testing.T) {
	data := buildEPUB(t, "书", "人", []testDoc{{href: "ch1.xhtml", body: xhtml("第一章", longText("祥子。"))}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ExtractFrom(ctx, bytes.NewReader(data), int64(len(data)))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions(t *testing.T) {
	e := New(
		WithMinChars(0),
		WithHeadingLines(1),
		WithHeadingPattern(regexp.MustCompile(`^Chapter \d+`)),
	)

	assert.Equal(t, 0, e.minChars)
	assert.Equal(t, 1, e.headingLines)
	assert.Equal(t, "Chapter 7", e.detectHeading("Chapter 7\nbody"))
	assert.Equal(t, "", e.detectHeading("body\nChapter 7"))
}

func TestDetectHeading_Numerals(t *testing.T) {
	e := New()

	tests := []struct {
		line string
		want bool
	}{
		{"第一章", true},
		{"第十二回", true},
		{"第23节", true},
		{"第一百零三章", true},
		{"第一部", false},
		{"祥子", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := e.detectHeading(tt.line)
			if tt.want {
				assert.Equal(t, tt.line, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}
