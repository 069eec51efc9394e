package domain

import "unicode/utf8"

// Fallback metadata used when the container carries no Dublin Core values.
const (
	UnknownBookTitle  = "未知书名"
	UnknownBookAuthor = "未知作者"
)

// Chapter is one container item's cleaned text.
// Chapters are created once per extraction pass and never modified.
type Chapter struct {
	// Number is the running chapter counter. It only advances on a detected
	// heading, so items before the first heading carry 0.
	Number int `json:"chapter_num"`

	// Title is the detected heading line, or a generated part label.
	Title string `json:"chapter_title"`

	// Content is the cleaned chapter text.
	Content string `json:"content"`

	// WordCount is the number of characters (runes) in Content.
	WordCount int `json:"word_count"`

	// FileName is the container item the chapter came from.
	FileName string `json:"file_name"`

	// BookTitle is the title of the owning book.
	BookTitle string `json:"book_title"`

	// BookAuthor is the author of the owning book.
	BookAuthor string `json:"book_author"`
}

// BookInfo summarises an extracted book.
type BookInfo struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	TotalChapters int    `json:"total_chapters"`
	TotalWords    int    `json:"total_words"`
}

// Book is the serialised form of an extraction pass.
type Book struct {
	Info     BookInfo  `json:"book_info"`
	Chapters []Chapter `json:"chapters"`
}

// NewBook assembles a Book and derives its totals from the chapters.
func NewBook(title, author string, chapters []Chapter) *Book {
	if title == "" {
		title = UnknownBookTitle
	}
	if author == "" {
		author = UnknownBookAuthor
	}

	total := 0
	for i := range chapters {
		total += chapters[i].WordCount
	}

	if chapters == nil {
		chapters = []Chapter{}
	}

	return &Book{
		Info: BookInfo{
			Title:         title,
			Author:        author,
			TotalChapters: len(chapters),
			TotalWords:    total,
		},
		Chapters: chapters,
	}
}

// RuneCount returns the character count used for word_count fields.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most limit runes, appending "..." when cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
