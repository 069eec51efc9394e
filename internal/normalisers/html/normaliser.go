package html

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for markup stripping.
var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	xmlDecl           = regexp.MustCompile(`(?s)<\?.*?\?>|<!DOCTYPE[^>]*>`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
)

// Artefact patterns applied after markup is gone.
var (
	// Horizontal whitespace including ideographic and no-break spaces.
	multiSpaces   = regexp.MustCompile(`[ \t\r\f\v\x{3000}\x{00a0}]+`)
	pageNumbers   = regexp.MustCompile(`第\s*\d+\s*页`)
	urls          = regexp.MustCompile(`www\.\w+\.\w+`)
	quoteReplacer = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
)

// ToText strips markup and artefacts, returning one trimmed line per block.
func ToText(markup string) string {
	return CleanText(stripHTML(markup))
}

// CleanText collapses whitespace within lines, removes page-number and URL
// artefacts, normalises curly quotes and drops empty lines.
func CleanText(text string) string {
	text = pageNumbers.ReplaceAllString(text, "")
	text = urls.ReplaceAllString(text, "")
	text = quoteReplacer.Replace(text)

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	content = xmlDecl.ReplaceAllString(content, "")
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Keep block structure as line breaks so headings stay on their own line
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")

	return html.UnescapeString(content)
}
