// Package text fits and wraps strings by terminal cell width.
// CJK runes occupy two cells, so byte or rune counts overflow the screen.
package text

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const ellipsis = "..."

// Fit cuts s to at most width cells, appending an ellipsis when cut.
// Newlines are flattened to spaces.
func Fit(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}

	limit := width - len(ellipsis)
	if limit < 1 {
		return ellipsis[:width]
	}

	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > limit {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + ellipsis
}

// Wrap splits s into lines no wider than width cells.
// Existing line breaks are kept; blank lines survive as empty strings.
func Wrap(s string, width int) []string {
	if s == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, raw := range strings.Split(s, "\n") {
		var b strings.Builder
		used := 0
		for _, r := range raw {
			w := lipgloss.Width(string(r))
			if used+w > width && used > 0 {
				lines = append(lines, b.String())
				b.Reset()
				used = 0
			}
			b.WriteRune(r)
			used += w
		}
		lines = append(lines, b.String())
	}
	return lines
}
