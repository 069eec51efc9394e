// Package styles provides the colour palette shared by the browse TUI and CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette names the colours by their role in an ink-and-paper scheme.
type Palette struct {
	Seal     lipgloss.Color // titles and the selection background
	Ochre    lipgloss.Color // subtitles and similarity scores
	Paper    lipgloss.Color // body text
	FadedInk lipgloss.Color // hints, metadata and the status bar
	Jade     lipgloss.Color // success
	Cinnabar lipgloss.Color // errors
	Rule     lipgloss.Color // borders
	Shadow   lipgloss.Color // status bar background
}

// InkPalette is the default palette.
var InkPalette = Palette{
	Seal:     lipgloss.Color("#C0392B"),
	Ochre:    lipgloss.Color("#D4A017"),
	Paper:    lipgloss.Color("#EAE3D2"),
	FadedInk: lipgloss.Color("#8A8270"),
	Jade:     lipgloss.Color("#7FB069"),
	Cinnabar: lipgloss.Color("#E4572E"),
	Rule:     lipgloss.Color("#4A463F"),
	Shadow:   lipgloss.Color("#151412"),
}

// Styles holds the lipgloss styles the views render with.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Help     lipgloss.Style
	Score    lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
}

// NewStyles derives every style from p.
func NewStyles(p Palette) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		Title:    fg(p.Seal).Bold(true),
		Subtitle: fg(p.Ochre).Bold(true),
		Normal:   fg(p.Paper),
		Muted:    fg(p.FadedInk),
		Selected: fg(p.Paper).Background(p.Seal).Bold(true),
		Error:    fg(p.Cinnabar),
		Success:  fg(p.Jade),
		Help:     fg(p.FadedInk),
		Score:    fg(p.Ochre),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Rule).
			Padding(0, 1),
		StatusBar: fg(p.FadedInk).Background(p.Shadow).Padding(0, 1),
	}
}

// DefaultStyles returns styles built from InkPalette.
func DefaultStyles() *Styles {
	return NewStyles(InkPalette)
}
