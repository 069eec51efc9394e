// Package messages defines Bubbletea message types for the browse TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// SearchRequested is a command to run a similarity search.
type SearchRequested struct {
	Query string
	K     int
}

// SearchCompleted carries retrieval results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.RetrievalResult
	Err     error
}

// PassageSelected opens a retrieved passage in the passage view.
type PassageSelected struct {
	Result domain.RetrievalResult
}

// ChaptersLoaded carries the chapters mentioning a character.
type ChaptersLoaded struct {
	Character string
	Chapters  []domain.ChapterMatch
	Err       error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the query input and results view.
	ViewSearch
	// ViewPassage shows one retrieved passage in full.
	ViewPassage
	// ViewChapters lists the chapters mentioning a character.
	ViewChapters
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewPassage:
		return "passage"
	case ViewChapters:
		return "chapters"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
