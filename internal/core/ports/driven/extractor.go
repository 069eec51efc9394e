package driven

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// BookExtractor reads an e-book container into ordered chapters.
type BookExtractor interface {
	// Extract parses the container at path. A container without any
	// qualifying items yields a Book with no chapters, not an error.
	Extract(ctx context.Context, path string) (*domain.Book, error)
}
