package driving

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// RetrievalService provides similarity search over the indexed novel.
type RetrievalService interface {
	// Search returns at most k results ordered by ascending distance.
	// Fails with domain.ErrCollectionNotFound when nothing has been indexed.
	Search(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error)

	// SearchMany runs several queries, stopping at the first error.
	SearchMany(ctx context.Context, queries []string, k int) ([]domain.QueryResults, error)

	// Stats describes the vector collection.
	Stats(ctx context.Context) (*domain.CollectionStats, error)
}
