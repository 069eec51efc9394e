package driven

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// VectorStore persists named collections of embeddings with metadata and
// raw text, and answers nearest-neighbour queries by cosine distance.
//
// Concurrent writers to the same store are not supported.
type VectorStore interface {
	// CreateCollection ensures the collection exists. With reset, any
	// existing collection and its entries are dropped first.
	CreateCollection(ctx context.Context, name string, metadata map[string]any, reset bool) error

	// DeleteCollection drops a collection and its entries.
	// Returns domain.ErrCollectionNotFound if it does not exist.
	DeleteCollection(ctx context.Context, name string) error

	// Collection returns the collection description.
	// Returns domain.ErrCollectionNotFound if it does not exist.
	Collection(ctx context.Context, name string) (*domain.CollectionInfo, error)

	// Upsert inserts or replaces entries by ID. All entries are written or none.
	Upsert(ctx context.Context, name string, entries []domain.VectorEntry) error

	// Query returns at most k entries ordered by ascending cosine distance.
	// Returns domain.ErrCollectionNotFound if the collection does not exist.
	Query(ctx context.Context, name string, vector []float32, k int) ([]domain.RetrievalResult, error)

	// Count returns the number of entries in the collection.
	Count(ctx context.Context, name string) (int, error)

	// Peek returns up to limit entries in insertion order.
	Peek(ctx context.Context, name string, limit int) ([]domain.RetrievalResult, error)

	// Location describes where the store keeps its data.
	Location() string

	// Close releases resources.
	Close() error
}
