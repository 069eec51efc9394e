package driving

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// IndexingService runs the offline half of the pipeline:
// e-book to processed JSON, processed JSON to chunks, chunks to vectors.
type IndexingService interface {
	// ProcessBook extracts chapters from the e-book and writes the processed book file.
	ProcessBook(ctx context.Context, epubPath string) (*domain.Book, error)

	// BuildChunks reads the processed book file and writes the chunk file.
	BuildChunks(ctx context.Context) ([]domain.Chunk, error)

	// IndexChunks embeds the chunk file into the vector collection.
	// With reset, the collection is dropped and recreated first.
	IndexChunks(ctx context.Context, reset bool) (*domain.IndexStats, error)

	// Index embeds the given chunks into the vector collection.
	Index(ctx context.Context, chunks []domain.Chunk, reset bool) (*domain.IndexStats, error)

	// Drop deletes the vector collection and all of its entries.
	Drop(ctx context.Context) error

	// Run indexes the chunk file, then runs the smoke-test queries.
	Run(ctx context.Context, reset bool) (*domain.IndexStats, []domain.QueryResults, error)
}
