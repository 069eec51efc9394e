package driven

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// PostProcessor turns chapter text into chunks or refines existing chunks.
// PostProcessors are chained in a pipeline (chunking, then tagging).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a chapter and returns chunks.
	// A processor that creates chunks (the chunker) receives nil.
	// A processor that refines chunks (the tagger) receives and returns them.
	Process(ctx context.Context, chapter *domain.Chapter, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the chapter through all processors in order.
	Process(ctx context.Context, chapter *domain.Chapter) ([]domain.Chunk, error)
}
