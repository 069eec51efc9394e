// Package tagger provides a post-processor that records which names from
// a fixed character vocabulary appear in each chunk.
package tagger

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// Processor tags chunks with vocabulary names found in their content.
// It implements the PostProcessor interface.
type Processor struct {
	vocabulary []string
}

// New creates a tagger. An empty vocabulary uses domain.CharacterVocabulary.
func New(vocabulary []string) *Processor {
	if len(vocabulary) == 0 {
		vocabulary = domain.CharacterVocabulary
	}
	return &Processor{vocabulary: vocabulary}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "tagger"
}

// Process sets Characters on every chunk. Chunks are modified in place.
func (p *Processor) Process(_ context.Context, _ *domain.Chapter, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range chunks {
		chunks[i].Characters = domain.FindCharacters(chunks[i].Content, p.vocabulary)
	}
	return chunks, nil
}
