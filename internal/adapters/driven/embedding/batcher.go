// Package embedding wraps an embedding provider with batching, rate limiting
// and L2 normalisation. The provider adapters live in the ollama and openai
// subpackages.
package embedding

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/logger"
	"github.com/custodia-labs/novelrag/internal/vectormath"
)

// DefaultBatchSize is the number of texts sent per provider request.
const DefaultBatchSize = 32

// Ensure Batcher implements the interfaces.
var (
	_ driven.EmbeddingService = (*Batcher)(nil)
	_ driven.BatchEmbedder    = (*Batcher)(nil)
)

// Batcher splits large inputs into provider-sized batches and returns
// unit-length vectors in input order.
type Batcher struct {
	driven.EmbeddingService

	batchSize int
	limiter   *rate.Limiter
}

// Option configures a Batcher.
type Option func(*Batcher)

// WithBatchSize sets the number of texts per request.
func WithBatchSize(n int) Option {
	return func(b *Batcher) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithRateLimit throttles batch requests to rps per second. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(b *Batcher) {
		if rps > 0 {
			b.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			b.limiter = nil
		}
	}
}

// NewBatcher wraps svc.
func NewBatcher(svc driven.EmbeddingService, opts ...Option) *Batcher {
	b := &Batcher{
		EmbeddingService: svc,
		batchSize:        DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Embed returns the normalised embedding of a single text.
func (b *Batcher) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := b.embed(ctx, []string{text}, false)
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch embeds texts without progress logging.
func (b *Batcher) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return b.embed(ctx, texts, false)
}

// EmbedAll embeds texts batch by batch, logging progress after each batch.
// Any batch failure aborts the whole call.
func (b *Batcher) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	return b.embed(ctx, texts, true)
}

func (b *Batcher) embed(ctx context.Context, texts []string, progress bool) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))

		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting for rate limiter: %w", err)
			}
		} else if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := b.EmbeddingService.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedding texts %d-%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedding texts %d-%d: got %d vectors", start, end-1, len(batch))
		}

		for _, vec := range batch {
			out = append(out, vectormath.Normalize(vec))
		}

		if progress {
			logger.Info("已处理 %d/%d 个文本", end, len(texts))
		}
	}
	return out, nil
}
