package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - Ollama (bge-small-zh, bge-m3)
//   - OpenAI-compatible inference servers (text-embeddings-inference)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (512 for bge-small-zh-v1.5).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// BatchEmbedder embeds whole corpora with normalised output.
// The pipeline services depend on this rather than on a raw provider.
type BatchEmbedder interface {
	// Embed returns the unit-length embedding of a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedAll embeds texts in batches, preserving order and logging progress.
	EmbedAll(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
