package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidContainer indicates the e-book file is not a readable EPUB.
	ErrInvalidContainer = errors.New("invalid e-book container")

	// ErrNoChapters indicates extraction produced no usable chapters.
	ErrNoChapters = errors.New("no chapters extracted")

	// ErrCollectionNotFound indicates the vector collection has not been created.
	// Retrieval must fail loudly when the index phase has not run.
	ErrCollectionNotFound = errors.New("vector collection not found")

	// ErrDimensionMismatch indicates an embedding of unexpected length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoContext indicates no chapter produced passages above the similarity threshold.
	ErrNoContext = errors.New("no chapter context above threshold")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store could not be opened.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrUnsupportedType indicates an unknown provider or processor name.
	ErrUnsupportedType = errors.New("unsupported type")
)
