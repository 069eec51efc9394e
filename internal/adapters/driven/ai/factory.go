// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/novelrag/internal/adapters/driven/embedding"
	ollamaembed "github.com/custodia-labs/novelrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/novelrag/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/novelrag/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/novelrag/internal/adapters/driven/llm/openrouter"
	"github.com/custodia-labs/novelrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/novelrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the services the pipeline needs.
type InitResult struct {
	Embedder    *embedding.Batcher
	LLMService  driven.LLMService
	VectorStore driven.VectorStore
	Warnings    []string // Non-fatal issues; analysis degrades without an LLM.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.Embedder != nil {
		r.Embedder.Close()
	}
	if r.VectorStore != nil {
		r.VectorStore.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds the embedding, vector and LLM services from settings
// without network calls. A missing or broken LLM configuration is recorded
// as a warning; embedding and vector store failures are fatal.
func Initialise(settings *domain.AppSettings, inMemory bool) (*InitResult, error) {
	result := &InitResult{}

	store, err := OpenVectorStore(&settings.Vector, inMemory)
	if err != nil {
		return nil, err
	}
	result.VectorStore = store

	svc, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		result.Close()
		return nil, fmt.Errorf("%w: provider %q is not an embedding provider",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	result.Embedder = embedding.NewBatcher(svc,
		embedding.WithBatchSize(settings.Embedding.BatchSize),
		embedding.WithRateLimit(settings.Embedding.RequestsPerSecond),
	)

	llm, err := CreateLLMService(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("LLM unavailable: %v", err))
	case llm == nil:
		result.Warnings = append(result.Warnings,
			"LLM not configured: set OPENROUTER_API_KEY or llm.api_key")
	default:
		result.LLMService = llm
	}

	return result, nil
}

// OpenVectorStore opens the sqlite store in the persist directory, or an
// empty in-memory store.
func OpenVectorStore(settings *domain.VectorSettings, inMemory bool) (driven.VectorStore, error) {
	if inMemory {
		return memory.NewVectorStore(), nil
	}
	store, err := sqlite.NewStore(settings.PersistDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	return store, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'novelrag config list' to check settings",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(context.Background(), settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(context.Background(), settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("%w: embedding provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenRouter, domain.AIProviderOpenAI:
		return createOpenRouterLLM(settings)

	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	default:
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
}

// embeddingDimensions prefers the configured size, then the known-model table.
func embeddingDimensions(settings *domain.EmbeddingSettings) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	return domain.EmbeddingDimensions()[settings.Model]
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: embeddingDimensions(settings),
	})
}

// createOpenAIEmbedding creates an OpenAI-compatible embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: embeddingDimensions(settings),
	})
}

// createOpenRouterLLM creates a chat-completion service for OpenRouter or
// any OpenAI-compatible endpoint.
func createOpenRouterLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	temperature := settings.Temperature
	return openrouter.NewLLMService(openrouter.Config{
		APIKey:      settings.APIKey,
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		Temperature: &temperature,
		MaxTokens:   settings.MaxTokens,
		Referer:     settings.Referer,
		Title:       settings.Title,
		MaxRetries:  settings.MaxRetries,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	temperature := settings.Temperature
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL:     settings.BaseURL,
		Model:       settings.Model,
		Temperature: &temperature,
		MaxTokens:   settings.MaxTokens,
	})
}
