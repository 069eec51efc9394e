package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOpenRouter is the OpenRouter chat-completion gateway.
	AIProviderOpenRouter AIProvider = "openrouter"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderOpenRouter:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenRouter
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible endpoint"
	case AIProviderOpenRouter:
		return "OpenRouter (cloud)"
	default:
		return unknownDescription
	}
}

// OpenRouterKeyPrefix is the expected prefix of OpenRouter API keys.
//
//nolint:gosec // G101: key prefix, not a credential.
const OpenRouterKeyPrefix = "sk-or-"

// BookSettings identifies the novel being processed.
type BookSettings struct {
	// Key names the intermediate files (processed_<key>.json).
	Key string

	// EPUBPath is the default e-book container path.
	EPUBPath string
}

// PathSettings locates pipeline artefacts.
type PathSettings struct {
	// ProcessedDir holds processed_<key>.json.
	ProcessedDir string

	// ChunksDir holds <key>_chunks.json.
	ChunksDir string

	// Report is the analysis output file.
	Report string
}

// ProcessedBookPath returns the extraction output path for a book key.
func (p PathSettings) ProcessedBookPath(key string) string {
	return filepath.Join(p.ProcessedDir, fmt.Sprintf("processed_%s.json", key))
}

// ChunksPath returns the chunk file path for a book key.
func (p PathSettings) ChunksPath(key string) string {
	return filepath.Join(p.ChunksDir, key+"_chunks.json")
}

// ChunkingSettings configures the window chunker.
type ChunkingSettings struct {
	// Size is the window length in characters.
	Size int

	// Overlap is the number of characters shared with the previous window.
	Overlap int

	// MinLength drops a chapter's trailing window shorter than this.
	MinLength int

	// Terminators are the sentence-final marks a window may end on.
	Terminators string

	// Vocabulary is the name list the tagger looks for.
	Vocabulary []string

	// Processors lists post-processors in pipeline order.
	Processors []string
}

// Validate checks the chunking parameters are usable.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap must be in [0, %d)", ErrInvalidInput, c.Size)
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Dimensions is the vector size produced by Model.
	Dimensions int

	// BatchSize is the number of texts per embedding request.
	BatchSize int

	// RequestsPerSecond throttles batch requests. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid() && e.Provider != AIProviderOpenRouter && e.Model != ""
}

// VectorSettings locates the persistent vector collection.
type VectorSettings struct {
	// PersistDir is the directory holding the vector database.
	PersistDir string

	// Collection is the collection name.
	Collection string
}

// LLMSettings holds chat-completion configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the chat model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the bearer credential.
	APIKey string

	Temperature float64
	MaxTokens   int

	// Referer and Title are sent as OpenRouter attribution headers.
	Referer string
	Title   string

	// MaxRetries is passed to the client. Zero means a single attempt.
	MaxRetries int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// HasValidKeyFormat reports whether the API key carries the provider's prefix.
func (l LLMSettings) HasValidKeyFormat() bool {
	if l.Provider != AIProviderOpenRouter {
		return l.APIKey != ""
	}
	return strings.HasPrefix(l.APIKey, OpenRouterKeyPrefix)
}

// AnalysisSettings configures the chapter-focused analyzer.
type AnalysisSettings struct {
	// Character is the default analysed name.
	Character string

	// TopK is the number of results requested per query.
	TopK int

	// Threshold is the exclusive lower bound on similarity.
	Threshold float64

	// QueryTemplates are fmt templates taking (chapter number, character).
	QueryTemplates []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Book      BookSettings
	Paths     PathSettings
	Chunking  ChunkingSettings
	Embedding EmbeddingSettings
	Vector    VectorSettings
	LLM       LLMSettings
	Analysis  AnalysisSettings
}

// DefaultQueryTemplates are the per-chapter analysis queries.
// Each template receives the chapter number then the character name.
func DefaultQueryTemplates() []string {
	return []string{
		"第%[1]d章%[2]s做了什么",
		"第%[1]d章%[2]s的行为",
		"第%[1]d章%[2]s的经历",
		"%[2]s在第%[1]d章的活动",
	}
}

// SmokeTestQueries are run after indexing to sanity-check retrieval.
func SmokeTestQueries() []string {
	return []string{
		"祥子做了什么",
		"祥子的车怎么了",
		"虎妞和祥子的关系",
		"祥子的梦想是什么",
		"骆驼的故事",
	}
}

// DefaultAppSettings returns settings matching the reference pipeline.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Book: BookSettings{
			Key:      "luotuoxiangzi",
			EPUBPath: "骆驼祥子（作家榜经典文库）.epub",
		},
		Paths: PathSettings{
			ProcessedDir: ".",
			ChunksDir:    filepath.Join("data", "processed"),
			Report:       "xiangzi_behavior_analysis.txt",
		},
		Chunking: ChunkingSettings{
			Size:        400,
			Overlap:     80,
			MinLength:   50,
			Terminators: "。！？",
			Vocabulary:  append([]string(nil), CharacterVocabulary...),
			Processors:  []string{"chunker", "tagger"},
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "quentinz/bge-small-zh-v1.5",
			BaseURL:    "http://localhost:11434",
			Dimensions: 512,
			BatchSize:  32,
		},
		Vector: VectorSettings{
			PersistDir: "./vector_db",
			Collection: "luotuo_xiangzi_collection",
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenRouter,
			Model:       "google/gemini-2.5-pro",
			BaseURL:     "https://openrouter.ai/api/v1",
			Temperature: 0.7,
			MaxTokens:   3000,
			Referer:     "http://localhost:8000",
			Title:       "RAG QA System",
		},
		Analysis: AnalysisSettings{
			Character:      "祥子",
			TopK:           3,
			Threshold:      0.3,
			QueryTemplates: DefaultQueryTemplates(),
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"quentinz/bge-small-zh-v1.5": 512,
		"BAAI/bge-small-zh-v1.5":     512,
		"BAAI/bge-base-zh-v1.5":      768,
		"BAAI/bge-large-zh-v1.5":     1024,
		"BAAI/bge-m3":                1024,
		"bge-m3":                     1024,
	}
}
