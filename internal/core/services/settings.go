package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvOpenRouterKey overrides llm.api_key when set.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvOpenRouterKey = "OPENROUTER_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBookKey  = "book.key"
	keyBookEPUB = "book.epub"

	keyPathsProcessed = "paths.processed_dir"
	keyPathsChunks    = "paths.chunks_dir"
	keyPathsReport    = "paths.report"

	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyChunkMinLength   = "chunking.min_length"
	keyChunkTerminators = "chunking.terminators"
	keyChunkVocabulary  = "chunking.vocabulary"
	keyChunkProcessors  = "chunking.processors"

	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedDims      = "embedding.dimensions"
	keyEmbedBatchSize = "embedding.batch_size"
	keyEmbedRate      = "embedding.rate"

	keyVectorDir        = "vector.persist_dir"
	keyVectorCollection = "vector.collection"

	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMTemperature = "llm.temperature"
	keyLLMMaxTokens   = "llm.max_tokens"
	keyLLMReferer     = "llm.referer"
	keyLLMTitle       = "llm.title"
	keyLLMMaxRetries  = "llm.max_retries"

	keyAnalysisCharacter = "analysis.character"
	keyAnalysisK         = "analysis.k"
	keyAnalysisThreshold = "analysis.threshold"
	keyAnalysisQueries   = "analysis.queries"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindProvider
	kindList
	kindSecret
)

// settingKeys lists every recognised key in display order.
var settingKeys = []struct {
	key  string
	kind valueKind
	get  func(*domain.AppSettings) any
}{
	{keyBookKey, kindString, func(s *domain.AppSettings) any { return s.Book.Key }},
	{keyBookEPUB, kindString, func(s *domain.AppSettings) any { return s.Book.EPUBPath }},
	{keyPathsProcessed, kindString, func(s *domain.AppSettings) any { return s.Paths.ProcessedDir }},
	{keyPathsChunks, kindString, func(s *domain.AppSettings) any { return s.Paths.ChunksDir }},
	{keyPathsReport, kindString, func(s *domain.AppSettings) any { return s.Paths.Report }},
	{keyChunkSize, kindInt, func(s *domain.AppSettings) any { return s.Chunking.Size }},
	{keyChunkOverlap, kindInt, func(s *domain.AppSettings) any { return s.Chunking.Overlap }},
	{keyChunkMinLength, kindInt, func(s *domain.AppSettings) any { return s.Chunking.MinLength }},
	{keyChunkTerminators, kindString, func(s *domain.AppSettings) any { return s.Chunking.Terminators }},
	{keyChunkVocabulary, kindList, func(s *domain.AppSettings) any { return s.Chunking.Vocabulary }},
	{keyChunkProcessors, kindList, func(s *domain.AppSettings) any { return s.Chunking.Processors }},
	{keyEmbedProvider, kindProvider, func(s *domain.AppSettings) any { return s.Embedding.Provider }},
	{keyEmbedModel, kindString, func(s *domain.AppSettings) any { return s.Embedding.Model }},
	{keyEmbedBaseURL, kindString, func(s *domain.AppSettings) any { return s.Embedding.BaseURL }},
	{keyEmbedAPIKey, kindSecret, func(s *domain.AppSettings) any { return s.Embedding.APIKey }},
	{keyEmbedDims, kindInt, func(s *domain.AppSettings) any { return s.Embedding.Dimensions }},
	{keyEmbedBatchSize, kindInt, func(s *domain.AppSettings) any { return s.Embedding.BatchSize }},
	{keyEmbedRate, kindFloat, func(s *domain.AppSettings) any { return s.Embedding.RequestsPerSecond }},
	{keyVectorDir, kindString, func(s *domain.AppSettings) any { return s.Vector.PersistDir }},
	{keyVectorCollection, kindString, func(s *domain.AppSettings) any { return s.Vector.Collection }},
	{keyLLMProvider, kindProvider, func(s *domain.AppSettings) any { return s.LLM.Provider }},
	{keyLLMModel, kindString, func(s *domain.AppSettings) any { return s.LLM.Model }},
	{keyLLMBaseURL, kindString, func(s *domain.AppSettings) any { return s.LLM.BaseURL }},
	{keyLLMAPIKey, kindSecret, func(s *domain.AppSettings) any { return s.LLM.APIKey }},
	{keyLLMTemperature, kindFloat, func(s *domain.AppSettings) any { return s.LLM.Temperature }},
	{keyLLMMaxTokens, kindInt, func(s *domain.AppSettings) any { return s.LLM.MaxTokens }},
	{keyLLMReferer, kindString, func(s *domain.AppSettings) any { return s.LLM.Referer }},
	{keyLLMTitle, kindString, func(s *domain.AppSettings) any { return s.LLM.Title }},
	{keyLLMMaxRetries, kindInt, func(s *domain.AppSettings) any { return s.LLM.MaxRetries }},
	{keyAnalysisCharacter, kindString, func(s *domain.AppSettings) any { return s.Analysis.Character }},
	{keyAnalysisK, kindInt, func(s *domain.AppSettings) any { return s.Analysis.TopK }},
	{keyAnalysisThreshold, kindFloat, func(s *domain.AppSettings) any { return s.Analysis.Threshold }},
	{keyAnalysisQueries, kindList, func(s *domain.AppSettings) any { return s.Analysis.QueryTemplates }},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings with defaults applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Book: domain.BookSettings{
			Key:      s.getString(keyBookKey, defaults.Book.Key),
			EPUBPath: s.getString(keyBookEPUB, defaults.Book.EPUBPath),
		},
		Paths: domain.PathSettings{
			ProcessedDir: s.getString(keyPathsProcessed, defaults.Paths.ProcessedDir),
			ChunksDir:    s.getString(keyPathsChunks, defaults.Paths.ChunksDir),
			Report:       s.getString(keyPathsReport, defaults.Paths.Report),
		},
		Chunking: domain.ChunkingSettings{
			Size:        s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap:     s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
			MinLength:   s.getInt(keyChunkMinLength, defaults.Chunking.MinLength),
			Terminators: s.getString(keyChunkTerminators, defaults.Chunking.Terminators),
			Vocabulary:  s.getStrings(keyChunkVocabulary, defaults.Chunking.Vocabulary),
			Processors:  s.getStrings(keyChunkProcessors, defaults.Chunking.Processors),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.getString(keyEmbedBaseURL, defaults.Embedding.BaseURL),
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.getInt(keyEmbedDims, 0),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RequestsPerSecond),
		},
		Vector: domain.VectorSettings{
			PersistDir: s.getString(keyVectorDir, defaults.Vector.PersistDir),
			Collection: s.getString(keyVectorCollection, defaults.Vector.Collection),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:     s.getString(keyLLMBaseURL, defaults.LLM.BaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
			Referer:     s.getString(keyLLMReferer, defaults.LLM.Referer),
			Title:       s.getString(keyLLMTitle, defaults.LLM.Title),
			MaxRetries:  s.getInt(keyLLMMaxRetries, defaults.LLM.MaxRetries),
		},
		Analysis: domain.AnalysisSettings{
			Character:      s.getString(keyAnalysisCharacter, defaults.Analysis.Character),
			TopK:           s.getInt(keyAnalysisK, defaults.Analysis.TopK),
			Threshold:      s.getFloat(keyAnalysisThreshold, defaults.Analysis.Threshold),
			QueryTemplates: s.getStrings(keyAnalysisQueries, defaults.Analysis.QueryTemplates),
		},
	}

	// Dimensions follow the model unless pinned explicitly.
	if settings.Embedding.Dimensions == 0 {
		if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
			settings.Embedding.Dimensions = d
		} else {
			settings.Embedding.Dimensions = defaults.Embedding.Dimensions
		}
	}

	if key := strings.TrimSpace(s.getenv(EnvOpenRouterKey)); key != "" {
		settings.LLM.APIKey = key
	}

	return settings, nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := lookupKind(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseValue(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if key == keyEmbedProvider {
		if p := parsed.(string); domain.AIProvider(p) == domain.AIProviderOpenRouter {
			return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, p)
		}
	}

	if strings.HasPrefix(key, "chunking.") && kind == kindInt {
		current, err := s.Get()
		if err != nil {
			return err
		}
		chunking := current.Chunking
		switch key {
		case keyChunkSize:
			chunking.Size = parsed.(int)
		case keyChunkOverlap:
			chunking.Overlap = parsed.(int)
		}
		if err := chunking.Validate(); err != nil {
			return err
		}
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Value returns the effective value of key formatted for display.
// Secrets are masked.
func (s *SettingsService) Value(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}
	for _, k := range settingKeys {
		if k.key != key {
			continue
		}
		return formatValue(k.kind, k.get(settings)), nil
	}
	return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

// Keys returns every recognised configuration key.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getFloat treats an explicit zero as a value, unlike getInt.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func lookupKind(key string) (valueKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

func parseValue(kind valueKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", value)
		}
		if n < 0 {
			return nil, fmt.Errorf("must not be negative")
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", value)
		}
		return f, nil
	case kindProvider:
		p := domain.AIProvider(value)
		if !p.IsValid() {
			return nil, fmt.Errorf("unknown provider %q", value)
		}
		return p.String(), nil
	case kindList:
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("expected a comma-separated list")
		}
		return out, nil
	default:
		return value, nil
	}
}

func formatValue(kind valueKind, v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case domain.AIProvider:
		return val.String()
	case string:
		if kind == kindSecret {
			return maskSecret(val)
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}

// maskSecret keeps the key prefix and last four characters.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 10 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:6] + strings.Repeat("*", len(secret)-10) + secret[len(secret)-4:]
}
