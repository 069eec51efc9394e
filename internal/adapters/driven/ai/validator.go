package ai

import (
	"fmt"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks AI provider configurations against the live services.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM checks the API key format before pinging the provider.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}
	if config.Provider == domain.AIProviderOpenRouter && !config.HasValidKeyFormat() {
		return fmt.Errorf("%w: OpenRouter keys start with %q",
			domain.ErrInvalidInput, domain.OpenRouterKeyPrefix)
	}
	return ValidateLLMConfig(config)
}
