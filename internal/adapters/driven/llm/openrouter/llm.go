// Package openrouter provides an LLM service adapter for OpenAI-compatible
// chat-completion gateways, OpenRouter by default, built on openai-go.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultModel       = "google/gemini-2.5-pro"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 3000
)

// OpenRouter attribution headers.
const (
	HeaderReferer = "HTTP-Referer"
	HeaderTitle   = "X-Title"
)

// Config holds configuration for the chat-completion service.
type Config struct {
	// APIKey is the bearer credential (required).
	APIKey string

	// BaseURL is the API base URL (default: https://openrouter.ai/api/v1).
	BaseURL string

	// Model is the chat model (default: google/gemini-2.5-pro).
	Model string

	// Temperature and MaxTokens apply when a call leaves them unset.
	// A nil Temperature uses DefaultTemperature.
	Temperature *float64
	MaxTokens   int

	// Referer and Title are sent as attribution headers when non-empty.
	Referer string
	Title   string

	// MaxRetries is the number of client retries. Zero means a single attempt.
	MaxRetries int

	// Timeout bounds each request. Zero leaves the client default.
	Timeout time.Duration
}

// LLMService sends chat completions through openai-go.
type LLMService struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewLLMService creates a new chat-completion service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", domain.ErrLLMUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader(HeaderReferer, cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader(HeaderTitle, cfg.Title))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &LLMService{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Chat sends the conversation and returns the first choice's content.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: no messages", domain.ErrInvalidInput)
	}

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			params = append(params, openai.SystemMessage(msg.Content))
		case driven.RoleUser:
			params = append(params, openai.UserMessage(msg.Content))
		case driven.RoleAssistant:
			params = append(params, openai.AssistantMessage(msg.Content))
		default:
			return "", fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, msg.Role)
		}
	}

	temperature := s.temperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := s.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	res, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       s.model,
		Messages:    params,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion (status %d): %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", errors.New("chat completion: no choices returned")
	}

	return res.Choices[0].Message.Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the gateway is reachable by listing models.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openrouter: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
