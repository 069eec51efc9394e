package driven

import "context"

// LLMService provides chat completion for report synthesis.
// This is an optional service - when nil, analysis falls back to excerpts.
type LLMService interface {
	// Chat sends one conversation and returns the assistant's reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
// Unset fields leave the provider's configured defaults in place.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero is unset.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	// Nil is unset; a pointer to zero requests deterministic output.
	Temperature *float64
}
