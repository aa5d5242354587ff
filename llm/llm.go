// Package llm adapts the completion, embedding and speech-to-text services
// behind small interfaces so callers never touch a vendor SDK directly.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Roles accepted in a Message
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	ErrMissingAPIKey = errors.New("llm: API key is required")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Message is one entry of the ordered conversation sent to the completion service
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer generates text from an ordered message list
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Model() string
}

// Embedder turns text into a vector for similarity search
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Transcriber converts recorded speech to text
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Client is what every provider offers
type Client interface {
	Completer
	Embedder
	Close() error
}

// Config selects and configures a provider
type Config struct {
	Provider            string
	APIKey              string
	BaseURL             string // OpenAI-compatible endpoints only
	Model               string
	EmbeddingModel      string
	EmbeddingDimensions int
	Temperature         float64
}

// New creates the client for cfg.Provider
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Provider {
	case "", ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
