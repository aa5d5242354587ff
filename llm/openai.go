package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIModel          = "gpt-4o"
	defaultOpenAIEmbeddingModel = "text-embedding-3-small"
	transcriptionLanguage       = "ko"
)

// OpenAIClient talks to the OpenAI API for chat completions, embeddings and
// Whisper transcription.
type OpenAIClient struct {
	client              openai.Client
	model               string
	embeddingModel      string
	embeddingDimensions int
	temperature         float64
}

// NewOpenAIClient creates an OpenAI-backed client
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are the caller's decision.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultOpenAIEmbeddingModel
	}

	return &OpenAIClient{
		client:              openai.NewClient(opts...),
		model:               model,
		embeddingModel:      embeddingModel,
		embeddingDimensions: cfg.EmbeddingDimensions,
		temperature:         cfg.Temperature,
	}, nil
}

// Complete sends the conversation to the chat completions endpoint
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    convertOpenAIMessages(messages),
		Temperature: openai.Float(c.temperature),
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: %w", ErrEmptyResponse)
	}

	slog.DebugContext(ctx, "llm chat completed",
		"provider", ProviderOpenAI,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason)

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai chat: %w", ErrEmptyResponse)
	}
	return content, nil
}

// Embed returns the embedding vector for text
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.embeddingModel),
	}
	if c.embeddingDimensions > 0 {
		params.Dimensions = openai.Int(int64(c.embeddingDimensions))
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: %w", ErrEmptyResponse)
	}
	return resp.Data[0].Embedding, nil
}

// Transcribe runs Whisper over an uploaded recording
func (c *OpenAIClient) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(audio, filename, ""),
		Model:    openai.AudioModelWhisper1,
		Language: openai.String(transcriptionLanguage),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("openai transcription: %w", ErrEmptyResponse)
	}
	return text, nil
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) Close() error {
	return nil
}

func convertOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
