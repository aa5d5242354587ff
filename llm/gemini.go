package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	defaultGeminiModel          = "gemini-1.5-pro"
	defaultGeminiEmbeddingModel = "text-embedding-004"
)

// GeminiClient talks to the Gemini API through the generative-ai-go SDK.
// It has no speech-to-text support.
type GeminiClient struct {
	client         *genai.Client
	model          string
	embeddingModel string
	temperature    float32
}

// NewGeminiClient creates a Gemini-backed client
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultGeminiEmbeddingModel
	}

	return &GeminiClient{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
		temperature:    float32(cfg.Temperature),
	}, nil
}

// Complete replays the conversation as chat history and sends the final user message
func (c *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	system, history, last, err := splitGeminiMessages(messages)
	if err != nil {
		return "", err
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	session := model.StartChat()
	session.History = history

	start := time.Now()
	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var builder strings.Builder
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			slog.WarnContext(ctx, "gemini candidate finished early", "candidate", i, "finish_reason", candidate.FinishReason.String())
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}

	slog.DebugContext(ctx, "llm chat completed",
		"provider", ProviderGemini,
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"candidates", len(resp.Candidates))

	content := strings.TrimSpace(builder.String())
	if content == "" {
		return "", fmt.Errorf("gemini generate: %w", ErrEmptyResponse)
	}
	return content, nil
}

// Embed returns the embedding vector for text
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float64, error) {
	em := c.client.EmbeddingModel(c.embeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embedding: %w", ErrEmptyResponse)
	}

	values := make([]float64, len(res.Embedding.Values))
	for i, v := range res.Embedding.Values {
		values[i] = float64(v)
	}
	return values, nil
}

func (c *GeminiClient) Model() string {
	return c.model
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// splitGeminiMessages maps the role-tagged conversation onto Gemini's system
// instruction, chat history and the message to send. The last message must
// come from the user.
func splitGeminiMessages(messages []Message) (string, []*genai.Content, string, error) {
	if len(messages) == 0 {
		return "", nil, "", errors.New("gemini: no messages")
	}
	last := messages[len(messages)-1]
	if last.Role != RoleUser {
		return "", nil, "", fmt.Errorf("gemini: last message must have role %q, got %q", RoleUser, last.Role)
	}

	var system []string
	var history []*genai.Content
	for _, msg := range messages[:len(messages)-1] {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(msg.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(msg.Content)}})
		}
	}

	return strings.Join(system, "\n\n"), history, last.Content, nil
}
