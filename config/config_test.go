package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herelaw-backend/llm"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_DATABASE", "EMBEDDING_DIMENSIONS", "LLM_TEMPERATURE",
		"JWT_EXPIRATION", "BEST_PRACTICE_TIMEOUT", "GENERATION_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "herelaw", cfg.MongoDatabase)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 1536, cfg.LLM.EmbeddingDimensions)
	assert.Equal(t, 0.3, cfg.LLM.Temperature)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 5*time.Second, cfg.BestPracticeTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Gemini(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("EMBEDDING_DIMENSIONS", "768")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, 768, cfg.LLM.EmbeddingDimensions)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BEST_PRACTICE_TIMEOUT", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "BEST_PRACTICE_TIMEOUT")
}

func TestLoadLLM_WithoutJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMBEDDING_DIMENSIONS", "")

	cfg, err := LoadLLM()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
}

func TestLoadLLM_InvalidDimensions(t *testing.T) {
	t.Setenv("EMBEDDING_DIMENSIONS", "many")
	_, err := LoadLLM()
	assert.ErrorContains(t, err, "EMBEDDING_DIMENSIONS")
}
