package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepgrid/interview-practice/domain"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_KEY", "client")
	t.Setenv("API_SECRET", "clientsecret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGroq, cfg.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	assert.Equal(t, "https://api.groq.com/openai/v1/chat/completions", cfg.GroqHTTPURL)
	assert.Equal(t, 2, cfg.EscalationThreshold)
}

func TestLoadFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_KEY", "client")
	t.Setenv("API_SECRET", "clientsecret")

	_, err := Load()
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "GROQ_API_KEY", cfgErr.Field)
}

func TestLoadStripsQuotedSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GROQ_API_KEY", `  "gsk-quoted"  `)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gsk-quoted", cfg.GroqAPIKey)
}

func TestLoadGeminiProviderRequiresItsKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "GEMINI_API_KEY", cfgErr.Field)

	t.Setenv("GEMINI_API_KEY", "gm-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.GeminiModel)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_PROVIDER", "carrier-pigeon")

	_, err := Load()
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "LLM_PROVIDER", cfgErr.Field)
}

func TestEscalationThresholdFallsBackOnGarbage(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ESCALATION_THRESHOLD", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.EscalationThreshold)
}
