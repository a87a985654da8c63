// Package config provides application configuration from the process
// environment. Call gotenv.Load before Load so a local .env is honored.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/prepgrid/interview-practice/domain"
)

// Provider names the LLM backend the service talks to.
type Provider string

const (
	ProviderGroq   Provider = "groq"
	ProviderGemini Provider = "gemini"
)

// Config holds all application configuration.
type Config struct {
	Port string

	Provider    Provider
	GroqAPIKey  string
	GroqModel   string
	GroqHTTPURL string

	GeminiAPIKey string
	GeminiModel  string

	JWTSecret string
	APIKey    string
	APISecret string

	// EscalationThreshold is how many consecutive turns with the same
	// edge-case label trigger the directive canned redirect.
	EscalationThreshold int
}

// Load reads configuration from environment variables and fails fast with a
// *domain.ConfigError when required credentials are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Provider:            Provider(strings.ToLower(getEnv("LLM_PROVIDER", string(ProviderGroq)))),
		GroqAPIKey:          cleanSecret(os.Getenv("GROQ_API_KEY")),
		GroqModel:           getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqHTTPURL:         getEnv("GROQ_HTTP_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GeminiAPIKey:        cleanSecret(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash-001"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		APIKey:              getEnv("API_KEY", ""),
		APISecret:           getEnv("API_SECRET", ""),
		EscalationThreshold: getEnvInt("ESCALATION_THRESHOLD", 2),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that everything a session depends on is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return &domain.ConfigError{
				Field:  "GROQ_API_KEY",
				Reason: "required for question generation; add it to your environment or .env file",
			}
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return &domain.ConfigError{
				Field:  "GEMINI_API_KEY",
				Reason: "required when LLM_PROVIDER=gemini; add it to your environment or .env file",
			}
		}
	default:
		return &domain.ConfigError{
			Field:  "LLM_PROVIDER",
			Reason: "must be one of: groq, gemini",
		}
	}
	if c.JWTSecret == "" {
		return &domain.ConfigError{Field: "JWT_SECRET", Reason: "cannot be empty"}
	}
	if c.APIKey == "" || c.APISecret == "" {
		return &domain.ConfigError{Field: "API_KEY/API_SECRET", Reason: "cannot be empty"}
	}
	if c.EscalationThreshold < 1 {
		return &domain.ConfigError{Field: "ESCALATION_THRESHOLD", Reason: "must be >= 1"}
	}
	return nil
}

// cleanSecret tolerates accidental surrounding quotes and whitespace.
func cleanSecret(v string) string {
	return strings.Trim(strings.TrimSpace(v), `"'`)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
