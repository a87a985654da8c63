package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prepgrid/interview-practice/domain"
)

const httpTimeout = 30 * time.Second

// GroqHTTPClient is the secondary transport: a direct POST to Groq's
// chat-completions endpoint with no SDK in between.
type GroqHTTPClient struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

func NewGroqHTTPClient(apiKey, model, url string) *GroqHTTPClient {
	return &GroqHTTPClient{
		apiKey:     apiKey,
		model:      model,
		url:        url,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (g *GroqHTTPClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxCompletionTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", &domain.APIError{Provider: "groq", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return "", &domain.APIError{Provider: "groq", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &domain.APIError{Provider: "groq", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.APIError{Provider: "groq", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &domain.AuthError{
			Provider: "groq",
			Err:      fmt.Errorf("status %d, check your GROQ_API_KEY: %s", resp.StatusCode, truncate(body)),
		}
	case resp.StatusCode >= 400:
		return "", &domain.APIError{
			Provider: "groq",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body)),
		}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &domain.APIError{Provider: "groq", Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return "", &domain.APIError{Provider: "groq", Err: fmt.Errorf("response contained no choices")}
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func truncate(body []byte) string {
	const max = 256
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
