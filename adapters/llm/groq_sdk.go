package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/prepgrid/interview-practice/domain"
)

const (
	// Groq exposes an OpenAI-compatible API, so the official OpenAI SDK
	// works against it with a swapped base URL.
	groqBaseURL = "https://api.groq.com/openai/v1"

	maxCompletionTokens = 300
	temperature         = 0.7
)

// GroqSDKClient is the primary transport: the OpenAI Go SDK pointed at
// Groq's chat-completions endpoint.
type GroqSDKClient struct {
	client openai.Client
	model  string
}

func NewGroqSDKClient(apiKey, model string) *GroqSDKClient {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(groqBaseURL),
	)
	return &GroqSDKClient{client: client, model: model}
}

func (g *GroqSDKClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(maxCompletionTokens),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", mapSDKError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &domain.APIError{Provider: "groq", Err: errors.New("response contained no choices")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func mapSDKError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == 401 || apierr.StatusCode == 403 {
			return &domain.AuthError{Provider: "groq", Err: err}
		}
	}
	return &domain.APIError{Provider: "groq", Err: err}
}
