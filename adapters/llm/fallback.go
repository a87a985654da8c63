package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/prepgrid/interview-practice/domain"
	"github.com/prepgrid/interview-practice/utils/log"
)

// FallbackClient tries a primary transport and, on transport-level failure,
// retries exactly once on a secondary path. Authentication failures are
// never retried; there is no backoff and no caching.
type FallbackClient struct {
	primary   domain.Generator
	secondary domain.Generator
}

func NewFallbackClient(primary, secondary domain.Generator) *FallbackClient {
	return &FallbackClient{primary: primary, secondary: secondary}
}

func (f *FallbackClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, primaryErr := f.primary.Generate(ctx, prompt)
	if primaryErr == nil {
		return text, nil
	}

	var authErr *domain.AuthError
	if errors.As(primaryErr, &authErr) {
		return "", primaryErr
	}

	log.WithCtx(ctx).Warn("Primary transport failed, trying HTTP fallback", zap.Error(primaryErr))

	text, secondaryErr := f.secondary.Generate(ctx, prompt)
	if secondaryErr == nil {
		return text, nil
	}
	if errors.As(secondaryErr, &authErr) {
		return "", secondaryErr
	}
	return "", &domain.APIError{
		Provider: "groq",
		Err:      fmt.Errorf("sdk transport: %v; http fallback: %v", primaryErr, secondaryErr),
	}
}
