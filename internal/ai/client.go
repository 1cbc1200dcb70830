// Package ai contains the thin orchestration layers around the language
// model: document classification and canonical invoice extraction. Both
// request strict JSON at zero temperature so outputs are reproducible for
// the same input.
package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ledgerpipe/ledgerpipe/internal/resilience"
)

// ChatCompleter is the subset of the OpenAI client used by this package.
// *openai.Client satisfies it; tests substitute a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// completeJSON sends a system+user prompt pair and returns the raw JSON
// content of the first choice. Provider errors are normalized so the retry
// layer can classify them by HTTP status.
func completeJSON(ctx context.Context, client ChatCompleter, model, system, user string, maxTokens int) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", normalizeProviderError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// normalizeProviderError maps SDK error types onto resilience.HTTPError so
// the default retryable predicate sees the status code.
func normalizeProviderError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &resilience.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &resilience.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}

	return err
}
