// Package agent implements the conversational ordering loop.
// A large language model drives each turn, calling into a closed set of
// ordering tools; all state changes go through the domain layer, never
// through free-form model output.
package agent

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// ErrDialogueUnavailable is returned when the language model cannot be
// reached or fails mid-turn. The conversation state is rolled back so the
// user can simply retry.
var ErrDialogueUnavailable = errors.New("dialogue service is unavailable")

// LLMClient is the subset of the OpenAI client the agent needs.
// *openai.Client satisfies it directly; tests substitute scripted fakes.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds the production LLM client from an API key.
func NewOpenAIClient(apiKey string) *openai.Client {
	return openai.NewClient(apiKey)
}
