// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// APIKeyEnv is where the OpenAI-compatible API key is read from.
const APIKeyEnv = "OPENAI_API_KEY"

// BaseURLEnv optionally points the client at a compatible endpoint
// (a local model server, a proxy).
const BaseURLEnv = "OPENAI_BASE_URL"

// OpenAIGenerator implements Generator over the OpenAI chat-completion
// API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIGenerator reads the API key from the environment and builds
// a chat-completion generator for the given model.
func NewOpenAIGenerator(model string, temperature float32) (*OpenAIGenerator, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", APIKeyEnv)
	}
	cfg := openai.DefaultConfig(apiKey)
	if base := os.Getenv(BaseURLEnv); base != "" {
		cfg.BaseURL = base
	}
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
	}, nil
}

// Generate implements the Generator interface.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
