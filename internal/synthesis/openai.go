package synthesis

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

type openAIProvider struct {
	client *openai.Client
	model  string
	params Params
}

// NewOpenAI creates a Provider backed by the OpenAI chat completions API.
// An empty baseURL uses the public endpoint.
func NewOpenAI(apiKey, model, baseURL string, params Params, timeout time.Duration) Provider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &openAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		params: params,
	}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   p.params.MaxTokens,
		Temperature: float32(p.params.Temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai completion: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
