package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/drugx/pkg/remote"
)

const anthropicVersion = "2023-06-01"

type anthropicProvider struct {
	client *remote.Client
	apiKey string
	model  string
	params Params
}

// NewAnthropic creates a Provider backed by the Anthropic Messages API.
// client should be configured without retries.
func NewAnthropic(client *remote.Client, apiKey, model string, params Params) Provider {
	return &anthropicProvider{
		client: client,
		apiKey: apiKey,
		model:  model,
		params: params,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropicProvider) Name() string {
	return "anthropic"
}

func (p *anthropicProvider) Complete(ctx context.Context, system, user string) (string, error) {
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}
	body := anthropicRequest{
		Model:       p.model,
		System:      system,
		Messages:    []anthropicMessage{{Role: "user", Content: user}},
		MaxTokens:   p.params.MaxTokens,
		Temperature: p.params.Temperature,
	}

	var resp anthropicResponse
	if err := p.client.PostJSON(ctx, "v1/messages", headers, body, &resp); err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic messages: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}
