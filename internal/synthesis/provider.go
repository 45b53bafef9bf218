// Package synthesis narrates the structured pipeline results with a
// language model. Providers are tried in order, once each.
package synthesis

import (
	"context"
	"errors"
)

var (
	ErrNoProviders   = errors.New("no synthesis provider configured")
	ErrEmptyResponse = errors.New("provider returned no content")
)

// Provider completes a single system + user prompt exchange.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Params are the generation settings shared by every provider.
type Params struct {
	MaxTokens   int
	Temperature float64
}
