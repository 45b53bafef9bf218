// Package remote provides a JSON HTTP client for external reference APIs.
// Every request is throttled, bounded by a timeout, and retried with
// exponential backoff on transport failures, 429, and 5xx responses.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/drugx/pkg/lookup"
)

const maxErrorBody = 512

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Client issues JSON requests against a single base URL.
type Client struct {
	http       *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// New creates a Client from a finalized Config.
// A negative MaxRetries disables retries.
func New(cfg *Config, logger *slog.Logger) *Client {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(limit, max(cfg.Burst, 1)),
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: cfg.RetryDelayDuration(),
		logger:     logger.With("remote", cfg.BaseURL),
	}
}

// BaseURL returns the client's base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET for path with the given query and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.url(path, params)
	return c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	}, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	target := c.url(path, nil)
	return c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}, out)
}

// PostForm issues a url-encoded form POST and decodes the response into out.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	target := c.url(path, nil)
	encoded := form.Encode()
	return c.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}, out)
}

func (c *Client) url(path string, params url.Values) string {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	return target
}

func (c *Client) do(ctx context.Context, build func(context.Context) (*http.Request, error), out any) error {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", lookup.ErrUnavailable, err)
		}

		err := c.attempt(ctx, build, out)
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt >= c.maxRetries {
			return classify(err)
		}

		delay := c.retryDelay << attempt
		c.logger.WarnContext(
			ctx, "request failed, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", lookup.ErrUnavailable, ctx.Err())
		case <-time.After(delay):
		}
	}
}

func (c *Client) attempt(ctx context.Context, build func(context.Context) (*http.Request, error), out any) error {
	req, err := build(ctx)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return !errors.Is(err, context.Canceled)
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	return false
}

func classify(err error) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", lookup.ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", lookup.ErrUnavailable, err)
}
