package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdeck/internal/shared"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext blocks for the given duration, returning early if the context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StatusError is a non-success HTTP response that was not retried.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d", e.Code)
}

func (e *StatusError) Unwrap() error { return shared.ErrAPIRequest }

// Client wraps outbound GET requests with a fixed timeout and a bounded retry policy.
//
// Only rate-limit statuses are retried: the client sleeps the backoff interval and
// tries again, up to maxRetries retries after the first attempt. Running out of
// retries yields [shared.ErrPersistentRateLimit]. Transport errors and any other
// non-2xx status are returned immediately.
//
// Pacing between units of work is the caller's job.
type Client struct {
	httpClient  *http.Client
	maxRetries  int
	backoff     time.Duration
	rateLimited map[int]bool
	sleep       SleepFunc
	logger      *log.Logger
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is copied and its
// timeout overridden by the one given to [NewClient]; a nil client is ignored.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithSleep replaces the function used to wait out a rate-limit backoff.
func WithSleep(fn SleepFunc) ClientOption {
	return func(c *Client) { c.sleep = fn }
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithRateLimitStatus sets which status codes mean "rate limited".
func WithRateLimitStatus(codes ...int) ClientOption {
	return func(c *Client) {
		c.rateLimited = make(map[int]bool, len(codes))
		for _, code := range codes {
			c.rateLimited[code] = true
		}
	}
}

// NewClient creates a client with the given request timeout, retry ceiling and rate-limit backoff.
//
// By default 403 and 429 are treated as rate limiting.
func NewClient(timeout time.Duration, maxRetries int, backoff time.Duration, opts ...ClientOption) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		maxRetries:  maxRetries,
		backoff:     backoff,
		rateLimited: map[int]bool{http.StatusForbidden: true, http.StatusTooManyRequests: true},
		sleep:       SleepWithContext,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.httpClient
	hc.Timeout = timeout
	c.httpClient = &hc
	return c
}

// GetJSON performs a GET request to rawURL and decodes the JSON body into result.
func (c *Client) GetJSON(ctx context.Context, rawURL string, result any) error {
	for attempt := 0; ; attempt++ {
		status, body, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}

		switch {
		case c.rateLimited[status]:
			if attempt >= c.maxRetries {
				return fmt.Errorf("%w: status %d after %d attempts", shared.ErrPersistentRateLimit, status, attempt+1)
			}
			c.logger.Warn("rate limited, backing off", "status", status, "attempt", attempt+1, "backoff", c.backoff)
			if err := c.sleep(ctx, c.backoff); err != nil {
				return err
			}
			continue
		case status < 200 || status >= 300:
			return &StatusError{Code: status, Message: errorMessage(body)}
		}

		if result == nil {
			return nil
		}
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
		return nil
	}
}

func (c *Client) do(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}
	return resp.StatusCode, body, nil
}

// errorMessage extracts a message from the common JSON error envelopes.
func errorMessage(body []byte) string {
	var envelope struct {
		Error        json.RawMessage `json:"error"`
		ErrorMessage string          `json:"errorMessage"`
		Detail       string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var plain string
		if err := json.Unmarshal(envelope.Error, &plain); err == nil {
			return plain
		}
	}
	if envelope.ErrorMessage != "" {
		return envelope.ErrorMessage
	}
	return envelope.Detail
}
