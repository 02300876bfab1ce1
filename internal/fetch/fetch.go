// Package fetch is the single HTTP GET primitive shared by all source
// adapters: bounded attempts, exponential backoff, per-attempt timeout.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultAttempts = 3
	DefaultTimeout  = 10 * time.Second
)

// Error reports an exhausted retry budget for one source.
type Error struct {
	Source string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

type Client struct {
	httpClient  *http.Client
	maxAttempts int
	log         zerolog.Logger

	// sleep is swapped out in tests to observe backoff without waiting.
	sleep func(time.Duration)
}

func NewClient(maxAttempts int, timeout time.Duration, log zerolog.Logger) *Client {
	if maxAttempts <= 0 {
		maxAttempts = DefaultAttempts
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		maxAttempts: maxAttempts,
		log:         log,
		sleep:       time.Sleep,
	}
}

// Get fetches url, retrying on transport errors and non-2xx statuses.
// Backoff doubles per attempt (1s, 2s, ...); none after the final attempt.
func (c *Client) Get(ctx context.Context, url, source string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		body, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.log.Warn().
			Str("source", source).
			Int("attempt", attempt+1).
			Err(err).
			Msg("fetch attempt failed")
		if attempt < c.maxAttempts-1 {
			c.sleep(time.Duration(1<<attempt) * time.Second)
		}
	}
	return nil, &Error{Source: source, Cause: lastErr}
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
