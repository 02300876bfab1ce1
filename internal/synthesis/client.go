// Package synthesis turns a market snapshot into a natural-language
// briefing via an ordered chain of LLM backends.
package synthesis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"market-research-agent/internal/market"
)

// ChatModel is the slice of the eino model surface this client needs;
// tests substitute their own.
type ChatModel interface {
	Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Error means every backend in the chain failed. It keeps each backend's
// cause, in attempt order.
type Error struct {
	Causes []error
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		parts[i] = c.Error()
	}
	return fmt.Sprintf("all models failed: %s", strings.Join(parts, "; "))
}

func (e *Error) Unwrap() []error { return e.Causes }

type backend struct {
	name  string
	model ChatModel
}

type Config struct {
	APIKey        string
	BaseURL       string
	PrimaryModel  string
	FallbackModel string
	Temperature   float32
	Timeout       time.Duration
}

// Client submits the rendered prompt to each backend in order and returns
// the first success. Model output is passed through as-is: the prompt
// carries the section-header requirements and no post-validation is done.
type Client struct {
	backends []backend
	log      zerolog.Logger

	now func() time.Time
}

func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("synthesis api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	var backends []backend
	for _, name := range []string{cfg.PrimaryModel, cfg.FallbackModel} {
		if name == "" {
			continue
		}
		temperature := cfg.Temperature
		m, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			Model:       name,
			BaseURL:     cfg.BaseURL,
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init model %s: %w", name, err)
		}
		backends = append(backends, backend{name: name, model: m})
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no synthesis models configured")
	}

	return &Client{backends: backends, log: log, now: time.Now}, nil
}

// Synthesize renders the prompt and walks the backend chain. Each backend
// gets exactly one attempt with identical input; if all fail the returned
// *Error aggregates every cause and the run is expected to end there.
func (c *Client) Synthesize(ctx context.Context, snap market.Snapshot) (string, error) {
	prompt := RenderPrompt(snap, c.now())
	messages := []*schema.Message{schema.UserMessage(prompt)}

	var causes []error
	for _, b := range c.backends {
		resp, err := b.model.Generate(ctx, messages)
		if err != nil {
			c.log.Warn().Str("model", b.name).Err(err).Msg("model call failed")
			causes = append(causes, fmt.Errorf("%s: %w", b.name, err))
			continue
		}
		if strings.TrimSpace(resp.Content) == "" {
			c.log.Warn().Str("model", b.name).Msg("model returned empty response")
			causes = append(causes, fmt.Errorf("%s: empty response", b.name))
			continue
		}
		c.log.Info().Str("model", b.name).Msg("analysis generated")
		return resp.Content, nil
	}

	return "", &Error{Causes: causes}
}
