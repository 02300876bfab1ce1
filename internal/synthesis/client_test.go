package synthesis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"

	"market-research-agent/internal/market"
)

type mockModel struct {
	calls   int
	content string
	err     error
}

func (m *mockModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func testClient(primary, fallback ChatModel) *Client {
	return &Client{
		backends: []backend{
			{name: "primary", model: primary},
			{name: "fallback", model: fallback},
		},
		log: zerolog.Nop(),
		now: func() time.Time { return time.Date(2026, time.August, 26, 7, 0, 0, 0, time.UTC) },
	}
}

func viableSnapshot() market.Snapshot {
	return market.Snapshot{Headlines: []string{"Fed holds rates steady"}}
}

func TestSynthesizePrimarySucceeds(t *testing.T) {
	primary := &mockModel{content: "the briefing"}
	fallback := &mockModel{content: "unused"}

	got, err := testClient(primary, fallback).Synthesize(context.Background(), viableSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, got, "the briefing")
	assert.Equal(t, primary.calls, 1)
	assert.Equal(t, fallback.calls, 0)
}

func TestSynthesizeFallsBackOnce(t *testing.T) {
	primary := &mockModel{err: errors.New("rate limited")}
	fallback := &mockModel{content: "fallback briefing"}

	got, err := testClient(primary, fallback).Synthesize(context.Background(), viableSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, got, "fallback briefing")
	assert.Equal(t, primary.calls, 1)
	assert.Equal(t, fallback.calls, 1)
}

func TestSynthesizeBothFailAccumulatesCauses(t *testing.T) {
	primary := &mockModel{err: errors.New("primary down")}
	fallback := &mockModel{err: errors.New("fallback down")}

	_, err := testClient(primary, fallback).Synthesize(context.Background(), viableSnapshot())
	if err == nil {
		t.Fatal("expected error")
	}

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *synthesis.Error, got %T", err)
	}
	assert.Equal(t, len(se.Causes), 2)
	if !errors.Is(se.Causes[0], primary.err) || !errors.Is(se.Causes[1], fallback.err) {
		t.Fatal("causes must be recorded in attempt order")
	}
	assert.Equal(t, primary.calls, 1)
	assert.Equal(t, fallback.calls, 1)
}

func TestSynthesizeEmptyContentCountsAsFailure(t *testing.T) {
	primary := &mockModel{content: "   "}
	fallback := &mockModel{content: "real text"}

	got, err := testClient(primary, fallback).Synthesize(context.Background(), viableSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, got, "real text")
}
