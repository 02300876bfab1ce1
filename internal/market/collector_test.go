package market

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/rs/zerolog"
)

// fakeSource lets each adapter slot be scripted independently.
type fakeSource struct {
	headlines  []string
	yields     map[string]float64
	yieldsErr  error
	benchmarks map[string]BenchmarkQuote
	benchErr   error
	movers     []Mover
	moversErr  error
	panicOn    string
}

func (f *fakeSource) CollectHeadlines(ctx context.Context) []string {
	if f.panicOn == SourceHeadlines {
		panic("headline adapter bug")
	}
	return f.headlines
}

func (f *fakeSource) CollectYields(ctx context.Context) (map[string]float64, error) {
	if f.panicOn == SourceYields {
		panic("yield adapter bug")
	}
	return f.yields, f.yieldsErr
}

func (f *fakeSource) CollectBenchmarks(ctx context.Context) (map[string]BenchmarkQuote, error) {
	return f.benchmarks, f.benchErr
}

func (f *fakeSource) CollectMovers(ctx context.Context) ([]Mover, error) {
	return f.movers, f.moversErr
}

func TestCollectAggregatesAllSources(t *testing.T) {
	src := &fakeSource{
		headlines:  []string{"Fed holds rates steady"},
		yields:     map[string]float64{"US 10Y": 4.25},
		benchmarks: map[string]BenchmarkQuote{"S&P 500": {ChangePct: "0.50"}},
		movers:     []Mover{{Symbol: "AAA", Category: CategoryGainers}},
	}

	snap := NewCollector(src, zerolog.Nop()).Collect(context.Background())

	assert.Equal(t, snap.Headlines, src.headlines)
	assert.Equal(t, snap.Yields, src.yields)
	assert.Equal(t, len(snap.Benchmarks), 1)
	assert.Equal(t, len(snap.Movers), 1)
	assert.Equal(t, len(snap.Failed), 0)
	assert.Equal(t, snap.HasData(), true)
}

func TestCollectIsolatesAdapterErrors(t *testing.T) {
	src := &fakeSource{
		headlines: []string{"still here"},
		yieldsErr: errors.New("all yield instruments failed"),
		moversErr: errors.New("all mover endpoints failed"),
	}

	snap := NewCollector(src, zerolog.Nop()).Collect(context.Background())

	assert.Equal(t, snap.Headlines, []string{"still here"})
	assert.Equal(t, len(snap.Yields), 0)
	assert.Equal(t, len(snap.Movers), 0)
	assert.Equal(t, len(snap.Failed), 2)
	assert.Equal(t, snap.HasData(), true)
}

func TestCollectIsolatesPanics(t *testing.T) {
	src := &fakeSource{
		panicOn: SourceYields,
		movers:  []Mover{{Symbol: "AAA", Category: CategoryGainers}},
	}

	snap := NewCollector(src, zerolog.Nop()).Collect(context.Background())

	assert.Equal(t, len(snap.Yields), 0)
	assert.Equal(t, len(snap.Movers), 1)
	assert.Equal(t, snap.Failed, []string{SourceYields})
}

func TestHasDataAllEmpty(t *testing.T) {
	snap := (&Collector{source: &fakeSource{}, log: zerolog.Nop()}).Collect(context.Background())
	assert.Equal(t, snap.HasData(), false)
}

func TestHasDataSingleSection(t *testing.T) {
	snap := Snapshot{Yields: map[string]float64{"US 10Y": 4.25}}
	assert.Equal(t, snap.HasData(), true)
}
