package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Source is the set of adapters the Collector fans out over.
// CollectHeadlines carries no error by contract: it degrades internally.
type Source interface {
	CollectHeadlines(ctx context.Context) []string
	CollectYields(ctx context.Context) (map[string]float64, error)
	CollectBenchmarks(ctx context.Context) (map[string]BenchmarkQuote, error)
	CollectMovers(ctx context.Context) ([]Mover, error)
}

// Collector runs the four adapters concurrently and assembles a Snapshot.
// Each adapter writes to its own slot; a failing or panicking adapter
// costs only its own category.
type Collector struct {
	source Source
	log    zerolog.Logger
}

func NewCollector(source Source, log zerolog.Logger) *Collector {
	return &Collector{source: source, log: log}
}

// Collect fans out the adapters, waits for all of them, and converts any
// error or panic into an empty collection recorded in Snapshot.Failed.
func (c *Collector) Collect(ctx context.Context) Snapshot {
	var snap Snapshot
	var mu sync.Mutex
	var wg sync.WaitGroup

	fail := func(source string, err error) {
		mu.Lock()
		snap.Failed = append(snap.Failed, source)
		mu.Unlock()
		c.log.Error().Str("source", source).Err(err).Msg("source collection failed")
	}

	run := func(source string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// An adapter panic must not take down the other three.
			defer func() {
				if r := recover(); r != nil {
					fail(source, fmt.Errorf("panic: %v", r))
				}
			}()
			if err := fn(); err != nil {
				fail(source, err)
			}
		}()
	}

	run(SourceHeadlines, func() error {
		snap.Headlines = c.source.CollectHeadlines(ctx)
		return nil
	})
	run(SourceYields, func() error {
		yields, err := c.source.CollectYields(ctx)
		if err != nil {
			return err
		}
		snap.Yields = yields
		return nil
	})
	run(SourceBenchmarks, func() error {
		benchmarks, err := c.source.CollectBenchmarks(ctx)
		if err != nil {
			return err
		}
		snap.Benchmarks = benchmarks
		return nil
	})
	run(SourceMovers, func() error {
		movers, err := c.source.CollectMovers(ctx)
		if err != nil {
			return err
		}
		snap.Movers = movers
		return nil
	})

	wg.Wait()

	c.log.Info().
		Int("headlines", len(snap.Headlines)).
		Int("yields", len(snap.Yields)).
		Int("benchmarks", len(snap.Benchmarks)).
		Int("movers", len(snap.Movers)).
		Strs("failed", snap.Failed).
		Msg("market data collected")

	return snap
}
