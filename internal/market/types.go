// Package market collects one run's snapshot of market data from
// Financial Modeling Prep: headlines, treasury yields, benchmark quotes
// and the day's top movers.
package market

// Source labels recorded in Snapshot.Failed.
const (
	SourceHeadlines  = "headlines"
	SourceYields     = "yields"
	SourceBenchmarks = "benchmarks"
	SourceMovers     = "movers"
)

// maxHeadlines caps the merged, deduplicated headline list per run.
const maxHeadlines = 300

// BenchmarkQuote is one instrument from the batched benchmark request.
// Price and Change stay nil when the provider omitted them.
type BenchmarkQuote struct {
	Price     *float64
	Change    *float64
	ChangePct string // formatted to 2 decimals
}

// Mover categories follow the provider's endpoint names.
const (
	CategoryGainers = "gainers"
	CategoryLosers  = "losers"
)

// Mover is one large intraday move, classified gainer or loser.
// Price and Volume are absent for entries from the fallback endpoints.
type Mover struct {
	Symbol    string
	Name      string
	ChangePct string // formatted with a trailing "%"
	Price     *float64
	Volume    *float64
	Category  string
}

// Snapshot is the ephemeral aggregate of one collection run. It is built
// fresh per run and never persisted.
type Snapshot struct {
	Headlines  []string
	Yields     map[string]float64
	Benchmarks map[string]BenchmarkQuote
	Movers     []Mover

	// Failed lists the sources whose adapter returned an error or
	// panicked; their collections are empty in this snapshot.
	Failed []string
}

// HasData reports whether the snapshot is viable for synthesis. False
// means every source came back empty and the pipeline must abort before
// the model is ever called.
func (s *Snapshot) HasData() bool {
	return len(s.Headlines) > 0 || len(s.Yields) > 0 ||
		len(s.Benchmarks) > 0 || len(s.Movers) > 0
}
