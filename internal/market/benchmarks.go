package market

import (
	"context"
	"fmt"
)

// benchmarkSymbols is the static universe quoted in one batched request:
// US and global indices, sector ETFs, commodities, currencies, crypto,
// bonds and alternative assets.
var benchmarkSymbols = []string{
	// US major indices
	"^GSPC", "^DJI", "^IXIC", "^RUT", "^VIX", "SPY",
	// Global indices
	"^FTSE", "^N225", "^GDAXI", "^FCHI", "^HSI", "^AXJO", "^BVSP", "^MXX",
	// Sector ETFs
	"XLF", "XLK", "XLE", "XLV", "XLI", "XLP", "XLY", "XLU", "XLRE", "XLB",
	// Commodities
	"CL=F", "BZ=F", "NG=F", "GC=F", "SI=F", "HG=F", "PL=F", "PA=F",
	"ZC=F", "ZW=F", "ZS=F",
	// Currencies
	"EURUSD=X", "GBPUSD=X", "USDJPY=X", "USDCAD=X", "AUDUSD=X",
	"USDCHF=X", "NZDUSD=X", "USDSEK=X", "USDNOK=X", "DX-Y.NYB",
	// Crypto
	"BTC-USD", "ETH-USD", "ADA-USD", "SOL-USD",
	// Bonds and fixed income
	"TLT", "IEF", "SHY", "HYG", "LQD", "EMB",
	// Alternative assets
	"REIT", "PDBC", "IAU", "SLV",
}

// CollectBenchmarks issues a single batched quote request for the whole
// benchmark universe, keyed by instrument name. Entries without a name
// are skipped; missing price or change fields stay absent on the quote.
func (s *FMPSource) CollectBenchmarks(ctx context.Context) (map[string]BenchmarkQuote, error) {
	body, err := s.fetcher.Get(ctx, s.quoteURL(benchmarkSymbols...), SourceBenchmarks)
	if err != nil {
		return nil, err
	}
	quotes, err := decodeQuotes(body)
	if err != nil {
		return nil, err
	}

	benchmarks := make(map[string]BenchmarkQuote, len(quotes))
	for _, q := range quotes {
		if q.Name == "" {
			continue
		}
		pct := 0.0
		if q.ChangePct != nil {
			pct = *q.ChangePct
		}
		benchmarks[q.Name] = BenchmarkQuote{
			Price:     q.Price,
			Change:    q.Change,
			ChangePct: fmt.Sprintf("%.2f", pct),
		}
	}
	return benchmarks, nil
}
