package market

import (
	"context"
	"fmt"
)

// Treasury instruments tracked for the yields section.
var yieldInstruments = []struct {
	label  string
	symbol string
}{
	{"US 13W", "^IRX"},
	{"US 5Y", "^FVX"},
	{"US 10Y", "^TNX"},
	{"US 30Y", "^TYX"},
}

// CollectYields fetches one quote per tracked instrument. An instrument
// whose request fails or carries no price is simply absent from the map.
// The error is non-nil only when every instrument failed.
func (s *FMPSource) CollectYields(ctx context.Context) (map[string]float64, error) {
	yields := make(map[string]float64, len(yieldInstruments))
	var lastErr error

	for _, inst := range yieldInstruments {
		body, err := s.fetcher.Get(ctx, s.quoteURL(inst.symbol), SourceYields)
		if err != nil {
			lastErr = err
			continue
		}
		quotes, err := decodeQuotes(body)
		if err != nil {
			s.log.Warn().Str("symbol", inst.symbol).Err(err).Msg("yield quote malformed")
			lastErr = err
			continue
		}
		if len(quotes) == 0 || quotes[0].Price == nil {
			continue
		}
		yields[inst.label] = *quotes[0].Price
	}

	if len(yields) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all yield instruments failed: %w", lastErr)
	}
	return yields, nil
}
