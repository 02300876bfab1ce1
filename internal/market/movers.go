package market

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
)

const moversPerCategory = 10

// activesWindow bounds how many of the most-active rows are considered
// when ranking by move size.
const activesWindow = 50

// CollectMovers returns up to 10 gainers and 10 losers. The primary
// strategy ranks the most-active list by absolute percent change; if it
// errors or produces nothing, the dedicated gainers/losers endpoints are
// used instead, pre-sorted by the provider. The error is non-nil only
// when both tiers came up empty-handed because of failures.
func (s *FMPSource) CollectMovers(ctx context.Context) ([]Mover, error) {
	movers, err := s.moversFromActives(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("actives endpoint failed, falling back to gainers/losers")
	}
	if len(movers) > 0 {
		return movers, nil
	}
	return s.moversFromRanked(ctx)
}

func (s *FMPSource) moversFromActives(ctx context.Context) ([]Mover, error) {
	u := fmt.Sprintf("%s/api/v3/stock_market/actives?apikey=%s", s.baseURL, url.QueryEscape(s.apiKey))
	body, err := s.fetcher.Get(ctx, u, SourceMovers)
	if err != nil {
		return nil, err
	}
	quotes, err := decodeQuotes(body)
	if err != nil {
		return nil, err
	}

	if len(quotes) > activesWindow {
		quotes = quotes[:activesWindow]
	}
	sort.SliceStable(quotes, func(i, j int) bool {
		return math.Abs(pctOrZero(quotes[i])) > math.Abs(pctOrZero(quotes[j]))
	})

	var gainers, losers []Mover
	for _, q := range quotes {
		pct := pctOrZero(q)
		switch {
		case pct > 0 && len(gainers) < moversPerCategory:
			gainers = append(gainers, toMover(q, CategoryGainers))
		case pct < 0 && len(losers) < moversPerCategory:
			losers = append(losers, toMover(q, CategoryLosers))
		}
	}
	return append(gainers, losers...), nil
}

// moversFromRanked is the fallback tier: provider-ranked gainers and
// losers, each capped and isolated from the other's failure.
func (s *FMPSource) moversFromRanked(ctx context.Context) ([]Mover, error) {
	var movers []Mover
	var lastErr error

	for _, category := range []string{CategoryGainers, CategoryLosers} {
		u := fmt.Sprintf("%s/api/v3/stock_market/%s?apikey=%s", s.baseURL, category, url.QueryEscape(s.apiKey))
		body, err := s.fetcher.Get(ctx, u, SourceMovers)
		if err != nil {
			lastErr = err
			continue
		}
		quotes, err := decodeQuotes(body)
		if err != nil {
			s.log.Warn().Str("category", category).Err(err).Msg("movers endpoint malformed")
			lastErr = err
			continue
		}
		if len(quotes) > moversPerCategory {
			quotes = quotes[:moversPerCategory]
		}
		for _, q := range quotes {
			if q.Symbol == "" {
				continue
			}
			m := toMover(q, category)
			// Fallback rows carry no price or volume.
			m.Price = nil
			m.Volume = nil
			movers = append(movers, m)
		}
	}

	if len(movers) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all mover endpoints failed: %w", lastErr)
	}
	return movers, nil
}

func pctOrZero(q fmpQuote) float64 {
	if q.ChangePct == nil {
		return 0
	}
	return *q.ChangePct
}

func toMover(q fmpQuote, category string) Mover {
	return Mover{
		Symbol:    q.Symbol,
		Name:      q.Name,
		ChangePct: fmt.Sprintf("%.2f%%", pctOrZero(q)),
		Price:     q.Price,
		Volume:    q.Volume,
		Category:  category,
	}
}
