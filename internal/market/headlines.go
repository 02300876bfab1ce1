package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
)

// newsCategories are fetched in this order; merge order (and therefore
// dedup precedence) is stable across runs.
var newsCategories = []struct {
	name  string
	path  string
	limit int
}{
	{"stock_news", "stock-latest", 100},
	{"forex_news", "forex-latest", 20},
	{"crypto_news", "crypto-latest", 20},
	{"general_news", "general-latest", 100},
}

type newsItem struct {
	Title string `json:"title"`
}

// decodeNews handles both response shapes the news endpoints are known to
// produce: a bare JSON array of records, or an object wrapping the array
// under "data". Anything else is an unrecognized shape.
func decodeNews(body []byte) ([]newsItem, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	switch trimmed[0] {
	case '[':
		var items []newsItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode news list: %w", err)
		}
		return items, nil
	case '{':
		var wrapped struct {
			Data []newsItem `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode news object: %w", err)
		}
		if wrapped.Data == nil {
			return nil, fmt.Errorf("object response has no data key")
		}
		return wrapped.Data, nil
	default:
		return nil, fmt.Errorf("unrecognized response shape")
	}
}

// CollectHeadlines fetches the four news categories concurrently, merges
// their titles, removes exact duplicates keeping first occurrence, and
// caps the result at 300. It never fails: a broken category contributes
// zero headlines.
func (s *FMPSource) CollectHeadlines(ctx context.Context) []string {
	results := make([][]string, len(newsCategories))

	var wg sync.WaitGroup
	for i, cat := range newsCategories {
		wg.Add(1)
		go func(slot int, name, path string, limit int) {
			defer wg.Done()
			u := fmt.Sprintf("%s/stable/news/%s?page=0&limit=%d&apikey=%s",
				s.baseURL, path, limit, url.QueryEscape(s.apiKey))
			body, err := s.fetcher.Get(ctx, u, name)
			if err != nil {
				s.log.Warn().Str("source", name).Err(err).Msg("headline source failed")
				return
			}
			items, err := decodeNews(body)
			if err != nil {
				s.log.Warn().Str("source", name).Err(err).Msg("headline source malformed")
				return
			}
			titles := make([]string, 0, len(items))
			for _, item := range items {
				if item.Title != "" {
					titles = append(titles, item.Title)
				}
			}
			results[slot] = titles
			s.log.Debug().Str("source", name).Int("count", len(titles)).Msg("headlines fetched")
		}(i, cat.name, cat.path, cat.limit)
	}
	wg.Wait()

	var all []string
	for _, titles := range results {
		all = append(all, titles...)
	}
	return dedupHeadlines(all)
}

// dedupHeadlines removes exact-duplicate titles preserving first-seen
// order, then truncates to maxHeadlines.
func dedupHeadlines(headlines []string) []string {
	seen := make(map[string]struct{}, len(headlines))
	unique := make([]string, 0, len(headlines))
	for _, h := range headlines {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, h)
		if len(unique) == maxHeadlines {
			break
		}
	}
	return unique
}
