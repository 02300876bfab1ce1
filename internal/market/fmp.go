package market

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"market-research-agent/internal/fetch"
)

// FMPSource adapts the Financial Modeling Prep API into the internal
// record types. Every method degrades per source: a failing endpoint
// costs only its own data.
type FMPSource struct {
	fetcher *fetch.Client
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

func NewFMPSource(fetcher *fetch.Client, baseURL, apiKey string, log zerolog.Logger) *FMPSource {
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com"
	}
	return &FMPSource{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		log:     log,
	}
}

func (s *FMPSource) quoteURL(symbols ...string) string {
	escaped := make([]string, len(symbols))
	for i, sym := range symbols {
		escaped[i] = url.PathEscape(sym)
	}
	return fmt.Sprintf("%s/api/v3/quote/%s?apikey=%s",
		s.baseURL, strings.Join(escaped, ","), url.QueryEscape(s.apiKey))
}

// fmpQuote is the provider's quote record; pointer fields distinguish
// "absent" from zero.
type fmpQuote struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price"`
	Change    *float64 `json:"change"`
	ChangePct *float64 `json:"changesPercentage"`
	Volume    *float64 `json:"volume"`
}

func decodeQuotes(body []byte) ([]fmpQuote, error) {
	var quotes []fmpQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}
	return quotes, nil
}
