package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func quoteJSON(symbol, name string, price, pct float64) string {
	return fmt.Sprintf(`{"symbol":%q,"name":%q,"price":%g,"changesPercentage":%g}`,
		symbol, name, price, pct)
}

func TestCollectYieldsOmitsFailedInstruments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "%5ETNX"), strings.Contains(r.URL.Path, "^TNX"):
			fmt.Fprintf(w, "[%s]", quoteJSON("^TNX", "10 Year Treasury", 4.25, 0.1))
		case strings.Contains(r.URL.Path, "%5EIRX"), strings.Contains(r.URL.Path, "^IRX"):
			// quote without a price stays absent
			fmt.Fprint(w, `[{"symbol":"^IRX","name":"13 Week Bill"}]`)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	got, err := newTestSource(srv.URL).CollectYields(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, got, map[string]float64{"US 10Y": 4.25})
}

func TestCollectYieldsTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).CollectYields(context.Background())
	if err == nil {
		t.Fatal("expected error when every instrument fails")
	}
}

func TestCollectBenchmarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[%s,{"symbol":"???"},%s,{"symbol":"GC=F","name":"Gold"}]`,
			quoteJSON("^GSPC", "S&P 500", 5000, 0.5),
			quoteJSON("BTC-USD", "Bitcoin", 60000, -1.234))
	}))
	defer srv.Close()

	got, err := newTestSource(srv.URL).CollectBenchmarks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// nameless entry skipped, the rest kept
	assert.Equal(t, len(got), 3)
	assert.Equal(t, got["S&P 500"].ChangePct, "0.50")
	assert.Equal(t, *got["S&P 500"].Price, 5000.0)
	assert.Equal(t, got["Bitcoin"].ChangePct, "-1.23")
	// missing numeric fields stay absent, record survives
	if got["Gold"].Price != nil {
		t.Fatal("expected absent price for Gold")
	}
	assert.Equal(t, got["Gold"].ChangePct, "0.00")
}

func TestCollectBenchmarksTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).CollectBenchmarks(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCollectMoversPrimarySortsAndSplits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "actives") {
			t.Errorf("fallback endpoint hit unexpectedly: %s", r.URL.Path)
		}
		fmt.Fprintf(w, "[%s,%s,%s,%s]",
			quoteJSON("AAA", "Alpha", 10, 2.5),
			quoteJSON("BBB", "Beta", 20, -8.0),
			quoteJSON("CCC", "Gamma", 30, 5.0),
			quoteJSON("DDD", "Delta", 40, -1.0),
		)
	}))
	defer srv.Close()

	got, err := newTestSource(srv.URL).CollectMovers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, len(got), 4)
	// gainers first, ordered by absolute change descending
	assert.Equal(t, got[0].Symbol, "CCC")
	assert.Equal(t, got[0].Category, CategoryGainers)
	assert.Equal(t, got[0].ChangePct, "5.00%")
	assert.Equal(t, got[1].Symbol, "AAA")
	assert.Equal(t, got[2].Symbol, "BBB")
	assert.Equal(t, got[2].Category, CategoryLosers)
	assert.Equal(t, got[3].Symbol, "DDD")
}

func TestCollectMoversFallbackOnEmptyPrimary(t *testing.T) {
	var gainersHit, losersHit bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "actives"):
			fmt.Fprint(w, `[]`)
		case strings.Contains(r.URL.Path, "gainers"):
			gainersHit = true
			var rows []string
			for i := 0; i < 15; i++ {
				rows = append(rows, quoteJSON(fmt.Sprintf("G%d", i), "Gainer", 1, float64(i)))
			}
			fmt.Fprintf(w, "[%s]", strings.Join(rows, ","))
		case strings.Contains(r.URL.Path, "losers"):
			losersHit = true
			fmt.Fprintf(w, "[%s]", quoteJSON("L0", "Loser", 1, -3.5))
		}
	}))
	defer srv.Close()

	got, err := newTestSource(srv.URL).CollectMovers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, gainersHit, true)
	assert.Equal(t, losersHit, true)
	assert.Equal(t, len(got), 11) // 10 capped gainers + 1 loser

	for _, m := range got[:10] {
		assert.Equal(t, m.Category, CategoryGainers)
		if m.Price != nil || m.Volume != nil {
			t.Fatal("fallback movers must not carry price or volume")
		}
	}
	assert.Equal(t, got[10].Category, CategoryLosers)
	assert.Equal(t, got[10].ChangePct, "-3.50%")
}

func TestCollectMoversFallbackIsolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "actives"):
			w.WriteHeader(http.StatusForbidden)
		case strings.Contains(r.URL.Path, "gainers"):
			fmt.Fprintf(w, "[%s]", quoteJSON("G0", "Gainer", 1, 2.0))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	got, err := newTestSource(srv.URL).CollectMovers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// losers endpoint failure does not discard the gainers already fetched
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Symbol, "G0")
}

func TestCollectMoversTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).CollectMovers(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}
