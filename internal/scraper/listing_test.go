package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "ValueScan/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordSourceRows(string, int) {}
func (nopMetrics) RecordRowsPersisted(int) {}
func (nopMetrics) RecordError(string) {}
func (nopMetrics) RecordLatency(string, float64) {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func listingPage(rows string) string {
	return fmt.Sprintf(`<html><body>
<table>
<thead><tr><th>Symbol</th><th>Name</th><th>Price</th><th>Change</th><th>Volume</th></tr></thead>
<tbody>%s</tbody>
</table>
</body></html>`, rows)
}

func tr(symbol, name, price, volume string) string {
	return fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>+1.2%%</td><td>%s</td></tr>",
		symbol, name, price, volume)
}

func TestFetchListingsMergesAndDedupes(t *testing.T) {
	pages := map[string]string{
		"/gainers/": listingPage(
			tr("AAPL", "Apple Inc.", "172.34", "45.2M") +
				tr("MSFT", "Microsoft Corp.", "410.10", "22.1M"),
		),
		"/most-active/": listingPage(
			tr("AAPL", "Apple Inc. (dup)", "999.99", "1K") +
				tr("NVDA", "NVIDIA Corp.", "880.00", "30.5M"),
		),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	src := New(Config{
		BaseURL:  srv.URL,
		Sections: []string{"gainers", "most-active"},
	}, testLogger(t), nopMetrics{})

	rows, err := src.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}

	// First occurrence wins for duplicates
	if rows[0].Symbol != "AAPL" || rows[0].Name != "Apple Inc." || rows[0].PriceText != "172.34" || rows[0].VolumeText != "45.2M" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Symbol != "MSFT" || rows[2].Symbol != "NVDA" {
		t.Fatalf("unexpected row order: %+v", rows)
	}
}

func TestFetchListingsSkipsFailedSection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gainers/" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, listingPage(tr("TSLA", "Tesla Inc.", "250.00", "80.3M")))
	}))
	defer srv.Close()

	src := New(Config{
		BaseURL:  srv.URL,
		Sections: []string{"gainers", "trending-tickers"},
	}, testLogger(t), nopMetrics{})

	rows, err := src.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(rows) != 1 || rows[0].Symbol != "TSLA" {
		t.Fatalf("expected only TSLA, got %+v", rows)
	}
}

func TestFetchListingsSkipsTableMissingColumns(t *testing.T) {
	// Table without a Volume column is unusable
	page := `<html><body><table>
<thead><tr><th>Symbol</th><th>Name</th><th>Price</th></tr></thead>
<tbody><tr><td>AMD</td><td>AMD Inc.</td><td>120.00</td></tr></tbody>
</table></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	src := New(Config{
		BaseURL:  srv.URL,
		Sections: []string{"gainers"},
	}, testLogger(t), nopMetrics{})

	rows, err := src.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %+v", rows)
	}
}

func TestFetchListingsSkipsBlankSymbols(t *testing.T) {
	page := listingPage(
		tr("", "Nameless", "10.00", "1M") +
			tr("INTC", "Intel Corp.", "35.00", "40.0M"),
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	src := New(Config{
		BaseURL:  srv.URL,
		Sections: []string{"most-active"},
	}, testLogger(t), nopMetrics{})

	rows, err := src.FetchListings(context.Background())
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(rows) != 1 || rows[0].Symbol != "INTC" {
		t.Fatalf("expected only INTC, got %+v", rows)
	}
}
