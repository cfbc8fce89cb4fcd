package yahoo

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

func summaryBody(low, mean, median, high float64) string {
	return fmt.Sprintf(`{"quoteSummary":{"result":[{
		"financialData":{
			"targetLowPrice":{"raw":%g,"fmt":"%g"},
			"targetMeanPrice":{"raw":%g,"fmt":"%g"},
			"targetMedianPrice":{"raw":%g,"fmt":"%g"},
			"targetHighPrice":{"raw":%g,"fmt":"%g"}
		},
		"defaultKeyStatistics":{"shortPercentOfFloat":{"raw":0.042}}
	}],"error":null}}`, low, low, mean, mean, median, median, high, high)
}

func TestFetchTargetsOrderAndNullRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/AAA":
			fmt.Fprint(w, summaryBody(90, 108, 110, 130))
		case "/GONE":
			fmt.Fprint(w, `{"quoteSummary":{"result":[],"error":{"code":"Not Found","description":"Quote not found"}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{
		QuoteSummaryURL: srv.URL,
		UserAgent:       "test",
		Workers:         2,
		RatePerSec:      1000,
	}, testLogger(t), nopMetrics{})

	rows := c.FetchTargets(context.Background(), []string{"AAA", "GONE", "MISSING"})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Symbol != "AAA" || rows[1].Symbol != "GONE" || rows[2].Symbol != "MISSING" {
		t.Fatalf("rows out of input order: %+v", rows)
	}
	if rows[0].Low == nil || *rows[0].Low != 90 {
		t.Fatalf("AAA low = %v, want 90", rows[0].Low)
	}
	if rows[0].Median == nil || *rows[0].Median != 110 {
		t.Fatalf("AAA median = %v, want 110", rows[0].Median)
	}
	if rows[0].ShortInterest == nil || *rows[0].ShortInterest != 0.042 {
		t.Fatalf("AAA short interest = %v, want 0.042", rows[0].ShortInterest)
	}
	// Failed symbols come back present with all-nil targets, never omitted.
	for _, i := range []int{1, 2} {
		r := rows[i]
		if r.Low != nil || r.Mean != nil || r.Median != nil || r.High != nil {
			t.Fatalf("row %d should be all-nil: %+v", i, r)
		}
	}
}

func TestFetchTargetsAbsentRawIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Analysts cover the symbol but publish no median.
		fmt.Fprint(w, `{"quoteSummary":{"result":[{
			"financialData":{
				"targetLowPrice":{"raw":10},
				"targetMeanPrice":{},
				"targetMedianPrice":{},
				"targetHighPrice":{"raw":20}
			},
			"defaultKeyStatistics":{}
		}],"error":null}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{QuoteSummaryURL: srv.URL, Workers: 1, RatePerSec: 1000}, testLogger(t), nopMetrics{})
	rows := c.FetchTargets(context.Background(), []string{"X"})
	if rows[0].Low == nil || *rows[0].Low != 10 {
		t.Fatalf("low = %v, want 10", rows[0].Low)
	}
	if rows[0].Median != nil {
		t.Fatalf("median must stay nil, got %v", *rows[0].Median)
	}
	if rows[0].Mean != nil {
		t.Fatalf("mean must stay nil, got %v", *rows[0].Mean)
	}
}
