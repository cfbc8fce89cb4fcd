package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ValueScan/internal/domain/models"
	domrepo "ValueScan/internal/domain/repository"
	"ValueScan/internal/usecase"
	applogger "ValueScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

type fakeStore struct {
	records []models.StockRecord
	stats   models.Stats
	err     error

	lastList struct {
		skip, limit int
		minVolume   *int64
	}
	lastFilter models.UndervaluedFilter
}

func (f *fakeStore) Init(context.Context) error { return nil }

func (f *fakeStore) Replace(context.Context, []models.StockRecord) error { return nil }

func (f *fakeStore) List(_ context.Context, skip, limit int, minVolume *int64) ([]models.StockRecord, error) {
	f.lastList.skip = skip
	f.lastList.limit = limit
	f.lastList.minVolume = minVolume
	return f.records, f.err
}

func (f *fakeStore) Get(_ context.Context, symbol string) (models.StockRecord, error) {
	if f.err != nil {
		return models.StockRecord{}, f.err
	}
	for _, r := range f.records {
		if r.Symbol == symbol {
			return r, nil
		}
	}
	return models.StockRecord{}, domrepo.ErrNotFound
}

func (f *fakeStore) Stats(context.Context) (models.Stats, error) {
	return f.stats, f.err
}

func (f *fakeStore) Undervalued(_ context.Context, filter models.UndervaluedFilter) ([]models.StockRecord, error) {
	f.lastFilter = filter
	return f.records, f.err
}

func (f *fakeStore) Health(context.Context) error { return nil }

func (f *fakeStore) Close() error { return nil }

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestServer(t *testing.T, store *fakeStore) *echo.Echo {
	t.Helper()
	e := echo.New()
	h := NewStocksEchoHandler(testLogger(t), usecase.NewStockQuery(store))
	h.RegisterRoutes(e)
	return e
}

func doGet(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func fptr(v float64) *float64 { return &v }

func TestRootRedirectsToData(t *testing.T) {
	e := newTestServer(t, &fakeStore{})

	rec := doGet(e, "/")
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/data/" {
		t.Fatalf("location = %q, want /data/", loc)
	}
}

func TestListReturnsRecords(t *testing.T) {
	store := &fakeStore{records: []models.StockRecord{
		{Symbol: "AAPL", Name: "Apple Inc.", LastPrice: 172.34},
	}}
	e := newTestServer(t, store)

	rec := doGet(e, "/data/?skip=10&limit=50")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if store.lastList.skip != 10 || store.lastList.limit != 50 {
		t.Fatalf("pagination = %+v, want skip=10 limit=50", store.lastList)
	}

	var got []models.StockRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListDefaultsLimit(t *testing.T) {
	store := &fakeStore{}
	e := newTestServer(t, store)

	if rec := doGet(e, "/data/"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if store.lastList.limit != 100 {
		t.Fatalf("limit = %d, want default 100", store.lastList.limit)
	}
}

func TestListRejectsBadLimit(t *testing.T) {
	e := newTestServer(t, &fakeStore{})

	rec := doGet(e, "/data/?limit=5000")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "detail") {
		t.Fatalf("body missing detail envelope: %s", rec.Body.String())
	}
}

func TestGetBySymbolUppercases(t *testing.T) {
	store := &fakeStore{records: []models.StockRecord{
		{Symbol: "MSFT", Name: "Microsoft Corp."},
	}}
	e := newTestServer(t, store)

	rec := doGet(e, "/data/msft")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got models.StockRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Symbol != "MSFT" {
		t.Fatalf("symbol = %q, want MSFT", got.Symbol)
	}
}

func TestGetBySymbolNotFound(t *testing.T) {
	e := newTestServer(t, &fakeStore{})

	rec := doGet(e, "/data/zzzz")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["detail"] != "Stock ZZZZ not found" {
		t.Fatalf("detail = %q", body["detail"])
	}
}

func TestStats(t *testing.T) {
	e := newTestServer(t, &fakeStore{stats: models.Stats{TotalStocks: 42, AverageVolume: 1500000}})

	rec := doGet(e, "/stats/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got models.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalStocks != 42 || got.AverageVolume != 1500000 {
		t.Fatalf("stats = %+v", got)
	}
}

func TestUndervaluedAppliesFilters(t *testing.T) {
	store := &fakeStore{records: []models.StockRecord{
		{Symbol: "INTC", DifferenceLow: fptr(12.5)},
	}}
	e := newTestServer(t, store)

	rec := doGet(e, "/undervalued/?limit=10&min_price=5&sort_by=volume_numeric&ascending=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	f := store.lastFilter
	if f.Limit != 10 || f.SortBy != "volume_numeric" || !f.Ascending {
		t.Fatalf("filter = %+v", f)
	}
	if f.MinPrice == nil || *f.MinPrice != 5 {
		t.Fatalf("min_price = %v, want 5", f.MinPrice)
	}
}

func TestUndervaluedRejectsUnknownSortKey(t *testing.T) {
	e := newTestServer(t, &fakeStore{})

	rec := doGet(e, "/undervalued/?sort_by=symbol")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUndervaluedEmptyIs404(t *testing.T) {
	e := newTestServer(t, &fakeStore{})

	rec := doGet(e, "/undervalued/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["detail"] != "No stocks found matching the specified criteria" {
		t.Fatalf("detail = %q", body["detail"])
	}
}

func TestStoreErrorSurfacesAs500(t *testing.T) {
	e := newTestServer(t, &fakeStore{err: errors.New("connection refused")})

	rec := doGet(e, "/data/")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
