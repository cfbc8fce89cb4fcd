package repository

import (
	"context"
	"errors"

	"ValueScan/internal/domain/models"
)

// ErrNotFound is returned by StockStore lookups with no matching row.
var ErrNotFound = errors.New("not found")

// ListingSource produces raw listing rows from one or more market-listing
// pages. A partially failed fetch returns the rows that did arrive; only a
// total failure returns an error.
type ListingSource interface {
	FetchListings(ctx context.Context) ([]models.RawListingRow, error)
}

// QuoteService resolves per-symbol analyst targets and fundamentals.
// FetchTargets returns one row per input symbol, in input order; an
// unresolvable symbol yields an all-nil row rather than being omitted.
// FetchFundamentals may return fewer rows than symbols.
type QuoteService interface {
	FetchTargets(ctx context.Context, symbols []string) []models.RawTargetRow
	FetchFundamentals(ctx context.Context, symbols []string) []models.RawFundamentalsRow
}

// StockStore is the single-table relational sink and the query surface over
// it. Replace swaps in the new snapshot atomically; readers never observe an
// empty table mid-write.
type StockStore interface {
	Init(ctx context.Context) error
	Replace(ctx context.Context, recs []models.StockRecord) error
	List(ctx context.Context, skip, limit int, minVolume *int64) ([]models.StockRecord, error)
	Get(ctx context.Context, symbol string) (models.StockRecord, error)
	Stats(ctx context.Context) (models.Stats, error)
	Undervalued(ctx context.Context, f models.UndervaluedFilter) ([]models.StockRecord, error)
	Health(ctx context.Context) error
	Close() error
}

// RunLock serializes pipeline runs across processes. Acquire reports false
// when another run holds the lock.
type RunLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Metrics records pipeline and fetch telemetry.
type Metrics interface {
	RecordSourceRows(source string, n int)
	RecordRowsPersisted(n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
