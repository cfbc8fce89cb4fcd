package usecase

import (
	"context"
	"strings"

	"ValueScan/internal/domain/models"
	drepo "ValueScan/internal/domain/repository"
)

// StockQuery is the read-side use case behind the HTTP API. It holds no
// state of its own; every call goes straight to the store.
type StockQuery struct {
	store drepo.StockStore
}

// NewStockQuery creates a stock query use case.
func NewStockQuery(store drepo.StockStore) *StockQuery {
	return &StockQuery{store: store}
}

func (q *StockQuery) List(ctx context.Context, req *models.ListRequest) ([]models.StockRecord, error) {
	return q.store.List(ctx, req.Skip, req.Limit, req.MinVolume)
}

// Get looks up one symbol, case-insensitively.
func (q *StockQuery) Get(ctx context.Context, symbol string) (models.StockRecord, error) {
	return q.store.Get(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

func (q *StockQuery) Stats(ctx context.Context) (models.Stats, error) {
	return q.store.Stats(ctx)
}

func (q *StockQuery) Undervalued(ctx context.Context, req *models.UndervaluedRequest) ([]models.StockRecord, error) {
	return q.store.Undervalued(ctx, req.Filter())
}
