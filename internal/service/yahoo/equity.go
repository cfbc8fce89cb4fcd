package yahoo

import (
	"context"

	"ValueScan/internal/domain/models"
	applogger "ValueScan/pkg/logger"

	"github.com/piquette/finance-go/equity"
)

// FetchFundamentals looks up market cap, price-to-book and the 52-week range
// for each symbol. Symbols that fail to resolve are simply omitted; the merge
// left-joins fundamentals so absence never drops a row. finance-go reports
// missing values as zero, which is mapped back to nil to keep the tri-state
// semantics.
func (c *Client) FetchFundamentals(ctx context.Context, symbols []string) []models.RawFundamentalsRow {
	rows := make([]models.RawFundamentalsRow, len(symbols))
	found := make([]bool, len(symbols))

	c.forEachSymbol(ctx, symbols, func(i int, sym string) {
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}
		q, err := equity.Get(sym)
		if err != nil || q == nil {
			c.logger.Debug("fundamentals fetch failed", applogger.String("symbol", sym))
			c.metrics.RecordError("fundamentals_fetch")
			return
		}
		rows[i] = models.RawFundamentalsRow{
			Symbol:     sym,
			MarketCap:  nonZero(float64(q.MarketCap)),
			PBRatio:    nonZero(q.PriceToBook),
			Week52High: nonZero(q.FiftyTwoWeekHigh),
			Week52Low:  nonZero(q.FiftyTwoWeekLow),
		}
		found[i] = true
	})

	out := make([]models.RawFundamentalsRow, 0, len(symbols))
	for i := range rows {
		if found[i] {
			out = append(out, rows[i])
		}
	}
	return out
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
