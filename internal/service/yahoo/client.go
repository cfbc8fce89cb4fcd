// Package yahoo resolves per-symbol analyst price targets and fundamentals.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"ValueScan/internal/domain/models"
	drepo "ValueScan/internal/domain/repository"
	"ValueScan/internal/service/ratelimit"
	xhttp "ValueScan/pkg/http"
	applogger "ValueScan/pkg/logger"
)

// Config holds quote service settings.
type Config struct {
	QuoteSummaryURL string
	UserAgent       string
	Workers         int
	RatePerSec      float64
	Timeout         time.Duration
}

// Client fetches analyst targets from the quoteSummary endpoint and
// fundamentals through finance-go. It implements repository.QuoteService.
type Client struct {
	cfg     Config
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	logger  *applogger.Logger
	metrics drepo.Metrics
}

// NewClient creates a quote service client.
func NewClient(cfg Config, logger *applogger.Logger, metrics drepo.Metrics) *Client {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: ratelimit.New(float64(cfg.Workers), cfg.RatePerSec),
		logger:  logger,
		metrics: metrics,
	}
}

// quoteSummary response. Yahoo wraps every numeric in {raw, fmt}; raw is
// absent when analysts do not cover the symbol, which must surface as nil.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				TargetLowPrice    rawValue `json:"targetLowPrice"`
				TargetMeanPrice   rawValue `json:"targetMeanPrice"`
				TargetMedianPrice rawValue `json:"targetMedianPrice"`
				TargetHighPrice   rawValue `json:"targetHighPrice"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				ShortPercentOfFloat rawValue `json:"shortPercentOfFloat"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchTargets resolves analyst price targets for every symbol. The result
// has one row per input symbol in input order; a symbol that cannot be
// resolved yields an all-nil row so the downstream inner join stays clean.
func (c *Client) FetchTargets(ctx context.Context, symbols []string) []models.RawTargetRow {
	rows := make([]models.RawTargetRow, len(symbols))
	c.forEachSymbol(ctx, symbols, func(i int, sym string) {
		row, err := c.fetchTargets(ctx, sym)
		if err != nil {
			c.logger.Warn("target fetch failed",
				applogger.String("symbol", sym),
				applogger.Error(err),
			)
			c.metrics.RecordError("target_fetch")
			rows[i] = models.RawTargetRow{Symbol: sym}
			return
		}
		rows[i] = row
	})
	return rows
}

func (c *Client) fetchTargets(ctx context.Context, symbol string) (models.RawTargetRow, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.RawTargetRow{}, err
	}

	u := fmt.Sprintf("%s/%s", c.cfg.QuoteSummaryURL, url.PathEscape(symbol))
	var out quoteSummaryResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodGet,
		URL:    u,
		QueryParams: map[string][]string{
			"modules": {"financialData,defaultKeyStatistics"},
		},
		Headers: map[string]string{"User-Agent": c.cfg.UserAgent},
	}, &out)
	if err != nil {
		return models.RawTargetRow{}, fmt.Errorf("quote summary %s: %w", symbol, err)
	}
	if out.QuoteSummary.Error != nil {
		return models.RawTargetRow{}, fmt.Errorf("quote summary %s: %s", symbol, out.QuoteSummary.Error.Description)
	}
	if len(out.QuoteSummary.Result) == 0 {
		return models.RawTargetRow{}, fmt.Errorf("quote summary %s: empty result", symbol)
	}

	r := out.QuoteSummary.Result[0]
	return models.RawTargetRow{
		Symbol:        symbol,
		Low:           r.FinancialData.TargetLowPrice.Raw,
		Mean:          r.FinancialData.TargetMeanPrice.Raw,
		Median:        r.FinancialData.TargetMedianPrice.Raw,
		High:          r.FinancialData.TargetHighPrice.Raw,
		ShortInterest: r.DefaultKeyStatistics.ShortPercentOfFloat.Raw,
	}, nil
}

// forEachSymbol runs fn over the symbols on a bounded worker pool. Each
// worker writes to its own index, so collection is deterministic regardless
// of scheduling.
func (c *Client) forEachSymbol(ctx context.Context, symbols []string, fn func(i int, sym string)) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := c.cfg.Workers
	if workers > len(symbols) {
		workers = len(symbols)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i, symbols[i])
			}
		}()
	}

	for i := range symbols {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}
