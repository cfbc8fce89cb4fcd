package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "ValueScan/internal/domain/repository"
	"ValueScan/internal/enrich"
	applogger "ValueScan/pkg/logger"
)

// PipelineRunner executes one scrape-enrich-persist batch. Fetch failures
// are contained per source and per symbol; only the final write error
// propagates and aborts the run.
type PipelineRunner struct {
	listings drepo.ListingSource
	quotes   drepo.QuoteService
	store    drepo.StockStore
	lock     drepo.RunLock
	metrics  drepo.Metrics
	logger   *applogger.Logger
}

// NewPipelineRunner creates a pipeline runner.
func NewPipelineRunner(
	listings drepo.ListingSource,
	quotes drepo.QuoteService,
	store drepo.StockStore,
	lock drepo.RunLock,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *PipelineRunner {
	return &PipelineRunner{
		listings: listings,
		quotes:   quotes,
		store:    store,
		lock:     lock,
		metrics:  metrics,
		logger:   logger,
	}
}

// Run executes the batch once. A run that finds another run in flight, or no
// upstream data, is a no-op, not an error: the table keeps its last snapshot.
func (p *PipelineRunner) Run(ctx context.Context) error {
	held, err := p.lock.Acquire(ctx)
	if err != nil {
		p.metrics.RecordError("run_lock")
		p.logger.Error("run lock unavailable", applogger.Error(err))
		return nil
	}
	if !held {
		p.logger.Warn("pipeline run already in flight, skipping")
		return nil
	}
	defer func() {
		if err := p.lock.Release(context.WithoutCancel(ctx)); err != nil {
			p.logger.Warn("run lock release failed", applogger.Error(err))
		}
	}()

	start := time.Now()

	rows, err := p.listings.FetchListings(ctx)
	if err != nil {
		p.metrics.RecordError("listing_fetch")
		p.logger.Error("listing fetch failed", applogger.Error(err))
		return nil
	}
	if len(rows) == 0 {
		// Empty upstream must not wipe the table with an empty snapshot.
		p.logger.Warn("no listing rows fetched, leaving table untouched")
		return nil
	}

	symbols := make([]string, len(rows))
	for i, r := range rows {
		symbols[i] = r.Symbol
	}
	p.logger.Info("listings scraped", applogger.Int("symbols", len(symbols)))

	targets := p.quotes.FetchTargets(ctx, symbols)
	funds := p.quotes.FetchFundamentals(ctx, symbols)

	recs := enrich.Merge(rows, targets, funds)
	if len(recs) == 0 {
		p.logger.Warn("no rows survived the merge, leaving table untouched",
			applogger.Int("listings", len(rows)),
		)
		return nil
	}

	if err := p.store.Replace(ctx, recs); err != nil {
		p.metrics.RecordError("store_replace")
		return fmt.Errorf("replace snapshot: %w", err)
	}

	p.metrics.RecordRowsPersisted(len(recs))
	p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())
	p.logger.Info("pipeline run complete",
		applogger.Int("listings", len(rows)),
		applogger.Int("persisted", len(recs)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}
