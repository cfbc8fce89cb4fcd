package di

import (
	"context"
	"fmt"
	"time"

	"ValueScan/internal/domain/repository"
	"ValueScan/internal/handler/api"
	internalrepo "ValueScan/internal/repository"
	"ValueScan/internal/scheduler"
	"ValueScan/internal/scraper"
	"ValueScan/internal/service/lock"
	"ValueScan/internal/service/yahoo"
	"ValueScan/internal/usecase"
	pkgch "ValueScan/pkg/clickhouse"
	"ValueScan/pkg/config"
	xhttp "ValueScan/pkg/http"
	applogger "ValueScan/pkg/logger"
	"ValueScan/pkg/metrics"
	"ValueScan/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logger.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logger.Format
	if format == "" {
		format = "console"
	}
	output := cfg.Logger.Output
	if output == "" {
		output = "stdout"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideRedisClient creates a Redis client, or nil when redis is disabled.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	client, err := lock.NewRedisClient(lock.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redis client: %w", err)
	}
	return client, nil
}

// ProvideRunLock creates the pipeline run lock. Without Redis, runs are only
// serialized within this process, which the single cron entry already does.
func ProvideRunLock(client *redis.Client, cfg *config.Config) repository.RunLock {
	if client == nil {
		return lock.Noop{}
	}
	key := cfg.Pipeline.LockKey
	if key == "" {
		key = "valuescan:pipeline:run"
	}
	ttl := cfg.Pipeline.LockTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return lock.NewRedisLock(client, key, ttl)
}

// ProvideStockStore creates the ClickHouse-backed stock table.
func ProvideStockStore(chClient *pkgch.Client, cfg *config.Config, logger *applogger.Logger) repository.StockStore {
	store := internalrepo.NewCHStockStore(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
	store.SetLogger(logger)
	return store
}

// ProvideListingSource creates the markets page scraper.
func ProvideListingSource(cfg *config.Config, logger *applogger.Logger, m repository.Metrics) repository.ListingSource {
	return scraper.New(scraper.Config{
		BaseURL:   cfg.Scraper.BaseURL,
		Sections:  cfg.Scraper.Sections,
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.Scraper.Timeout,
	}, logger, m)
}

// ProvideQuoteService creates the analyst target and fundamentals client.
func ProvideQuoteService(cfg *config.Config, logger *applogger.Logger, m repository.Metrics) repository.QuoteService {
	return yahoo.NewClient(yahoo.Config{
		QuoteSummaryURL: cfg.Quotes.QuoteSummaryURL,
		UserAgent:       cfg.Quotes.UserAgent,
		Workers:         cfg.Quotes.Workers,
		RatePerSec:      cfg.Quotes.RatePerSec,
		Timeout:         cfg.Quotes.Timeout,
	}, logger, m)
}

// ProvidePipelineRunner creates the batch pipeline use case.
func ProvidePipelineRunner(
	listings repository.ListingSource,
	quotes repository.QuoteService,
	store repository.StockStore,
	runLock repository.RunLock,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.PipelineRunner {
	return usecase.NewPipelineRunner(listings, quotes, store, runLock, m, logger)
}

// ProvideStockQuery creates the read-side use case.
func ProvideStockQuery(store repository.StockStore) *usecase.StockQuery {
	return usecase.NewStockQuery(store)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(logger *applogger.Logger, query *usecase.StockQuery) xhttp.Handler {
	return api.NewStocksEchoHandler(logger, query)
}

// ProvideScheduler creates the cron scheduler around the pipeline runner.
func ProvideScheduler(runner *usecase.PipelineRunner, logger *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(context.Background(), runner, logger)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	sched *scheduler.Scheduler,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	redisClient *redis.Client,
) *server.App {
	return server.New(cfg, logger, sched, handler, chClient, redisClient)
}
