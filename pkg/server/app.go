package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ValueScan/internal/scheduler"
	pkgch "ValueScan/pkg/clickhouse"
	"ValueScan/pkg/config"
	xhttp "ValueScan/pkg/http"
	applogger "ValueScan/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	sched       *scheduler.Scheduler
	chClient    *pkgch.Client
	redisClient *redis.Client
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	sched *scheduler.Scheduler,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	redisClient *redis.Client,
) *App {
	return &App{
		cfg:         cfg,
		logger:      logger,
		sched:       sched,
		httpHandler: handler,
		chClient:    chClient,
		redisClient: redisClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	// Register schedule and start the cron loop
	if err := a.sched.Register(a.cfg.Pipeline.Schedule); err != nil {
		return err
	}
	a.sched.Start()
	a.logger.Info("pipeline scheduled", applogger.String("schedule", a.cfg.Pipeline.Schedule))

	if a.cfg.Pipeline.RunOnStart {
		go a.sched.RunNow()
		a.logger.Info("initial pipeline run triggered")
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Stop taking new pipeline runs; wait for an in-flight one
	a.sched.Stop()

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
