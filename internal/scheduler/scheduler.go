package scheduler

import (
	"context"
	"fmt"

	"ValueScan/internal/usecase"
	applogger "ValueScan/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler drives recurring pipeline runs.
type Scheduler struct {
	cron   *cron.Cron
	runner *usecase.PipelineRunner
	logger *applogger.Logger
	ctx    context.Context
}

// New creates a scheduler around the pipeline runner.
func New(ctx context.Context, runner *usecase.PipelineRunner, logger *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		logger: logger,
		ctx:    ctx,
	}
}

// Register adds the pipeline run on the given cron schedule.
func (s *Scheduler) Register(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return fmt.Errorf("register pipeline schedule %q: %w", schedule, err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron loop and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes the pipeline immediately (manual trigger / run_on_start).
func (s *Scheduler) RunNow() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	if err := s.runner.Run(s.ctx); err != nil {
		s.logger.Error("pipeline run failed", applogger.Error(err))
	}
}
