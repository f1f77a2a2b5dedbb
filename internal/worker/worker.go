// Package worker hosts the background jobs: the nightly recompute pass and
// the outbox event dispatcher.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lexigraph/engine/internal/config"
)

// Runner schedules the background jobs with gocron.
type Runner struct {
	scheduler  *gocron.Scheduler
	cfg        config.WorkerConfig
	recomputer *Recomputer
	dispatcher *Dispatcher
	log        *slog.Logger
}

// NewRunner creates a Runner. Jobs do not run until Start is called.
func NewRunner(cfg config.WorkerConfig, recomputer *Recomputer, dispatcher *Dispatcher, logger *slog.Logger) *Runner {
	return &Runner{
		scheduler:  gocron.NewScheduler(time.UTC),
		cfg:        cfg,
		recomputer: recomputer,
		dispatcher: dispatcher,
		log:        logger.With("component", "worker"),
	}
}

// Start registers the jobs and runs the scheduler in the background.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.scheduler.Cron(r.cfg.RecomputeCron).Do(func() {
		if err := r.recomputer.Recompute(ctx); err != nil {
			r.log.ErrorContext(ctx, "nightly recompute failed",
				slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}

	_, err = r.scheduler.Every(r.cfg.DispatchInterval).Do(func() {
		if _, err := r.dispatcher.Dispatch(ctx); err != nil {
			r.log.WarnContext(ctx, "outbox dispatch failed",
				slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	r.log.InfoContext(ctx, "background jobs started",
		slog.String("recompute_cron", r.cfg.RecomputeCron),
		slog.String("dispatch_interval", r.cfg.DispatchInterval.String()))
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (r *Runner) Stop() {
	r.scheduler.Stop()
}
