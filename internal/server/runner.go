// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/trackarr/internal/events"
	"github.com/vmunix/trackarr/internal/syncer"
)

// Config for the runner.
type Config struct {
	Addr           string
	AutoSync       bool
	SyncInterval   time.Duration
	EventRetention time.Duration
}

const pruneInterval = 12 * time.Hour

// Runner manages the HTTP server, the auto-sync loop, and event-log
// pruning under one lifecycle.
type Runner struct {
	cfg      Config
	handler  http.Handler
	importer *syncer.Importer
	jobs     *syncer.JobManager
	eventLog *events.EventLog // optional
	logger   *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, handler http.Handler, imp *syncer.Importer, jobs *syncer.JobManager, eventLog *events.EventLog, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:      cfg,
		handler:  handler,
		importer: imp,
		jobs:     jobs,
		eventLog: eventLog,
		logger:   logger,
	}
}

// Run starts all components and blocks until the context is canceled or
// a component fails.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              r.cfg.Addr,
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", r.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if r.cfg.AutoSync && r.cfg.SyncInterval > 0 {
		g.Go(func() error {
			r.syncLoop(ctx)
			return nil
		})
	}

	if r.eventLog != nil && r.cfg.EventRetention > 0 {
		g.Go(func() error {
			r.pruneLoop(ctx)
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// syncLoop runs incremental syncs on a fixed interval. A tick is skipped
// while a full import holds the writer.
func (r *Runner) syncLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SyncInterval)
	defer ticker.Stop()

	r.logger.Info("auto sync enabled", "interval", r.cfg.SyncInterval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.jobs.Running() {
				r.logger.Info("skipping auto sync, import in progress")
				continue
			}
			result, err := r.importer.IncrementalSync(ctx)
			if err != nil {
				if errors.Is(err, syncer.ErrNotAuthenticated) {
					r.logger.Debug("auto sync skipped, not authenticated")
					continue
				}
				r.logger.Error("auto sync failed", "error", err)
				continue
			}
			if len(result.Errors) > 0 {
				r.logger.Warn("auto sync finished with errors", "errors", len(result.Errors))
			}
		}
	}
}

// pruneLoop trims old rows from the event log.
func (r *Runner) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.eventLog.Prune(r.cfg.EventRetention)
			if err != nil {
				r.logger.Error("event prune failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.Info("pruned events", "count", n)
			}
		}
	}
}
