// Package watch re-assesses a fixed list of locations on a cron schedule and
// publishes the results through the same loader as the Kafka pipeline.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/floodwatch/internal/assess"
	"github.com/couchcryptid/floodwatch/internal/config"
	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/observability"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const runConcurrency = 4

// Assessor scores one request.
type Assessor interface {
	Assess(ctx context.Context, req domain.AssessmentRequest, source string) (domain.Assessment, error)
}

// Loader publishes serialized assessments.
type Loader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Watcher runs scheduled assessments for the configured locations.
type Watcher struct {
	locations []config.WatchLocation
	assessor  Assessor
	loader    Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	cron      *cron.Cron
}

// New creates a Watcher. metrics may be nil.
func New(locations []config.WatchLocation, assessor Assessor, loader Loader, logger *slog.Logger, metrics *observability.Metrics) *Watcher {
	return &Watcher{
		locations: locations,
		assessor:  assessor,
		loader:    loader,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start schedules RunOnce with a standard cron expression or descriptor
// ("@every 30m"). Scheduled runs use ctx and stop starting once it is done.
func (w *Watcher) Start(ctx context.Context, schedule string) error {
	if w.cron != nil {
		return errors.New("watcher already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.RunOnce(ctx); err != nil {
			w.logger.Error("watch run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("parse watch schedule: %w", err)
	}

	w.cron = c
	c.Start()
	w.logger.Info("watchlist scheduled", "schedule", schedule, "locations", len(w.locations))
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (w *Watcher) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
}

// RunOnce assesses every location and publishes the successful results in
// watchlist order. A location that cannot be assessed is logged and skipped;
// only a failed publish is returned as an error.
func (w *Watcher) RunOnce(ctx context.Context) error {
	results := make([]*domain.OutputEvent, len(w.locations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runConcurrency)
	for i, loc := range w.locations {
		g.Go(func() error {
			results[i] = w.assessOne(gctx, loc)
			return nil
		})
	}
	_ = g.Wait()

	events := make([]domain.OutputEvent, 0, len(results))
	for _, r := range results {
		if r != nil {
			events = append(events, *r)
		}
	}
	if len(events) == 0 {
		return nil
	}

	if err := w.loader.LoadBatch(ctx, events); err != nil {
		return fmt.Errorf("publish watch assessments: %w", err)
	}
	w.logger.Info("watch run complete", "assessed", len(events), "locations", len(w.locations))
	return nil
}

func (w *Watcher) assessOne(ctx context.Context, loc config.WatchLocation) *domain.OutputEvent {
	req := domain.AssessmentRequest{
		ID:      uuid.NewString(),
		City:    loc.City,
		Country: loc.Country,
	}

	a, err := w.assessor.Assess(ctx, req, assess.SourceWatch)
	if err != nil {
		w.logger.Warn("watch assessment failed", "city", loc.City, "country", loc.Country, "error", err)
		w.observe("error")
		return nil
	}

	out, err := domain.SerializeAssessment(a)
	if err != nil {
		w.logger.Warn("watch assessment not serializable", "request_id", a.ID, "error", err)
		w.observe("error")
		return nil
	}
	w.observe("success")
	return &out
}

func (w *Watcher) observe(outcome string) {
	if w.metrics != nil {
		w.metrics.WatchRuns.WithLabelValues(outcome).Inc()
	}
}
