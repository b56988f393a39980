package watch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/floodwatch/internal/assess"
	"github.com/couchcryptid/floodwatch/internal/config"
	"github.com/couchcryptid/floodwatch/internal/domain"
	"github.com/couchcryptid/floodwatch/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssessor struct {
	mu      sync.Mutex
	fail    map[string]bool
	sources []string
}

func (s *stubAssessor) Assess(_ context.Context, req domain.AssessmentRequest, source string) (domain.Assessment, error) {
	s.mu.Lock()
	s.sources = append(s.sources, source)
	s.mu.Unlock()

	if s.fail[req.City] {
		return domain.Assessment{}, domain.ErrLocationNotFound
	}
	return domain.Assessment{
		ID:       req.ID,
		Location: domain.Location{Name: req.City, Country: req.Country},
		Analysis: domain.RiskAnalysis{Score: 30, Level: domain.LevelModerate},
	}, nil
}

type recordingLoader struct {
	mu      sync.Mutex
	batches [][]domain.OutputEvent
	err     error
}

func (l *recordingLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.batches = append(l.batches, events)
	return nil
}

func (l *recordingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.batches)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var watchlist = []config.WatchLocation{
	{City: "Porto Alegre", Country: "Brazil"},
	{City: "Valencia", Country: "Spain"},
	{City: "Lisbon"},
}

func locationName(t *testing.T, ev domain.OutputEvent) string {
	t.Helper()
	var a domain.Assessment
	require.NoError(t, json.Unmarshal(ev.Value, &a))
	return a.Location.Name
}

func TestRunOnce_PublishesInOrder(t *testing.T) {
	assessor := &stubAssessor{}
	loader := &recordingLoader{}
	metrics := observability.NewMetricsForTesting()
	w := New(watchlist, assessor, loader, discardLogger(), metrics)

	require.NoError(t, w.RunOnce(context.Background()))

	require.Len(t, loader.batches, 1)
	batch := loader.batches[0]
	require.Len(t, batch, 3)
	assert.Equal(t, "Porto Alegre", locationName(t, batch[0]))
	assert.Equal(t, "Valencia", locationName(t, batch[1]))
	assert.Equal(t, "Lisbon", locationName(t, batch[2]))
	assert.Equal(t, "Moderate", batch[0].Headers["risk_level"])

	for _, s := range assessor.sources {
		assert.Equal(t, assess.SourceWatch, s)
	}
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.WatchRuns.WithLabelValues("success")), 1e-9)
}

func TestRunOnce_SkipsFailedLocations(t *testing.T) {
	assessor := &stubAssessor{fail: map[string]bool{"Valencia": true}}
	loader := &recordingLoader{}
	metrics := observability.NewMetricsForTesting()
	w := New(watchlist, assessor, loader, discardLogger(), metrics)

	require.NoError(t, w.RunOnce(context.Background()))

	require.Len(t, loader.batches, 1)
	require.Len(t, loader.batches[0], 2)
	assert.Equal(t, "Lisbon", locationName(t, loader.batches[0][1]))
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.WatchRuns.WithLabelValues("error")), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.WatchRuns.WithLabelValues("success")), 1e-9)
}

func TestRunOnce_NothingToPublish(t *testing.T) {
	assessor := &stubAssessor{fail: map[string]bool{"Porto Alegre": true, "Valencia": true, "Lisbon": true}}
	loader := &recordingLoader{}
	w := New(watchlist, assessor, loader, discardLogger(), nil)

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Zero(t, loader.count())
}

func TestRunOnce_LoadError(t *testing.T) {
	loader := &recordingLoader{err: errors.New("broker down")}
	w := New(watchlist, &stubAssessor{}, loader, discardLogger(), nil)

	err := w.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestStart_InvalidSchedule(t *testing.T) {
	w := New(watchlist, &stubAssessor{}, &recordingLoader{}, discardLogger(), nil)

	err := w.Start(context.Background(), "whenever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch schedule")
}

func TestStart_RunsOnSchedule(t *testing.T) {
	loader := &recordingLoader{}
	w := New(watchlist[:1], &stubAssessor{}, loader, discardLogger(), nil)

	require.NoError(t, w.Start(context.Background(), "@every 1s"))
	t.Cleanup(w.Stop)

	assert.Eventually(t, func() bool { return loader.count() > 0 }, 5*time.Second, 50*time.Millisecond)
	assert.Error(t, w.Start(context.Background(), "@every 1s"), "second start is rejected")
}

func TestStop_WithoutStart(t *testing.T) {
	w := New(nil, &stubAssessor{}, &recordingLoader{}, discardLogger(), nil)
	w.Stop()
}
