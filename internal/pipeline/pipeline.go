// Package pipeline runs every mission of a run through read, build and
// write, with independent missions processed concurrently.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/observability"
	"github.com/couchcryptid/storm-flight-track/internal/track"
)

// DefaultWorkers is the number of missions processed at once.
const DefaultWorkers = 4

// MissionSource lists the run's mission files and parses them.
type MissionSource interface {
	Missions(ctx context.Context) ([]domain.MissionFile, error)
	Read(ctx context.Context, f domain.MissionFile) (domain.Mission, error)
}

// Transformer builds a track from a parsed mission.
type Transformer interface {
	Transform(ctx context.Context, m domain.Mission) (track.Track, error)
}

// Loader writes the products of a finished track.
type Loader interface {
	Load(ctx context.Context, f domain.MissionFile, t track.Track) error
}

// Result is the outcome of one mission. Track is set only on success.
type Result struct {
	File  domain.MissionFile
	Track track.Track
	Err   error
}

// Summary is the outcome of a run, with results in mission-number order.
type Summary struct {
	Results  []Result
	Duration time.Duration
}

// Succeeded returns the number of missions that produced output.
func (s Summary) Succeeded() int { return len(s.Results) - s.Failed() }

// Failed returns the number of missions that failed.
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Pipeline orchestrates the read-build-write run.
type Pipeline struct {
	source      MissionSource
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	workers     int
}

// New creates a Pipeline with the given stages and observability.
func New(s MissionSource, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:      s,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
		workers:     DefaultWorkers,
	}
}

// WithWorkers sets the concurrency limit. Values below 1 mean 1.
func (p *Pipeline) WithWorkers(n int) *Pipeline {
	p.workers = max(n, 1)
	return p
}

// WithClock replaces the clock used to time missions and the run.
func (p *Pipeline) WithClock(c clockwork.Clock) *Pipeline {
	p.clock = c
	return p
}

// Metrics returns the run metrics.
func (p *Pipeline) Metrics() *observability.Metrics { return p.metrics }

// Run processes every mission once. A failed mission is logged and counted
// but never stops its siblings. The returned error is set only when the
// mission list cannot be built or ctx is canceled.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := p.clock.Now()

	files, err := p.source.Missions(ctx)
	if err != nil {
		return Summary{}, err
	}
	p.logger.Info("pipeline started", "missions", len(files), "workers", p.workers)

	results := make([]Result, len(files))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, f := range files {
		g.Go(func() error {
			results[i] = p.process(ctx, f)
			return nil
		})
	}
	_ = g.Wait() // workers report through results

	sum := Summary{Results: results, Duration: p.clock.Since(start)}
	p.metrics.RunDuration.Set(sum.Duration.Seconds())
	p.logger.Info("pipeline finished",
		"succeeded", sum.Succeeded(),
		"failed", sum.Failed(),
		"duration", sum.Duration,
	)
	return sum, ctx.Err()
}

func (p *Pipeline) process(ctx context.Context, f domain.MissionFile) Result {
	start := p.clock.Now()
	log := p.logger.With("mission", f.Path, "number", f.Number)

	t, err := p.run(ctx, f)
	p.metrics.MissionDuration.Observe(p.clock.Since(start).Seconds())
	if err != nil {
		kind := domain.ErrorKind(err)
		log.Error("mission failed", "error", err, "kind", kind)
		p.metrics.MissionsProcessed.WithLabelValues("failure").Inc()
		p.metrics.MissionErrors.WithLabelValues(kind).Inc()
		return Result{File: f, Err: err}
	}

	p.observe(t)
	log.Info("mission complete",
		"points", len(t.Points),
		"total_nm", roundTenth(t.TotalNM),
		"duration", t.Duration.Round(time.Minute),
		"time_to_ip", t.TimeToIP.Round(time.Minute),
	)
	return Result{File: f, Track: t}
}

func (p *Pipeline) run(ctx context.Context, f domain.MissionFile) (track.Track, error) {
	if err := ctx.Err(); err != nil {
		return track.Track{}, err
	}
	m, err := p.source.Read(ctx, f)
	if err != nil {
		return track.Track{}, err
	}
	t, err := p.transformer.Transform(ctx, m)
	if err != nil {
		return track.Track{}, err
	}
	if err := p.loader.Load(ctx, f, t); err != nil {
		return track.Track{}, err
	}
	return t, nil
}

func (p *Pipeline) observe(t track.Track) {
	p.metrics.MissionsProcessed.WithLabelValues("success").Inc()
	p.metrics.AirspeedClamped.Add(float64(t.Clamped))
	p.metrics.TrackDistance.WithLabelValues(t.Mission.Aircraft).Observe(t.TotalNM)
	p.metrics.TrackDuration.WithLabelValues(t.Mission.Aircraft).Observe(t.Duration.Hours())
	for _, pt := range t.Points {
		if pt.Turn {
			p.metrics.PointsEmitted.WithLabelValues("turn").Inc()
		}
		if pt.Drop {
			p.metrics.PointsEmitted.WithLabelValues("drop").Inc()
		}
		if pt.Interpolated() {
			p.metrics.PointsEmitted.WithLabelValues("intermediate").Inc()
		}
		if pt.StormRelative() {
			p.metrics.PointsEmitted.WithLabelValues("storm_relative").Inc()
		}
	}
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
