// Command trackdis builds flight tracks from mission-definition files and
// writes the turn and drop tables plus the plotter and editor handoff files.
//
// Settings come from TKMAP_* environment variables; flags override them.
// Mission files are current1.ftk .. current{max}.ftk in the mission
// directory unless paths are given as arguments.
//
// Usage:
//
//	trackdis [-dir missions] [-out products] [-verbose 2] [file.ftk ...]
//
// The exit status is 1 when any mission fails.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-flight-track/internal/adapter/missionfile"
	"github.com/couchcryptid/storm-flight-track/internal/adapter/report"
	"github.com/couchcryptid/storm-flight-track/internal/adapter/station"
	"github.com/couchcryptid/storm-flight-track/internal/aircraft"
	"github.com/couchcryptid/storm-flight-track/internal/config"
	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/observability"
	"github.com/couchcryptid/storm-flight-track/internal/pipeline"
	"github.com/couchcryptid/storm-flight-track/internal/track"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if code := run(ctx, os.Args[1:], os.Stderr); code != 0 {
		stop()
		os.Exit(code)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "trackdis: %v\n", err)
		return 2
	}
	paths, err := parseFlags(cfg, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "trackdis: %v\n", err)
		return 2
	}

	logger, closer := observability.NewLogger(observability.LogOptions{
		Format:  cfg.LogFormat,
		Verbose: cfg.Verbose,
		File:    cfg.LogFile,
	})
	defer closer.Close()

	p, err := setup(cfg, paths, logger)
	if err != nil {
		logger.Error("setup failed", "error", err)
		return 1
	}

	sum, err := p.Run(ctx)
	code := 0
	switch {
	case err != nil:
		logger.Error("run failed", "error", err)
		code = 1
	case sum.Failed() > 0:
		code = 1
	}
	if cfg.MetricsFile != "" {
		if err := p.Metrics().WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("metrics not written", "error", err)
		}
	}
	return code
}

func parseFlags(cfg *config.Config, args []string, stderr io.Writer) ([]string, error) {
	fs := flag.NewFlagSet("trackdis", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.MissionDir, "dir", cfg.MissionDir, "directory holding current{N}.ftk mission files")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for product files")
	fs.IntVar(&cfg.MaxTracks, "max-tracks", cfg.MaxTracks, "highest mission number to look for")
	fs.BoolVar(&cfg.WestHemisphere, "west", cfg.WestHemisphere, "treat longitudes as west (negative)")
	fs.BoolVar(&cfg.UpdateStormCenter, "update-storm", cfg.UpdateStormCenter, "move the storm center along its motion vector")
	fs.BoolVar(&cfg.UpdateStormRelative, "update-relative", cfg.UpdateStormRelative, "report storm-relative points at the moved center")
	fs.StringVar(&cfg.StationFile, "stations", cfg.StationFile, "station catalog file")
	fs.StringVar(&cfg.ProfileFile, "profiles", cfg.ProfileFile, "aircraft profile JSON (default built-in)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "missions processed at once")
	fs.BoolVar(&cfg.Plot, "plot", cfg.Plot, "write points, points_extra and hurrloc files")
	fs.BoolVar(&cfg.HTML, "html", cfg.HTML, "write track GeoJSON files")
	fs.IntVar(&cfg.Verbose, "verbose", cfg.Verbose, "verbosity 0-3")
	fs.StringVar(&cfg.MetricsFile, "metrics", cfg.MetricsFile, "write Prometheus textfile metrics to this path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

func setup(cfg *config.Config, paths []string, logger *slog.Logger) (*pipeline.Pipeline, error) {
	profiles := aircraft.Default()
	if cfg.ProfileFile != "" {
		var err error
		if profiles, err = aircraft.LoadFile(cfg.ProfileFile); err != nil {
			return nil, err
		}
	}
	logger.Debug("aircraft profiles", "ids", profiles.IDs())

	catalog, err := station.LoadCatalog(cfg.StationFile, logger)
	if err != nil {
		return nil, err
	}
	stations, err := station.NewCachedResolver(catalog, cfg.StationCacheSize)
	if err != nil {
		return nil, fmt.Errorf("station cache: %w", err)
	}

	parseOpts := domain.ParseOptions{WestHemisphere: cfg.WestHemisphere}
	var source *missionfile.Source
	if len(paths) > 0 {
		source = missionfile.Explicit(paths, parseOpts, logger)
	} else {
		source = missionfile.Discover(cfg.MissionDir, cfg.MaxTracks, parseOpts, logger)
	}

	builder := track.NewBuilder(profiles, stations, track.Options{
		UpdateStormCenter:   cfg.UpdateStormCenter,
		UpdateStormRelative: cfg.UpdateStormRelative,
		MinLongitude:        cfg.MinLongitude,
		MaxLongitude:        cfg.MaxLongitude,
		Logger:              logger,
	})
	clock := clockwork.NewRealClock()
	transformer := pipeline.NewTransformer(builder, clock, logger, cfg.Verbose >= 3)
	writer := report.NewFileWriter(cfg.OutputDir, report.FileWriterOptions{Plot: cfg.Plot, HTML: cfg.HTML}, logger)

	p := pipeline.New(source, transformer, writer, logger, observability.NewMetrics()).
		WithWorkers(cfg.Workers).
		WithClock(clock)
	return p, nil
}
