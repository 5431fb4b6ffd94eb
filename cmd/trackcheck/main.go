// Command trackcheck checks mission files without writing any products.
// Each file is parsed and built into a track, and the track is checked for
// ordering and totals. A report is printed per file.
//
// Usage:
//
//	go run ./cmd/trackcheck -stations citylocs current1.ftk current2.ftk
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-flight-track/internal/adapter/missionfile"
	"github.com/couchcryptid/storm-flight-track/internal/adapter/station"
	"github.com/couchcryptid/storm-flight-track/internal/aircraft"
	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/track"
)

// phase tracks pass/fail for one check of one file.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	stations string
	profiles string
	west     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.stations, "stations", "citylocs", "station catalog file")
	flag.StringVar(&opts.profiles, "profiles", "", "aircraft profile JSON (default built-in)")
	flag.BoolVar(&opts.west, "west", true, "treat longitudes as west (negative)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if code := run(opts, flag.Args(), os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(opts options, paths []string, out io.Writer) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	profiles := aircraft.Default()
	if opts.profiles != "" {
		var err error
		if profiles, err = aircraft.LoadFile(opts.profiles); err != nil {
			fmt.Fprintf(out, "FATAL: %v\n", err)
			return 1
		}
	}
	catalog, err := station.LoadCatalog(opts.stations, logger)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	parseOpts := domain.ParseOptions{WestHemisphere: opts.west}
	source := missionfile.Explicit(paths, parseOpts, logger)
	files, err := source.Missions(context.Background())
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}
	builder := track.NewBuilder(profiles, catalog, track.Options{
		UpdateStormCenter:   true,
		UpdateStormRelative: true,
		Logger:              logger,
	})

	fmt.Fprintln(out, "=== Mission Check ===")
	allPassed := true
	for _, f := range files {
		phases := check(source, builder, f)
		fmt.Fprintf(out, "\n%s\n", f.Path)
		for _, p := range phases {
			status := "PASS"
			if !p.passed() {
				status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
				allPassed = false
			}
			fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
			for i, e := range p.errors {
				fmt.Fprintf(out, "    [%d] %s\n", i+1, e)
			}
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll missions passed.")
		return 0
	}
	fmt.Fprintln(out, "\nCheck FAILED.")
	return 1
}

// check runs the phases for one file. Later phases are skipped once one fails.
func check(source *missionfile.Source, builder *track.Builder, f domain.MissionFile) []*phase {
	parsed := &phase{name: "parse"}
	m, err := source.Read(context.Background(), f)
	if err != nil {
		parsed.errorf("%s: %v", domain.ErrorKind(err), err)
		return []*phase{parsed}
	}

	built := &phase{name: "build"}
	t, err := builder.Build(m)
	if err != nil {
		built.errorf("%s: %v", domain.ErrorKind(err), err)
		return []*phase{parsed, built}
	}
	return []*phase{parsed, built, checkTrack(t)}
}

func checkTrack(t track.Track) *phase {
	p := &phase{name: "ordering and totals"}
	pts := t.Points
	if len(pts) < 2 {
		p.errorf("track has %d points", len(pts))
		return p
	}
	if pts[0].Kind != domain.KindTakeoff {
		p.errorf("first point is %s, want takeoff", pts[0].Kind)
	}
	if last := pts[len(pts)-1]; last.Kind != domain.KindLanding {
		p.errorf("last point is %s, want landing", last.Kind)
	}
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		if cur.Seq != prev.Seq+1 {
			p.errorf("point %d: sequence %d follows %d", i, cur.Seq, prev.Seq)
		}
		if cur.TotalNM < prev.TotalNM {
			p.errorf("point %d: distance decreases %.1f -> %.1f", i, prev.TotalNM, cur.TotalNM)
		}
		if cur.Elapsed < prev.Elapsed {
			p.errorf("point %d: time decreases %s -> %s", i, prev.Elapsed, cur.Elapsed)
		}
		if cur.StormRelative() != (cur.Kind == domain.KindStormRelative) {
			p.errorf("point %d: radius/azimuth annotation on a %s point", i, cur.Kind)
		}
	}
	if t.Duration < pts[len(pts)-1].Elapsed {
		p.errorf("duration %s is less than landing time %s", t.Duration, pts[len(pts)-1].Elapsed)
	}
	return p
}
