package report

import (
	"io"
	"math"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/track"
)

// WritePoints writes one "lat |lon|" line per turn or drop point, with a
// trailing T on turn-only points. This is the plotter's track outline.
func WritePoints(w io.Writer, t track.Track) error {
	ew := &errWriter{w: w}
	for _, p := range t.Points {
		if !p.Turn && !p.Drop {
			continue
		}
		if p.Kind == domain.KindTurnOnly {
			ew.printf("  %.3f %.3f T\n", p.Position.Lat, math.Abs(p.Position.Lon))
			continue
		}
		ew.printf("  %.3f %.3f\n", p.Position.Lat, math.Abs(p.Position.Lon))
	}
	return ew.err
}

// WritePointsExtra writes every point with its signed longitude and 0/1
// turn and drop flags.
func WritePointsExtra(w io.Writer, t track.Track) error {
	ew := &errWriter{w: w}
	for _, p := range t.Points {
		ew.printf("  %.3f %.3f %d %d\n", p.Position.Lat, p.Position.Lon, flag(p.Turn), flag(p.Drop))
	}
	return ew.err
}

// WriteStormLocation writes the takeoff-time storm position. ok is false
// and nothing is written when the mission has no storm reference.
func WriteStormLocation(w io.Writer, t track.Track) (ok bool, err error) {
	ref, ok := t.Storm.Reference()
	if !ok {
		return false, nil
	}
	ew := &errWriter{w: w}
	ew.printf("   %.7f     %.7f\n", ref.Position.Lat, math.Abs(ref.Position.Lon))
	return true, ew.err
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
