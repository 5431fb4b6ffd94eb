// Package report renders finished tracks as the fixed-width text products
// read by flight crews and the plotting tools.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
	"github.com/couchcryptid/storm-flight-track/internal/track"
)

const (
	ruleWide  = " ========================================================================\n"
	ruleStar  = " ************************************************************************\n"
	ruleTurns = " ===========================================================\n"
	dashTurns = " -----------------------------------------------------------\n"
	ruleDrops = " ==========================================\n"
	dashDrops = " ------------------------------------------\n"
)

// errWriter remembers the first write error so table code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteTurns writes the track distance table: every turn point with its
// leg and cumulative distance and elapsed time, then the mission summary.
func WriteTurns(w io.Writer, t track.Track) error {
	ew := &errWriter{w: w}
	header(ew, t)
	ew.printf(" TRACK DISTANCE TABLE\n\n")
	ew.printf(ruleTurns)
	ew.printf("  #      LAT      LON     RAD/AZM     LEG    TOTAL     TIME\n")
	ew.printf("        (d m)    (d/m)    (NM/dg)     (NM)   (NM)     (h:mm)\n")
	ew.printf(dashTurns)

	lastTotal := 0.0
	for i, p := range t.Turns() {
		leg := p.TotalNM - lastTotal
		lastTotal = p.TotalNM
		h, m := HoursMinutes(p.Elapsed)
		flag := suffix(p)

		switch {
		case p.Kind == domain.KindTakeoff || p.Kind == domain.KindLanding:
			ew.printf(" %2d%s    %-29s%4.0f.   %4.0f.    %2d:%02d\n", i, flag, p.Station, leg, p.TotalNM, h, m)
		case p.StormRelative():
			latD, latM := geodesy.DegMin(p.Position.Lat)
			lonD, lonM := geodesy.DegMin(p.Position.Lon)
			ew.printf(" %2d%s    %2d %02d  %4d %02d    %3d/%03d    %4.0f.   %4.0f.    %2d:%02d\n",
				i, flag, latD, latM, abs(lonD), lonM, int(p.Relative.RadiusNM), int(p.Relative.Azimuth), leg, p.TotalNM, h, m)
		default:
			latD, latM := geodesy.DegMin(p.Position.Lat)
			lonD, lonM := geodesy.DegMin(p.Position.Lon)
			ew.printf(" %2d%s    %02d %02d  %4d %02d               %4.0f.   %4.0f.    %2d:%02d\n",
				i, flag, latD, latM, abs(lonD), lonM, leg, p.TotalNM, h, m)
		}
	}

	takeoff, landing := t.Mission.Stations()
	ipH, ipM := HoursMinutes(t.TimeToIP)
	durH, durM := HoursMinutes(t.Duration)
	ew.printf(dashTurns)
	ew.printf("\n\n")
	ew.printf(ruleStar)
	ew.printf(" MISSION PLAN:  %s\n", strings.ToUpper(t.Mission.Title))
	ew.printf(" Prepared by the Hurricane Research Division File: %s\n", sourceName(t))
	ew.printf(" Aircraft: %s\n", t.Profile.CallSign)
	ew.printf(" Proposed takeoff: %s  %s\n", takeoff, t.Mission.Takeoff)
	ew.printf(" Proposed recovery: %s\n", landing)
	ew.printf(" Time to IP:  %1d:%02d\n", ipH, ipM)
	ew.printf(" Mission Duration: %2d:%02d\n", durH, durM)
	ew.printf(ruleStar)
	return ew.err
}

// WriteDrops writes the drop location table.
func WriteDrops(w io.Writer, t track.Track) error {
	ew := &errWriter{w: w}
	header(ew, t)
	ew.printf(" DROP LOCATIONS\n\n")
	ew.printf(ruleDrops)
	ew.printf("  #      LAT      LON      RAD/AZM    TIME\n")
	ew.printf("        (d m)    (d m)     (NM/dg)   (h:mm)\n")
	ew.printf(dashDrops)

	for i, p := range t.Drops() {
		latD, latM := geodesy.DegMin(p.Position.Lat)
		lonD, lonM := geodesy.DegMin(p.Position.Lon)
		h, m := HoursMinutes(p.Elapsed)
		if p.StormRelative() {
			ew.printf(" %2d%s   %3d %02d  %4d %02d     %3d/%03d   %2d:%02d\n",
				i+1, suffix(p), latD, latM, abs(lonD), lonM, int(p.Relative.RadiusNM), int(p.Relative.Azimuth), h, m)
			continue
		}
		ew.printf(" %2d%s   %3d %02d  %4d %02d               %2d:%02d\n",
			i+1, suffix(p), latD, latM, abs(lonD), lonM, h, m)
	}
	ew.printf(dashDrops)
	return ew.err
}

func header(ew *errWriter, t track.Track) {
	ew.printf(ruleWide)
	ew.printf(" MISSION PLAN:  %s\n\n", strings.ToUpper(t.Mission.Title))
	ew.printf(" Prepared by the Hurricane Research Division File: %s\n\n", sourceName(t))
	ew.printf(" Aircraft: %s  Proposed takeoff: %s\n", t.Profile.CallSign, t.Mission.Takeoff)
	ew.printf(ruleWide)
	ew.printf("\n\n")
}

// HoursMinutes splits d into whole hours and minutes, rounded to the
// nearest minute.
func HoursMinutes(d time.Duration) (hours, minutes int) {
	return geodesy.DegMin(d.Hours())
}

func suffix(p domain.ResolvedPoint) string {
	switch {
	case p.StormRelative():
		return "S"
	case p.Interpolated():
		return "I"
	default:
		return " "
	}
}

func sourceName(t track.Track) string {
	if t.Mission.Source == "" {
		return "-"
	}
	return filepath.Base(t.Mission.Source)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
