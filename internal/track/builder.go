// Package track turns a parsed mission into an ordered, time-stamped list of
// resolved points.
//
// Building is a strict left-to-right fold over the mission records. Every
// point depends on the elapsed time and position reached by the previous
// one, so a single mission is never split across goroutines. A Builder holds
// no per-mission state and may be shared by concurrent callers.
package track

import (
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-flight-track/internal/aircraft"
	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
	"github.com/couchcryptid/storm-flight-track/internal/storm"
)

var errNoAnchor = errors.New("no anchor for takeoff")

// minAirspeedKt is the slowest airspeed a leg may be flown at.
const minAirspeedKt = 1.0

// ProfileSource looks up aircraft speed profiles.
type ProfileSource interface {
	Lookup(id string) (aircraft.Profile, error)
}

// Options configures a Builder.
type Options struct {
	// UpdateStormCenter moves the storm along its motion vector as the
	// mission clock advances.
	UpdateStormCenter bool
	// UpdateStormRelative reports storm-relative points at the moved center.
	// When false the coordinates are reported against the takeoff-time
	// center while leg distances still follow the moved center.
	UpdateStormRelative bool
	// MinLongitude and MaxLongitude bound every resolved point.
	MinLongitude float64
	MaxLongitude float64
	// Takeoff is the absolute takeoff time used for ETAs. Zero disables ETAs.
	Takeoff time.Time
	Logger  *slog.Logger
}

// Track is a finished flight track.
type Track struct {
	Mission  domain.Mission
	Profile  aircraft.Profile
	Storm    storm.Center
	Takeoff  time.Time
	Points   []domain.ResolvedPoint
	TotalNM  float64
	Duration time.Duration
	TimeToIP time.Duration
	// Clamped counts legs flown at an altitude outside the aircraft's
	// documented range.
	Clamped int
}

// Turns returns the points that appear in the turn table.
func (t Track) Turns() []domain.ResolvedPoint {
	return t.filter(func(p domain.ResolvedPoint) bool { return p.Turn })
}

// Drops returns the points that appear in the drop table.
func (t Track) Drops() []domain.ResolvedPoint {
	return t.filter(func(p domain.ResolvedPoint) bool { return p.Drop })
}

func (t Track) filter(keep func(domain.ResolvedPoint) bool) []domain.ResolvedPoint {
	var out []domain.ResolvedPoint
	for _, p := range t.Points {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Builder builds tracks from missions.
type Builder struct {
	profiles ProfileSource
	stations domain.StationResolver
	opts     Options
	logger   *slog.Logger
}

// NewBuilder returns a Builder. stations may be nil, in which case every
// takeoff and landing is anchored on its neighbouring point.
func NewBuilder(profiles ProfileSource, stations domain.StationResolver, opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MinLongitude == 0 && opts.MaxLongitude == 0 {
		opts.MinLongitude, opts.MaxLongitude = -180, 180
	}
	return &Builder{profiles: profiles, stations: stations, opts: opts, logger: logger}
}

// WithTakeoff returns a copy of b that stamps ETAs from takeoff.
func (b *Builder) WithTakeoff(takeoff time.Time) *Builder {
	c := *b
	c.opts.Takeoff = takeoff
	return &c
}

// Build resolves every record of m. Any error is fatal for the mission and
// no partial track is returned.
func (b *Builder) Build(m domain.Mission) (Track, error) {
	profile, err := b.profiles.Lookup(m.Aircraft)
	if err != nil {
		return Track{}, err
	}

	s := &buildState{
		b:       b,
		mission: m,
		profile: profile,
		center:  storm.NewCenter(m, b.opts.UpdateStormCenter),
		log:     b.logger.With("mission", m.Source, "aircraft", m.Aircraft),
	}
	if err := s.run(); err != nil {
		return Track{}, err
	}

	t := Track{
		Mission:  m,
		Profile:  profile,
		Storm:    s.center,
		Takeoff:  b.opts.Takeoff,
		Points:   s.points,
		TotalNM:  s.acc.TotalNM,
		Duration: s.acc.Elapsed(),
		Clamped:  s.clamped,
	}
	if len(t.Points) > 1 {
		t.TimeToIP = t.Points[1].Elapsed
	}
	return t, nil
}

// buildState is the per-mission fold.
type buildState struct {
	b       *Builder
	mission domain.Mission
	profile aircraft.Profile
	center  storm.Center
	log     *slog.Logger

	acc     Accumulator
	points  []domain.ResolvedPoint
	pending *domain.IntermediateDirective
	legs    int // legs flown since takeoff
	clamped int
}

func (s *buildState) run() error {
	recs := s.mission.Records
	for i, rec := range recs {
		switch r := rec.(type) {
		case domain.StormReference:
			s.log.Debug("storm reference", "position", r.Position, "motion_bearing", r.MotionBearing, "motion_kt", r.MotionSpeedKt)
		case domain.IntermediateDirective:
			d := r
			s.pending = &d
		case domain.Takeoff:
			if err := s.takeoff(r, recs[i+1:]); err != nil {
				return err
			}
		default:
			if err := s.leg(rec, dropRole(recs, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// takeoff emits the takeoff point at elapsed zero and charges the ground
// delay and any climb-out padding.
func (s *buildState) takeoff(r domain.Takeoff, rest []domain.Record) error {
	pos, ok := s.station(r.Station)
	if !ok {
		next, err := s.anchorAfterTakeoff(rest)
		if err != nil {
			return domain.NewRecordError(domain.ErrOutOfRangeCoordinate, r.LineNo, "",
				"takeoff station %q is unknown and no point follows it", r.Station)
		}
		s.log.Warn("takeoff station not found, anchoring on first point", "station", r.Station, "line", r.LineNo)
		pos = next
	}
	if err := s.validate(pos, r.LineNo); err != nil {
		return err
	}

	s.acc = Accumulator{Position: pos}
	s.emit(domain.ResolvedPoint{
		Line:     r.LineNo,
		Kind:     domain.KindTakeoff,
		Position: pos,
		Station:  r.Station,
		Turn:     true,
	}, s.profile.CruiseKt)

	s.acc = s.acc.Hold(TurnAllowance, 0)
	if pad := s.profile.Padding; pad != nil {
		s.acc = s.acc.Hold(pad.Duration(), pad.DistanceNM)
	}
	return nil
}

// anchorAfterTakeoff resolves the first track point after takeoff at the
// time the first leg starts.
func (s *buildState) anchorAfterTakeoff(rest []domain.Record) (geodesy.Point, error) {
	start := s.acc.Hold(TurnAllowance, 0)
	if pad := s.profile.Padding; pad != nil {
		start = start.Hold(pad.Duration(), 0)
	}
	for _, rec := range rest {
		switch r := rec.(type) {
		case domain.EarthPoint:
			return r.Position, nil
		case domain.TurnOnly:
			return r.Position, nil
		case domain.StormRelativePoint:
			return s.center.Resolve(start.Elapsed(), r.RadiusNM, r.Azimuth)
		case domain.Landing:
			if pos, ok := s.station(r.Station); ok {
				return pos, nil
			}
			return geodesy.Point{}, errNoAnchor
		}
	}
	return geodesy.Point{}, errNoAnchor
}

// leg flies from the current position to rec, expanding any pending
// intermediate directive on the way.
func (s *buildState) leg(rec domain.Record, drop bool) error {
	line := rec.Line()
	landing := false
	p := domain.ResolvedPoint{Line: line, Turn: true}

	// Position is resolved at the time the leg starts.
	start := s.acc.Elapsed()
	var flown geodesy.Point
	switch r := rec.(type) {
	case domain.EarthPoint:
		p.Kind, p.Position, p.AltitudeFt, p.Drop = domain.KindEarth, r.Position, r.AltitudeFt, drop
		flown = r.Position
	case domain.TurnOnly:
		p.Kind, p.Position, p.AltitudeFt = domain.KindTurnOnly, r.Position, r.AltitudeFt
		flown = r.Position
	case domain.StormRelativePoint:
		pos, err := s.center.Resolve(start, r.RadiusNM, r.Azimuth)
		if err != nil {
			return domain.NewRecordError(domain.ErrMissingStormReference, line, "", "storm-relative point %g/%03.0f", r.RadiusNM, r.Azimuth)
		}
		flown, p.Position = pos, pos
		if s.b.opts.UpdateStormCenter && !s.b.opts.UpdateStormRelative {
			if p.Position, err = s.center.Resolve(0, r.RadiusNM, r.Azimuth); err != nil {
				return err
			}
		}
		p.Kind, p.AltitudeFt, p.Drop = domain.KindStormRelative, r.AltitudeFt, true
		p.Relative = &domain.Polar{RadiusNM: r.RadiusNM, Azimuth: r.Azimuth}
	case domain.Landing:
		landing = true
		p.Kind, p.Station = domain.KindLanding, r.Station
		pos, ok := s.station(r.Station)
		if !ok {
			s.log.Warn("landing station not found, anchoring on last point", "station", r.Station, "line", line)
			pos = s.acc.Position
		}
		flown, p.Position = pos, pos
	default:
		return domain.NewRecordError(domain.ErrMalformedRecord, line, "", "unexpected %T in track", rec)
	}
	if err := s.validate(flown, line); err != nil {
		return err
	}
	if err := s.validate(p.Position, line); err != nil {
		return err
	}

	if s.pending != nil {
		if err := s.interpolate(*s.pending, flown); err != nil {
			return err
		}
		s.pending = nil
	}

	speed, err := s.legSpeed(p.AltitudeFt, landing, line)
	if err != nil {
		return err
	}
	s.acc, _ = s.acc.Fly(flown, speed)
	if landing {
		if pad := s.profile.Padding; pad != nil {
			s.acc = s.acc.Hold(pad.Duration(), pad.DistanceNM)
		}
	}
	s.acc = s.acc.Hold(TurnAllowance, 0)
	s.legs++
	s.emit(p, speed)
	return nil
}

// interpolate emits d.Count points evenly spaced along the great circle from
// the current position to end. They are flown at the directive's altitude
// and carry no turn allowance.
func (s *buildState) interpolate(d domain.IntermediateDirective, end geodesy.Point) error {
	speed, err := s.profileSpeed(d.AltitudeFt, d.LineNo)
	if err != nil {
		return err
	}
	from := s.acc.Position
	for k := 1; k <= d.Count; k++ {
		f := float64(k) / float64(d.Count+1)
		q := geodesy.Interpolate(from, end, f)
		s.acc, _ = s.acc.Fly(q, speed)
		s.emit(domain.ResolvedPoint{
			Line:       d.LineNo,
			Kind:       domain.KindIntermediate,
			Position:   q,
			AltitudeFt: d.AltitudeFt,
			Drop:       true,
		}, speed)
	}
	return nil
}

// legSpeed picks the airspeed for a leg: cruise out of takeoff and into
// landing, the altitude profile otherwise.
func (s *buildState) legSpeed(altitudeFt float64, landing bool, line int) (float64, error) {
	if landing || s.legs == 0 {
		return s.checkSpeed(s.profile.CruiseKt, line)
	}
	return s.profileSpeed(altitudeFt, line)
}

func (s *buildState) profileSpeed(altitudeFt float64, line int) (float64, error) {
	kt, clamped := s.profile.Speed(altitudeFt)
	if clamped {
		s.clamped++
		low, high := s.profile.Range()
		s.log.Warn("altitude outside documented range, speed clamped",
			"line", line, "altitude_ft", altitudeFt, "range_low_ft", low, "range_high_ft", high, "speed_kt", kt)
	}
	return s.checkSpeed(kt, line)
}

func (s *buildState) checkSpeed(kt float64, line int) (float64, error) {
	if kt < minAirspeedKt {
		return 0, domain.NewRecordError(domain.ErrOutOfRangeCoordinate, line, "", "airspeed %.1f kt gives an unbounded leg time", kt)
	}
	return kt, nil
}

func (s *buildState) validate(p geodesy.Point, line int) error {
	if !p.Valid(s.b.opts.MinLongitude, s.b.opts.MaxLongitude) {
		return domain.NewRecordError(domain.ErrOutOfRangeCoordinate, line, "",
			"position %s outside lat [-90, 90] lon [%g, %g]", p, s.b.opts.MinLongitude, s.b.opts.MaxLongitude)
	}
	return nil
}

// emit stamps p with the current totals and appends it.
func (s *buildState) emit(p domain.ResolvedPoint, speedKt float64) {
	p.Seq = len(s.points)
	p.AirspeedKt = speedKt
	p.TotalNM = s.acc.TotalNM
	p.Elapsed = s.acc.Elapsed()
	if n := len(s.points); n > 0 {
		p.LegNM = p.TotalNM - s.points[n-1].TotalNM
	}
	if !s.b.opts.Takeoff.IsZero() {
		p.ETA = s.b.opts.Takeoff.Add(p.Elapsed)
	}
	s.log.Debug("point",
		"seq", p.Seq, "kind", p.Kind, "position", p.Position, "leg_nm", p.LegNM,
		"total_nm", p.TotalNM, "elapsed", p.Elapsed, "speed_kt", speedKt)
	s.points = append(s.points, p)
}

func (s *buildState) station(name string) (geodesy.Point, bool) {
	if s.b.stations == nil {
		return geodesy.Point{}, false
	}
	return s.b.stations.Resolve(name)
}

// dropRole reports whether the EarthPoint at recs[i] keeps its drop role.
// A point that opens an interpolated leg to another EarthPoint hands the
// drop role to the interpolated points.
func dropRole(recs []domain.Record, i int) bool {
	if _, ok := recs[i].(domain.EarthPoint); !ok {
		return false
	}
	if i+2 >= len(recs) {
		return true
	}
	if _, ok := recs[i+1].(domain.IntermediateDirective); !ok {
		return true
	}
	_, closesOnEarth := recs[i+2].(domain.EarthPoint)
	return !closesOnEarth
}
