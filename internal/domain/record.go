package domain

import "github.com/couchcryptid/storm-flight-track/internal/geodesy"

// Record is one parsed mission-file line. The set of implementations is
// closed: StormReference, Takeoff, Landing, EarthPoint, TurnOnly,
// StormRelativePoint and IntermediateDirective.
type Record interface {
	// Line is the 1-based mission-file line the record was parsed from.
	Line() int
	// Marker is the leading character that selects the record kind.
	Marker() string
	record()
}

// StormReference ("H") is the storm position at takeoff and its motion.
type StormReference struct {
	LineNo        int
	Position      geodesy.Point
	MotionBearing float64 // degrees true, direction of travel
	MotionSpeedKt float64
}

// Takeoff ("A") names the departure station.
type Takeoff struct {
	LineNo  int
	Station string
}

// Landing ("Z") names the recovery station.
type Landing struct {
	LineNo  int
	Station string
}

// EarthPoint (no marker) is an absolute turn point, drop-eligible by default.
type EarthPoint struct {
	LineNo     int
	Position   geodesy.Point
	AltitudeFt float64
}

// TurnOnly ("T") is an absolute turn point that is never a drop.
type TurnOnly struct {
	LineNo     int
	Position   geodesy.Point
	AltitudeFt float64
}

// StormRelativePoint ("S") is a point at a radius and azimuth from the
// current storm center.
type StormRelativePoint struct {
	LineNo     int
	RadiusNM   float64
	Azimuth    float64 // degrees from true north
	AltitudeFt float64
}

// IntermediateDirective ("I") asks for Count evenly spaced drop points on the
// next leg, flown at AltitudeFt.
type IntermediateDirective struct {
	LineNo     int
	Count      int
	AltitudeFt float64
}

func (r StormReference) Line() int        { return r.LineNo }
func (r Takeoff) Line() int               { return r.LineNo }
func (r Landing) Line() int               { return r.LineNo }
func (r EarthPoint) Line() int            { return r.LineNo }
func (r TurnOnly) Line() int              { return r.LineNo }
func (r StormRelativePoint) Line() int    { return r.LineNo }
func (r IntermediateDirective) Line() int { return r.LineNo }

func (StormReference) Marker() string        { return "H" }
func (Takeoff) Marker() string               { return "A" }
func (Landing) Marker() string               { return "Z" }
func (EarthPoint) Marker() string            { return "" }
func (TurnOnly) Marker() string              { return "T" }
func (StormRelativePoint) Marker() string    { return "S" }
func (IntermediateDirective) Marker() string { return "I" }

func (StormReference) record()        {}
func (Takeoff) record()               {}
func (Landing) record()               {}
func (EarthPoint) record()            {}
func (TurnOnly) record()              {}
func (StormRelativePoint) record()    {}
func (IntermediateDirective) record() {}

// Positional reports whether r ends a leg, i.e. resolves to a point on the
// track. StormReference and IntermediateDirective do not.
func Positional(r Record) bool {
	switch r.(type) {
	case Takeoff, Landing, EarthPoint, TurnOnly, StormRelativePoint:
		return true
	default:
		return false
	}
}
