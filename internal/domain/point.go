package domain

import (
	"time"

	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
)

// PointKind identifies what produced a resolved point.
type PointKind int

const (
	KindTakeoff PointKind = iota
	KindEarth
	KindTurnOnly
	KindStormRelative
	KindIntermediate
	KindLanding
)

func (k PointKind) String() string {
	switch k {
	case KindTakeoff:
		return "takeoff"
	case KindEarth:
		return "earth"
	case KindTurnOnly:
		return "turn_only"
	case KindStormRelative:
		return "storm_relative"
	case KindIntermediate:
		return "intermediate"
	case KindLanding:
		return "landing"
	default:
		return "unknown"
	}
}

// Polar is a storm-relative annotation.
type Polar struct {
	RadiusNM float64 `json:"radius_nm"`
	Azimuth  float64 `json:"azimuth_deg"`
}

// ResolvedPoint is one time-stamped point of a finished track. Points are
// never modified once the track is returned.
type ResolvedPoint struct {
	Seq        int           // 0-based position in flight order
	Line       int           // mission-file line that produced the point
	Kind       PointKind     //
	Position   geodesy.Point //
	AltitudeFt float64       //
	Station    string        // takeoff/landing label
	Relative   *Polar        // set only for storm-relative points
	Turn       bool          // appears in the turn table
	Drop       bool          // appears in the drop table
	AirspeedKt float64       // airspeed used for the leg ending here
	LegNM      float64       // distance from the previous point
	TotalNM    float64       // cumulative distance
	Elapsed    time.Duration // cumulative time since takeoff
	ETA        time.Time     // takeoff time plus Elapsed; zero when takeoff is unknown
}

// StormRelative reports whether the point was resolved against the storm center.
func (p ResolvedPoint) StormRelative() bool { return p.Relative != nil }

// Interpolated reports whether the point was generated by an intermediate directive.
func (p ResolvedPoint) Interpolated() bool { return p.Kind == KindIntermediate }
