package track

import (
	"time"

	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
)

// TurnAllowance is the maneuver time charged at every turn point, and the
// ground delay charged at takeoff.
const TurnAllowance = time.Minute

// Accumulator carries the running totals of a track between legs. Methods
// return a new value; an Accumulator is never shared between missions.
type Accumulator struct {
	Position geodesy.Point // last resolved point
	TotalNM  float64
	Hours    float64 // elapsed since takeoff, full precision
}

// Fly moves the accumulator to p at speedKt and returns the leg length.
func (a Accumulator) Fly(p geodesy.Point, speedKt float64) (Accumulator, float64) {
	leg := geodesy.Distance(a.Position, p)
	a.Position = p
	a.TotalNM += leg
	a.Hours += leg / speedKt
	return a, leg
}

// Hold charges time and distance without moving: turn allowances and
// climb/descent padding.
func (a Accumulator) Hold(d time.Duration, distNM float64) Accumulator {
	a.Hours += d.Hours()
	a.TotalNM += distNM
	return a
}

// Elapsed returns the accumulated time.
func (a Accumulator) Elapsed() time.Duration {
	return time.Duration(a.Hours * float64(time.Hour))
}
