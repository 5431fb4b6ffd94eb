// Package storm tracks the storm center a mission is flown against.
package storm

import (
	"time"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
)

// MotionModel gives the storm center after elapsed mission time.
type MotionModel interface {
	Position(elapsed time.Duration) geodesy.Point
}

// StaticMotionModel keeps the storm at its initial position.
type StaticMotionModel struct {
	Origin geodesy.Point
}

func (m StaticMotionModel) Position(time.Duration) geodesy.Point { return m.Origin }

// LinearMotionModel moves the storm along a fixed bearing at constant speed.
// Positions are always projected from Origin so repeated calls never drift.
type LinearMotionModel struct {
	Origin    geodesy.Point
	BearingDg float64
	SpeedKt   float64
}

func (m LinearMotionModel) Position(elapsed time.Duration) geodesy.Point {
	return geodesy.Direct(m.Origin, m.BearingDg, m.SpeedKt*elapsed.Hours())
}

// NewMotionModel picks the model for a storm reference. Stationary storms
// and disabled updates both give a static model.
func NewMotionModel(ref domain.StormReference, updates bool) MotionModel {
	if !updates || ref.MotionSpeedKt == 0 {
		return StaticMotionModel{Origin: ref.Position}
	}
	return LinearMotionModel{Origin: ref.Position, BearingDg: ref.MotionBearing, SpeedKt: ref.MotionSpeedKt}
}

// Center is the storm-center state for one track-building pass. The zero
// value is inert: it has no reference and every lookup fails with
// domain.ErrMissingStormReference.
type Center struct {
	ref    domain.StormReference
	motion MotionModel
}

// NewCenter builds the storm center for mission m. Missions without an H
// record get an inert center.
func NewCenter(m domain.Mission, updates bool) Center {
	ref, ok := m.StormReference()
	if !ok {
		return Center{}
	}
	return Center{ref: ref, motion: NewMotionModel(ref, updates)}
}

// Active reports whether the mission has a storm reference.
func (c Center) Active() bool { return c.motion != nil }

// Initial returns the storm position at takeoff.
func (c Center) Initial() (geodesy.Point, error) {
	if !c.Active() {
		return geodesy.Point{}, errMissing()
	}
	return c.ref.Position, nil
}

// Reference returns the H record the center was built from.
func (c Center) Reference() (domain.StormReference, bool) {
	return c.ref, c.Active()
}

// Advance returns the storm center after elapsed mission time.
func (c Center) Advance(elapsed time.Duration) (geodesy.Point, error) {
	if !c.Active() {
		return geodesy.Point{}, errMissing()
	}
	return c.motion.Position(elapsed), nil
}

// Resolve places a storm-relative point radiusNM from the center at elapsed
// time, on the given azimuth.
func (c Center) Resolve(elapsed time.Duration, radiusNM, azimuth float64) (geodesy.Point, error) {
	center, err := c.Advance(elapsed)
	if err != nil {
		return geodesy.Point{}, err
	}
	return geodesy.Direct(center, azimuth, radiusNM), nil
}

func errMissing() error {
	return domain.NewRecordError(domain.ErrMissingStormReference, 0, "", "mission has no storm reference")
}
