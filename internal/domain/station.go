package domain

import "github.com/couchcryptid/storm-flight-track/internal/geodesy"

// StationResolver looks up takeoff and landing stations by name.
type StationResolver interface {
	// Resolve returns the station position and true, or false when the
	// station is unknown.
	Resolve(name string) (geodesy.Point, bool)
}
