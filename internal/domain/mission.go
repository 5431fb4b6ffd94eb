package domain

import (
	"fmt"
	"time"
)

// DefaultTitle is used when the header line carries no mission title.
const DefaultTitle = "UNKNOWN"

// Mission is a parsed mission-definition file.
type Mission struct {
	Source   string // file name the mission was read from
	Aircraft string // speed-profile key, e.g. "42"
	Takeoff  TakeoffTime
	Title    string
	Records  []Record
}

// TakeoffTime is the header's day-of-month and HHMM, always UTC.
type TakeoffTime struct {
	Day    int
	Hour   int
	Minute int
}

// String formats the takeoff time as written in mission files, e.g. "23/2200Z".
func (t TakeoffTime) String() string {
	return fmt.Sprintf("%02d/%02d%02dZ", t.Day, t.Hour, t.Minute)
}

// In resolves the day/HHMM against the year and month of ref.
func (t TakeoffTime) In(ref time.Time) time.Time {
	ref = ref.UTC()
	return time.Date(ref.Year(), ref.Month(), t.Day, t.Hour, t.Minute, 0, 0, time.UTC)
}

// StormReference returns the mission's storm reference record, if any.
func (m Mission) StormReference() (StormReference, bool) {
	for _, r := range m.Records {
		if h, ok := r.(StormReference); ok {
			return h, true
		}
	}
	return StormReference{}, false
}

// Stations returns the takeoff and landing station names.
func (m Mission) Stations() (takeoff, landing string) {
	for _, r := range m.Records {
		switch v := r.(type) {
		case Takeoff:
			takeoff = v.Station
		case Landing:
			landing = v.Station
		}
	}
	return takeoff, landing
}

// MissionFile identifies one mission input and the number its products carry.
type MissionFile struct {
	Number int
	Path   string
}

// String returns the file path.
func (f MissionFile) String() string { return f.Path }
