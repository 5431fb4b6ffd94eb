// Package domain models reconnaissance mission plans and the tracks built
// from them.
//
// # Mission File Format
//
// A mission file is plain text, one record per line. Blank lines are ignored
// but still count toward line numbers reported in errors.
//
// Line 1 is the header:
//
//	<aircraft> <DD/HHMMZ> [title]
//	42 23/2200Z AL09 Ian
//
// The aircraft number selects a speed profile. The takeoff field is the
// day of month and UTC time; the year and month come from the run clock.
// A missing title is reported as "UNKNOWN".
//
// Every following line starts with a marker:
//
//	H lat lon [dir spd]        storm position at takeoff and motion (deg true, kt)
//	A station                  takeoff station
//	S radius azimuth alt       point radius NM from the storm center on azimuth
//	T lat lon alt              turn point, never a drop
//	I count alt                insert count drop points on the next leg, flown at alt
//	lat lon alt                turn and drop point (no marker)
//	Z station                  landing station
//
// Latitudes and longitudes are decimal degrees or "D M" pairs, so an
// unmarked point is either three or five numbers. Storm references take
// 2, 4 or 6 numbers. Longitude signs in the file are ignored; the hemisphere
// option decides them (west negative).
//
// # Structure
//
// H, when present, is the first record. A follows it and Z is the last
// record. S needs a preceding H. I must sit between two track points and
// applies only to the leg that follows it.
//
// # Errors
//
// Every failure wraps one of the Err* kinds in a [RecordError] carrying the
// offending line, so callers can test kinds with errors.Is and still report
// where the input went wrong.
package domain
