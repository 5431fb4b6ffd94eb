// Package geodesy solves great-circle problems on a spherical Earth.
//
// All angles are in degrees, distances in nautical miles. Latitude is positive
// north, longitude positive east. Every function is pure.
package geodesy

import (
	"fmt"
	"math"
)

// EarthRadiusNM is the mean Earth radius used by every solution in this package.
const EarthRadiusNM = 3440.065

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lon)
}

// Valid reports whether the latitude lies in [-90, 90] and the longitude in
// [minLon, maxLon].
func (p Point) Valid(minLon, maxLon float64) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= minLon && p.Lon <= maxLon
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }

// Inverse returns the great-circle distance from a to b and the initial true
// bearing at a. Coincident points give a distance of 0 and a bearing of 0.
func Inverse(a, b Point) (distNM, bearing float64) {
	if a == b {
		return 0, 0
	}
	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)
	dlat, dlon := lat2-lat1, lon2-lon1

	h := sqr(math.Sin(dlat/2)) + math.Cos(lat1)*math.Cos(lat2)*sqr(math.Sin(dlon/2))
	// Rounding can push h just outside [0, 1] near coincident or antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	distNM = EarthRadiusNM * c
	if distNM == 0 {
		return 0, 0
	}

	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)
	bearing = NormalizeBearing(degrees(math.Atan2(y, x)))
	return distNM, bearing
}

// Distance returns the great-circle distance between a and b.
func Distance(a, b Point) float64 {
	d, _ := Inverse(a, b)
	return d
}

// Direct projects distNM along the great circle leaving origin on the given
// true bearing and returns the destination. The longitude is normalized to
// [-180, 180).
func Direct(origin Point, bearing, distNM float64) Point {
	if distNM == 0 {
		return origin
	}
	lat1, lon1 := radians(origin.Lat), radians(origin.Lon)
	theta := radians(bearing)
	delta := distNM / EarthRadiusNM

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta)
	sinLat2 = math.Min(1, math.Max(-1, sinLat2))
	lat2 := math.Asin(sinLat2)
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*sinLat2,
	)
	return Point{Lat: degrees(lat2), Lon: NormalizeLongitude(degrees(lon2))}
}

// Interpolate returns the point at fraction f (0..1) of the great-circle
// distance from a to b.
func Interpolate(a, b Point, f float64) Point {
	dist, bearing := Inverse(a, b)
	if dist == 0 {
		return a
	}
	delta := dist / EarthRadiusNM
	if math.Abs(math.Sin(delta)) < 1e-12 {
		// Antipodal: every great circle through a reaches b, so follow the
		// initial bearing.
		return Direct(a, bearing, f*dist)
	}

	lat1, lon1 := radians(a.Lat), radians(a.Lon)
	lat2, lon2 := radians(b.Lat), radians(b.Lon)
	wa := math.Sin((1-f)*delta) / math.Sin(delta)
	wb := math.Sin(f*delta) / math.Sin(delta)

	x := wa*math.Cos(lat1)*math.Cos(lon1) + wb*math.Cos(lat2)*math.Cos(lon2)
	y := wa*math.Cos(lat1)*math.Sin(lon1) + wb*math.Cos(lat2)*math.Sin(lon2)
	z := wa*math.Sin(lat1) + wb*math.Sin(lat2)

	lat := math.Atan2(z, math.Sqrt(x*x+y*y))
	lon := math.Atan2(y, x)
	return Point{Lat: degrees(lat), Lon: NormalizeLongitude(degrees(lon))}
}

// NormalizeBearing reduces a bearing to [0, 360).
func NormalizeBearing(b float64) float64 {
	b = math.Mod(b, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}

// NormalizeLongitude wraps a longitude into [-180, 180).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// ReciprocalBearing returns the bearing pointing the opposite way.
func ReciprocalBearing(b float64) float64 {
	return NormalizeBearing(b + 180)
}

// DegMin splits decimal degrees (or hours) into whole units and minutes,
// rounded to the nearest minute. The sign is carried on the whole part.
func DegMin(v float64) (whole, minutes int) {
	total := int(math.Round(math.Abs(v) * 60))
	whole, minutes = total/60, total%60
	if v < 0 {
		whole = -whole
	}
	return whole, minutes
}

func sqr(v float64) float64 { return v * v }
