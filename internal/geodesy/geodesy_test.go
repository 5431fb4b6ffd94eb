package geodesy

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tolNM = 1e-6

func TestInverse_KnownDistances(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Point
		dist    float64
		bearing float64
	}{
		{"one degree of latitude", Point{0, 0}, Point{1, 0}, EarthRadiusNM * math.Pi / 180, 0},
		{"one degree of longitude on the equator", Point{0, 0}, Point{0, 1}, EarthRadiusNM * math.Pi / 180, 90},
		{"due south", Point{25, -83.2}, Point{24, -83.2}, EarthRadiusNM * math.Pi / 180, 180},
		{"due west on the equator", Point{0, 10}, Point{0, 9}, EarthRadiusNM * math.Pi / 180, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, brg := Inverse(tt.a, tt.b)
			assert.InDelta(t, tt.dist, d, tolNM)
			assert.InDelta(t, tt.bearing, brg, 1e-9)
		})
	}
}

func TestInverse_CoincidentPoints(t *testing.T) {
	d, brg := Inverse(Point{25, -83.2}, Point{25, -83.2})
	assert.Zero(t, d)
	assert.Zero(t, brg)
}

func TestInverse_Antipodal(t *testing.T) {
	d, _ := Inverse(Point{10, 20}, Point{-10, -160})
	assert.InDelta(t, EarthRadiusNM*math.Pi, d, 1e-3)
}

func TestDistance_Symmetric(t *testing.T) {
	pts := []Point{
		{25, -83.2}, {26.75, -80.1}, {-33.9, 151.2}, {64.1, -21.9}, {0, 179.9}, {0, -179.9}, {89.9, 0},
	}
	for i := range pts {
		for j := range pts {
			assert.InDelta(t, Distance(pts[i], pts[j]), Distance(pts[j], pts[i]), 1e-9,
				"distance %v -> %v", pts[i], pts[j])
		}
	}
}

func TestDirectInverse_RoundTrip(t *testing.T) {
	origins := []Point{{25, -83.2}, {14.5, -60}, {-20, 45}, {0, 179.5}}
	bearings := []float64{0, 37.5, 90, 145, 180, 233, 270, 315}
	distances := []float64{1, 60, 105, 450, 1500}

	for _, o := range origins {
		for _, brg := range bearings {
			for _, dist := range distances {
				t.Run(fmt.Sprintf("%v/%g/%g", o, brg, dist), func(t *testing.T) {
					dest := Direct(o, brg, dist)

					back, backBearing := Inverse(dest, o)
					assert.InDelta(t, dist, back, 1e-6)

					fwd, fwdBearing := Inverse(o, dest)
					assert.InDelta(t, dist, fwd, 1e-6)
					assert.InDelta(t, 0, angleDiff(brg, fwdBearing), 1e-6)

					// On a sphere the return bearing is the reciprocal of the
					// final (not initial) course; along meridians and the
					// equator the two coincide.
					if o.Lat == 0 && (brg == 90 || brg == 270) || brg == 0 || brg == 180 {
						assert.InDelta(t, 0, angleDiff(ReciprocalBearing(brg), backBearing), 1e-6)
					}
				})
			}
		}
	}
}

func TestDirect_WrapsAntimeridian(t *testing.T) {
	p := Direct(Point{0, 179.5}, 90, 60)
	assert.InDelta(t, 0, p.Lat, 1e-9)
	assert.InDelta(t, -179.5+(60/(EarthRadiusNM*math.Pi/180)-1), p.Lon, 1e-6)
	assert.GreaterOrEqual(t, p.Lon, -180.0)
	assert.Less(t, p.Lon, 180.0)
}

func TestDirect_OverThePole(t *testing.T) {
	nmPerDeg := EarthRadiusNM * math.Pi / 180
	p := Direct(Point{89, 0}, 0, 2*nmPerDeg)
	assert.InDelta(t, 89, p.Lat, 1e-9)
	assert.InDelta(t, 180, math.Abs(p.Lon), 1e-9)
}

func TestDirect_ZeroDistance(t *testing.T) {
	o := Point{25, -83.2}
	assert.Equal(t, o, Direct(o, 123, 0))
}

func TestInterpolate_EqualShares(t *testing.T) {
	a, b := Point{25, -83.2}, Point{27.5, -78}
	total := Distance(a, b)
	const n = 4

	prev := a
	for k := 1; k <= n+1; k++ {
		p := Interpolate(a, b, float64(k)/float64(n+1))
		assert.InDelta(t, total/float64(n+1), Distance(prev, p), 1e-6)
		prev = p
	}
	assert.InDelta(t, 0, Distance(prev, b), 1e-6)
}

func TestInterpolate_Endpoints(t *testing.T) {
	a, b := Point{10, 10}, Point{20, 30}
	assert.InDelta(t, 0, Distance(a, Interpolate(a, b, 0)), 1e-9)
	assert.InDelta(t, 0, Distance(b, Interpolate(a, b, 1)), 1e-9)
	assert.Equal(t, a, Interpolate(a, a, 0.5))
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 350, NormalizeBearing(-10), 1e-12)
	assert.InDelta(t, 10, NormalizeBearing(370), 1e-12)
	assert.InDelta(t, 0, NormalizeBearing(360), 1e-12)
	assert.InDelta(t, -170, NormalizeLongitude(190), 1e-12)
	assert.InDelta(t, 170, NormalizeLongitude(-190), 1e-12)
	assert.InDelta(t, -180, NormalizeLongitude(180), 1e-12)
	assert.InDelta(t, 90, ReciprocalBearing(270), 1e-12)
}

func TestDegMin(t *testing.T) {
	tests := []struct {
		in       float64
		deg, min int
	}{
		{25.5, 25, 30},
		{-83.2, -83, 12},
		{6.1, 6, 6},
		{1.9999, 2, 0},
		{0, 0, 0},
		{8.15, 8, 9},
	}
	for _, tt := range tests {
		d, m := DegMin(tt.in)
		assert.Equal(t, tt.deg, d, "degrees of %v", tt.in)
		assert.Equal(t, tt.min, m, "minutes of %v", tt.in)
	}
}

func TestPoint_Valid(t *testing.T) {
	assert.True(t, Point{25, -83}.Valid(-180, 180))
	assert.False(t, Point{91, -83}.Valid(-180, 180))
	assert.False(t, Point{25, -83}.Valid(-80, 0))
	assert.False(t, Point{math.NaN(), 0}.Valid(-180, 180))
}

func angleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeBearing(a) - NormalizeBearing(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
