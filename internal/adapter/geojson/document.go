// Package geojson serializes a track into the GeoJSON document the
// interactive track editor loads.
package geojson

import (
	"fmt"
	"io"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/storm-flight-track/internal/track"
)

// Feature roles carried in the "role" property.
const (
	RoleRoute = "route"
	RolePoint = "point"
	RoleStorm = "storm"
)

// Document builds the feature collection for t: the route as a LineString in
// flight order, one Point feature per resolved point, and the takeoff-time
// storm center when the mission has one.
func Document(t track.Track) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	route := make(orb.LineString, 0, len(t.Points))
	for _, p := range t.Points {
		route = append(route, orb.Point{p.Position.Lon, p.Position.Lat})
	}
	rf := geojson.NewFeature(route)
	rf.Properties["role"] = RoleRoute
	rf.Properties["title"] = t.Mission.Title
	rf.Properties["aircraft"] = t.Profile.CallSign
	rf.Properties["takeoff"] = t.Mission.Takeoff.String()
	rf.Properties["total_nm"] = t.TotalNM
	rf.Properties["duration"] = clock(t.Duration)
	fc.Append(rf)

	for _, p := range t.Points {
		f := geojson.NewFeature(orb.Point{p.Position.Lon, p.Position.Lat})
		f.Properties["role"] = RolePoint
		f.Properties["seq"] = p.Seq
		f.Properties["kind"] = p.Kind.String()
		f.Properties["turn"] = p.Turn
		f.Properties["drop"] = p.Drop
		f.Properties["altitude_ft"] = p.AltitudeFt
		f.Properties["leg_nm"] = p.LegNM
		f.Properties["total_nm"] = p.TotalNM
		f.Properties["elapsed"] = clock(p.Elapsed)
		f.Properties["airspeed_kt"] = p.AirspeedKt
		if !p.ETA.IsZero() {
			f.Properties["eta"] = p.ETA.UTC().Format(time.RFC3339)
		}
		if p.Station != "" {
			f.Properties["station"] = p.Station
		}
		if p.Relative != nil {
			f.Properties["radius_nm"] = p.Relative.RadiusNM
			f.Properties["azimuth_deg"] = p.Relative.Azimuth
		}
		fc.Append(f)
	}

	if ref, ok := t.Storm.Reference(); ok {
		f := geojson.NewFeature(orb.Point{ref.Position.Lon, ref.Position.Lat})
		f.Properties["role"] = RoleStorm
		f.Properties["motion_bearing"] = ref.MotionBearing
		f.Properties["motion_kt"] = ref.MotionSpeedKt
		fc.Append(f)
	}
	return fc
}

// Write encodes the document for t to w.
func Write(w io.Writer, t track.Track) error {
	data, err := Document(t).MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}

func clock(d time.Duration) string {
	m := int(d.Round(time.Minute).Minutes())
	return fmt.Sprintf("%d:%02d", m/60, m%60)
}
