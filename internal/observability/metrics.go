package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "trackdis"

// Metrics holds the counters and histograms for one run. Each Metrics has
// its own registry so a run's textfile carries only its own series.
type Metrics struct {
	MissionsProcessed *prometheus.CounterVec // labels: outcome={success,failure}
	MissionErrors     *prometheus.CounterVec // labels: kind
	PointsEmitted     *prometheus.CounterVec // labels: role={turn,drop,intermediate,storm_relative}
	AirspeedClamped   prometheus.Counter

	TrackDistance *prometheus.HistogramVec // labels: aircraft
	TrackDuration *prometheus.HistogramVec // labels: aircraft

	MissionDuration prometheus.Histogram
	RunDuration     prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all run metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MissionsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missions_processed_total",
			Help:      "Missions processed by outcome.",
		}, []string{"outcome"}),
		MissionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mission_errors_total",
			Help:      "Failed missions by error kind.",
		}, []string{"kind"}),
		PointsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_emitted_total",
			Help:      "Resolved points by role. A point may count under several roles.",
		}, []string{"role"}),
		AirspeedClamped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airspeed_clamped_total",
			Help:      "Speed lookups outside the aircraft's documented altitudes.",
		}),
		TrackDistance: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "track_distance_nm",
			Help:      "Total track distance in nautical miles.",
			Buckets:   []float64{250, 500, 750, 1000, 1500, 2000, 3000, 5000},
		}, []string{"aircraft"}),
		TrackDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "track_duration_hours",
			Help:      "Total mission duration in hours.",
			Buckets:   []float64{1, 2, 4, 6, 8, 10, 12, 16, 24, 32},
		}, []string{"aircraft"}),
		MissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mission_processing_duration_seconds",
			Help:      "Wall time to parse, build and write one mission.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.MissionsProcessed,
		m.MissionErrors,
		m.PointsEmitted,
		m.AirspeedClamped,
		m.TrackDistance,
		m.TrackDuration,
		m.MissionDuration,
		m.RunDuration,
	)
	return m
}

// Registry returns the registry holding the run metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the metrics in Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
