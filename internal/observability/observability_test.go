package observability

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbose int
		want    string
	}{
		{-1, "warn"},
		{0, "warn"},
		{1, "info"},
		{2, "debug"},
		{3, "debug"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, LevelForVerbosity(tc.verbose), "verbose=%d", tc.verbose)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("text at info drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, LogOptions{Format: "text", Verbose: 1})

		logger.Debug("hidden")
		logger.Info("shown", "mission", 1)
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown mission=1")
	})

	t.Run("json at debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, LogOptions{Format: "json", Verbose: 2})

		logger.Debug("dbg")
		assert.Contains(t, buf.String(), `"msg":"dbg"`)
	})

	t.Run("quiet keeps warnings", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, LogOptions{Format: "text", Verbose: 0})

		logger.Info("hidden")
		logger.Warn("kept")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=kept")
	})

	t.Run("rotating file", func(t *testing.T) {
		prev := slog.Default()
		t.Cleanup(func() { slog.SetDefault(prev) })

		path := filepath.Join(t.TempDir(), "trackdis.log")
		logger, closer := NewLogger(LogOptions{Format: "text", Verbose: 1, File: path})
		logger.Warn("to file")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to file")
	})
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.MissionsProcessed.WithLabelValues("success").Inc()
	m.MissionsProcessed.WithLabelValues("failure").Add(2)
	m.MissionErrors.WithLabelValues("unknown_aircraft").Inc()
	m.TrackDistance.WithLabelValues("42").Observe(1200)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.MissionsProcessed.WithLabelValues("success")), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.MissionsProcessed.WithLabelValues("failure")), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.TrackDistance))

	// A second set must not collide with the first.
	assert.NotPanics(t, func() { NewMetrics() })
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.MissionsProcessed.WithLabelValues("success").Inc()
	m.RunDuration.Set(1.5)

	path := filepath.Join(t.TempDir(), "trackdis.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `trackdis_missions_processed_total{outcome="success"} 1`)
	assert.Contains(t, string(data), "trackdis_run_duration_seconds 1.5")
}
