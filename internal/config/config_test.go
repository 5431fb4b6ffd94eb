package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.MissionDir)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, 4, cfg.MaxTracks)
	assert.True(t, cfg.WestHemisphere)
	assert.True(t, cfg.UpdateStormCenter)
	assert.True(t, cfg.UpdateStormRelative)
	assert.InDelta(t, -180.0, cfg.MinLongitude, 0)
	assert.InDelta(t, 180.0, cfg.MaxLongitude, 0)
	assert.Equal(t, "citylocs", cfg.StationFile)
	assert.Equal(t, 256, cfg.StationCacheSize)
	assert.Empty(t, cfg.ProfileFile)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Plot)
	assert.True(t, cfg.HTML)
	assert.Equal(t, 1, cfg.Verbose)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.LogFile)
	assert.Empty(t, cfg.MetricsFile)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("TKMAP_MISSION_DIR", "/data/missions")
	t.Setenv("TKMAP_OUTPUT_DIR", "/data/out")
	t.Setenv("TKMAP_MAX_TRACKS", "9")
	t.Setenv("TKMAP_WEST_HEMISPHERE", "false")
	t.Setenv("TKMAP_UPDATE_STORM_CENTER", "false")
	t.Setenv("TKMAP_UPDATE_STORM_RELATIVE", "0")
	t.Setenv("TKMAP_MIN_LONGITUDE", "-100")
	t.Setenv("TKMAP_MAX_LONGITUDE", "-20.5")
	t.Setenv("TKMAP_STATION_FILE", "/etc/citylocs")
	t.Setenv("TKMAP_STATION_CACHE_SIZE", "32")
	t.Setenv("TKMAP_PROFILE_FILE", "profiles.json")
	t.Setenv("TKMAP_WORKERS", "8")
	t.Setenv("TKMAP_PLOT", "false")
	t.Setenv("TKMAP_HTML", "false")
	t.Setenv("TKMAP_VERBOSE", "3")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_FILE", "/var/log/trackdis.log")
	t.Setenv("TKMAP_METRICS_FILE", "/var/lib/node_exporter/trackdis.prom")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/missions", cfg.MissionDir)
	assert.Equal(t, "/data/out", cfg.OutputDir)
	assert.Equal(t, 9, cfg.MaxTracks)
	assert.False(t, cfg.WestHemisphere)
	assert.False(t, cfg.UpdateStormCenter)
	assert.False(t, cfg.UpdateStormRelative)
	assert.InDelta(t, -100.0, cfg.MinLongitude, 0)
	assert.InDelta(t, -20.5, cfg.MaxLongitude, 0)
	assert.Equal(t, "/etc/citylocs", cfg.StationFile)
	assert.Equal(t, 32, cfg.StationCacheSize)
	assert.Equal(t, "profiles.json", cfg.ProfileFile)
	assert.Equal(t, 8, cfg.Workers)
	assert.False(t, cfg.Plot)
	assert.False(t, cfg.HTML)
	assert.Equal(t, 3, cfg.Verbose)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/var/log/trackdis.log", cfg.LogFile)
	assert.Equal(t, "/var/lib/node_exporter/trackdis.prom", cfg.MetricsFile)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TKMAP_MAX_TRACKS", "0"},
		{"TKMAP_MAX_TRACKS", "100"},
		{"TKMAP_MAX_TRACKS", "four"},
		{"TKMAP_VERBOSE", "4"},
		{"TKMAP_WORKERS", "0"},
		{"TKMAP_STATION_CACHE_SIZE", "-1"},
		{"TKMAP_WEST_HEMISPHERE", "maybe"},
		{"TKMAP_MIN_LONGITUDE", "west"},
		{"TKMAP_MIN_LONGITUDE", "-181"},
		{"TKMAP_MAX_LONGITUDE", "-180"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestValidate_AfterOverride(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Workers = 0
	assert.ErrorContains(t, cfg.Validate(), "TKMAP_WORKERS")
}
