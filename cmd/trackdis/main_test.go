package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalog = "LAKELAND 27.99 -82.02\n"

const stormMission = `42 23/2200Z AL09 Ian
H 25.0 83.2 0 0
A LAKELAND
S 105 0 10000
S 105 90 10000
I 2 12000
S 105 180 10000
Z LAKELAND
`

func setupRun(t *testing.T, missions map[string]string) (missionDir, outDir string) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	root := t.TempDir()
	missionDir = filepath.Join(root, "missions")
	outDir = filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(missionDir, 0o755))
	for name, body := range missions {
		require.NoError(t, os.WriteFile(filepath.Join(missionDir, name), []byte(body), 0o644))
	}
	stations := filepath.Join(root, "citylocs")
	require.NoError(t, os.WriteFile(stations, []byte(catalog), 0o644))

	t.Setenv("TKMAP_MISSION_DIR", missionDir)
	t.Setenv("TKMAP_OUTPUT_DIR", outDir)
	t.Setenv("TKMAP_STATION_FILE", stations)
	t.Setenv("TKMAP_VERBOSE", "0")
	return missionDir, outDir
}

func products(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRun_WritesProducts(t *testing.T) {
	_, out := setupRun(t, map[string]string{"current1.ftk": stormMission})
	metrics := filepath.Join(t.TempDir(), "trackdis.prom")

	code := run(context.Background(), []string{"-metrics", metrics}, &bytes.Buffer{})
	require.Equal(t, 0, code)

	assert.Equal(t, []string{
		"drops1.txt", "hurrloc1", "points1", "points_extra1", "track1.geojson", "turns1.txt",
	}, products(t, out))

	turns, err := os.ReadFile(filepath.Join(out, "turns1.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(turns), " MISSION PLAN:  AL09 IAN\n")
	assert.Contains(t, string(turns), " Aircraft: N42RF")
	assert.Contains(t, string(turns), "LAKELAND")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `trackdis_missions_processed_total{outcome="success"} 1`)
}

func TestRun_FailedMissionSetsExitCode(t *testing.T) {
	_, out := setupRun(t, map[string]string{
		"current1.ftk": stormMission,
		"current2.ftk": "99 23/2200Z\nA LAKELAND\n25 80 10000\nZ LAKELAND\n",
	})

	code := run(context.Background(), []string{"-plot=false", "-html=false"}, &bytes.Buffer{})
	assert.Equal(t, 1, code)
	assert.Equal(t, []string{"drops1.txt", "turns1.txt"}, products(t, out))
}

func TestRun_ExplicitPaths(t *testing.T) {
	dir, out := setupRun(t, nil)
	path := filepath.Join(dir, "ian.ftk")
	require.NoError(t, os.WriteFile(path, []byte(stormMission), 0o644))

	code := run(context.Background(), []string{"-html=false", path}, &bytes.Buffer{})
	require.Equal(t, 0, code)
	assert.Contains(t, products(t, out), "turns1.txt")
}

func TestRun_NoMissions(t *testing.T) {
	setupRun(t, nil)
	assert.Equal(t, 1, run(context.Background(), nil, &bytes.Buffer{}))
}

func TestRun_BadFlag(t *testing.T) {
	setupRun(t, nil)
	var stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-verbose", "9"}, &stderr))
	assert.Contains(t, stderr.String(), "TKMAP_VERBOSE")
}
