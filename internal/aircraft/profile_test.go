package aircraft

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
)

func TestDefault_Speeds(t *testing.T) {
	table := Default()

	tests := []struct {
		name    string
		id      string
		alt     float64
		want    float64
		clamped bool
	}{
		{"P-3 at breakpoint", "42", 10000, 242, false},
		{"P-3 steps down to lower breakpoint", "42", 11999, 242, false},
		{"P-3 lowest breakpoint", "43", 5000, 218, false},
		{"P-3 between first breakpoints", "43", 7000, 218, false},
		{"P-3 top breakpoint", "42", 20000, 300, false},
		{"P-3 below range clamps", "42", 1500, 218, true},
		{"P-3 above range clamps", "42", 25000, 300, true},
		{"G-IV in range", "49", 43000, 442, false},
		{"G-IV below range flagged", "49", 20000, 442, true},
		{"C-130J in range", "50", 30000, 290, false},
		{"DC-8 in range", "51", 18000, 440, false},
		{"Global Hawk in range", "52", 60000, 335, false},
		{"WB-57 interpolates", "57", 45000, 325, false},
		{"WB-57 at breakpoint", "57", 50000, 350, false},
		{"WB-57 above range clamps", "57", 65000, 400, true},
		{"WB-57 below range clamps", "57", 10000, 300, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := table.Lookup(tc.id)
			require.NoError(t, err)
			got, clamped := p.Speed(tc.alt)
			assert.InDelta(t, tc.want, got, 1e-9)
			assert.Equal(t, tc.clamped, clamped)
		})
	}
}

func TestDefault_Profiles(t *testing.T) {
	table := Default()
	assert.Equal(t, []string{"42", "43", "49", "50", "51", "52", "57"}, table.IDs())

	p3, err := table.Lookup("42")
	require.NoError(t, err)
	assert.Equal(t, "N42RF", p3.CallSign)
	assert.Equal(t, 330.0, p3.CruiseKt)
	assert.Nil(t, p3.Padding)

	gh, err := table.Lookup("52")
	require.NoError(t, err)
	require.NotNil(t, gh.Padding)
	assert.Equal(t, 30*time.Minute, gh.Padding.Duration())
	assert.Equal(t, 167.5, gh.Padding.DistanceNM)

	low, high := gh.Range()
	assert.Equal(t, 55000.0, low)
	assert.Equal(t, 60000.0, high)
}

func TestLookup_UnknownAircraft(t *testing.T) {
	_, err := Default().Lookup("99")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownAircraft)
	assert.Contains(t, err.Error(), `"99"`)
}

func TestLoad(t *testing.T) {
	t.Run("call sign defaults from id", func(t *testing.T) {
		in := `{"aircraft":[{"id":"60","mode":"constant","cruise_kt":250,"breakpoints":[{"altitude_ft":1000,"speed_kt":250}]}]}`
		table, err := Load(strings.NewReader(in))
		require.NoError(t, err)
		p, err := table.Lookup("60")
		require.NoError(t, err)
		assert.Equal(t, "N60RF", p.CallSign)
	})

	bad := []struct {
		name string
		in   string
		msg  string
	}{
		{"invalid json", `{"aircraft":`, "decode profiles"},
		{"unknown field", `{"aircraft":[],"extra":1}`, "decode profiles"},
		{"missing id", `{"aircraft":[{"mode":"step","cruise_kt":1,"breakpoints":[{"altitude_ft":1,"speed_kt":1}]}]}`, "missing id"},
		{"bad mode", `{"aircraft":[{"id":"1","mode":"cubic","cruise_kt":1,"breakpoints":[{"altitude_ft":1,"speed_kt":1}]}]}`, "unknown mode"},
		{"zero cruise", `{"aircraft":[{"id":"1","mode":"step","cruise_kt":0,"breakpoints":[{"altitude_ft":1,"speed_kt":1}]}]}`, "cruise speed"},
		{"no breakpoints", `{"aircraft":[{"id":"1","mode":"step","cruise_kt":1,"breakpoints":[]}]}`, "no breakpoints"},
		{"zero speed", `{"aircraft":[{"id":"1","mode":"step","cruise_kt":1,"breakpoints":[{"altitude_ft":1,"speed_kt":0}]}]}`, "speed must be positive"},
		{"descending", `{"aircraft":[{"id":"1","mode":"step","cruise_kt":1,"breakpoints":[{"altitude_ft":2,"speed_kt":1},{"altitude_ft":1,"speed_kt":1}]}]}`, "ascend"},
		{"duplicate", `{"aircraft":[{"id":"1","mode":"step","cruise_kt":1,"breakpoints":[{"altitude_ft":1,"speed_kt":1}]},{"id":"1","mode":"step","cruise_kt":1,"breakpoints":[{"altitude_ft":1,"speed_kt":1}]}]}`, "duplicate"},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile(t.TempDir() + "/missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open profiles")
}
