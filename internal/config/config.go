package config

import (
	"errors"
	"fmt"
	"strconv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
// Command-line flags may override individual fields after Load.
type Config struct {
	MissionDir string
	OutputDir  string
	MaxTracks  int

	WestHemisphere      bool
	UpdateStormCenter   bool
	UpdateStormRelative bool
	MinLongitude        float64
	MaxLongitude        float64

	StationFile      string
	StationCacheSize int
	ProfileFile      string // empty uses the built-in table

	Workers int
	Plot    bool
	HTML    bool

	Verbose     int
	LogFormat   string
	LogFile     string
	MetricsFile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var p parser
	cfg := &Config{
		MissionDir: sharedcfg.EnvOrDefault("TKMAP_MISSION_DIR", "."),
		OutputDir:  sharedcfg.EnvOrDefault("TKMAP_OUTPUT_DIR", "."),
		MaxTracks:  p.intVar("TKMAP_MAX_TRACKS", 4),

		WestHemisphere:      p.boolVar("TKMAP_WEST_HEMISPHERE", true),
		UpdateStormCenter:   p.boolVar("TKMAP_UPDATE_STORM_CENTER", true),
		UpdateStormRelative: p.boolVar("TKMAP_UPDATE_STORM_RELATIVE", true),
		MinLongitude:        p.floatVar("TKMAP_MIN_LONGITUDE", -180),
		MaxLongitude:        p.floatVar("TKMAP_MAX_LONGITUDE", 180),

		StationFile:      sharedcfg.EnvOrDefault("TKMAP_STATION_FILE", "citylocs"),
		StationCacheSize: p.intVar("TKMAP_STATION_CACHE_SIZE", 256),
		ProfileFile:      sharedcfg.EnvOrDefault("TKMAP_PROFILE_FILE", ""),

		Workers: p.intVar("TKMAP_WORKERS", 4),
		Plot:    p.boolVar("TKMAP_PLOT", true),
		HTML:    p.boolVar("TKMAP_HTML", true),

		Verbose:     p.intVar("TKMAP_VERBOSE", 1),
		LogFormat:   sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		LogFile:     sharedcfg.EnvOrDefault("LOG_FILE", ""),
		MetricsFile: sharedcfg.EnvOrDefault("TKMAP_METRICS_FILE", ""),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges. It is also run after flag overrides.
func (c *Config) Validate() error {
	if c.MaxTracks < 1 || c.MaxTracks > 99 {
		return errors.New("invalid TKMAP_MAX_TRACKS: must be 1-99")
	}
	if c.Verbose < 0 || c.Verbose > 3 {
		return errors.New("invalid TKMAP_VERBOSE: must be 0-3")
	}
	if c.Workers < 1 {
		return errors.New("invalid TKMAP_WORKERS: must be at least 1")
	}
	if c.StationCacheSize < 1 {
		return errors.New("invalid TKMAP_STATION_CACHE_SIZE: must be at least 1")
	}
	if c.MinLongitude < -180 || c.MaxLongitude > 180 || c.MinLongitude >= c.MaxLongitude {
		return errors.New("invalid TKMAP_MIN_LONGITUDE/TKMAP_MAX_LONGITUDE: need -180 <= min < max <= 180")
	}
	if c.OutputDir == "" {
		return errors.New("TKMAP_OUTPUT_DIR is required")
	}
	return nil
}

// parser keeps the first conversion error so Load reads linearly.
type parser struct {
	err error
}

func (p *parser) intVar(key string, fallback int) int {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(fallback))
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(key, "an integer")
		return fallback
	}
	return n
}

func (p *parser) floatVar(key string, fallback float64) float64 {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatFloat(fallback, 'f', -1, 64))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(key, "a number")
		return fallback
	}
	return v
}

func (p *parser) boolVar(key string, fallback bool) bool {
	s := sharedcfg.EnvOrDefault(key, strconv.FormatBool(fallback))
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(key, "true or false")
		return fallback
	}
	return b
}

func (p *parser) fail(key, want string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: must be %s", key, want)
	}
}
