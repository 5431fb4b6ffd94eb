// Package station resolves takeoff and landing station names to positions
// from a flat station catalog file.
package station

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/storm-flight-track/internal/geodesy"
)

// Station is one catalog entry.
type Station struct {
	Name     string
	Position geodesy.Point
}

// Catalog is an in-memory station list. It implements domain.StationResolver
// and is safe for concurrent reads.
type Catalog struct {
	stations []Station
	byName   map[string]geodesy.Point
}

// ParseCatalog reads one station per line: a free-text name and two signed
// decimal numbers (latitude then longitude), in any order. Blank lines and
// lines starting with '#' are skipped.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]geodesy.Point)}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var (
			nums []float64
			name []string
		)
		for _, tok := range strings.Fields(line) {
			if v, err := strconv.ParseFloat(tok, 64); err == nil && len(nums) < 2 {
				nums = append(nums, v)
				continue
			}
			name = append(name, tok)
		}
		if len(nums) < 2 || len(name) == 0 {
			return nil, fmt.Errorf("station catalog line %d: want <name> <lat> <lon>, got %q", lineNo, line)
		}

		s := Station{Name: strings.Join(name, " "), Position: geodesy.Point{Lat: nums[0], Lon: nums[1]}}
		c.stations = append(c.stations, s)
		key := strings.ToUpper(s.Name)
		if _, dup := c.byName[key]; !dup {
			c.byName[key] = s.Position
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read station catalog: %w", err)
	}
	return c, nil
}

// LoadCatalog reads the catalog at path. A missing file is logged and gives
// an empty catalog, so every station falls back to its neighbouring point.
func LoadCatalog(path string, logger *slog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("station catalog not found, stations will anchor on neighbouring points", "path", path)
		return &Catalog{byName: map[string]geodesy.Point{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open station catalog: %w", err)
	}
	defer f.Close()

	c, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("station catalog loaded", "path", path, "stations", c.Len())
	return c, nil
}

// Resolve looks a station up by exact name, ignoring case, and then by the
// first entry whose name contains it.
func (c *Catalog) Resolve(name string) (geodesy.Point, bool) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		return geodesy.Point{}, false
	}
	if p, ok := c.byName[key]; ok {
		return p, true
	}
	for _, s := range c.stations {
		if strings.Contains(strings.ToUpper(s.Name), key) {
			return s.Position, true
		}
	}
	return geodesy.Point{}, false
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.stations) }

// Stations returns a copy of the catalog entries in file order.
func (c *Catalog) Stations() []Station {
	out := make([]Station, len(c.stations))
	copy(out, c.stations)
	return out
}
