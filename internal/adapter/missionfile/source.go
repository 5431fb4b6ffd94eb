// Package missionfile finds mission-definition files on disk and parses them.
package missionfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
)

// ErrNoMissions is returned when discovery finds no mission files.
var ErrNoMissions = errors.New("no mission files found")

// NamePattern is the conventional mission file name; %d is the track number.
const NamePattern = "current%d.ftk"

// Source lists and reads mission files. A Source built by Discover looks
// for numbered files in a directory; one built by Explicit reads the given
// paths in order.
type Source struct {
	dir       string
	maxTracks int
	paths     []string
	opts      domain.ParseOptions
	logger    *slog.Logger
}

// Discover returns a Source that looks for current1.ftk through
// current{maxTracks}.ftk in dir.
func Discover(dir string, maxTracks int, opts domain.ParseOptions, logger *slog.Logger) *Source {
	return &Source{dir: dir, maxTracks: maxTracks, opts: opts, logger: logger}
}

// Explicit returns a Source over paths. The i-th path gets track number i+1.
func Explicit(paths []string, opts domain.ParseOptions, logger *slog.Logger) *Source {
	return &Source{paths: paths, opts: opts, logger: logger}
}

// Missions returns the mission files to process, ordered by number.
func (s *Source) Missions(_ context.Context) ([]domain.MissionFile, error) {
	if s.paths != nil {
		files := make([]domain.MissionFile, 0, len(s.paths))
		for i, p := range s.paths {
			files = append(files, domain.MissionFile{Number: i + 1, Path: p})
		}
		if len(files) == 0 {
			return nil, ErrNoMissions
		}
		return files, nil
	}

	var files []domain.MissionFile
	for n := 1; n <= s.maxTracks; n++ {
		path := filepath.Join(s.dir, fmt.Sprintf(NamePattern, n))
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat mission: %w", err)
		}
		if info.IsDir() {
			s.logger.Warn("skipping mission path that is a directory", "path", path)
			continue
		}
		files = append(files, domain.MissionFile{Number: n, Path: path})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (looked for %s..%s)", ErrNoMissions, s.dir,
			fmt.Sprintf(NamePattern, 1), fmt.Sprintf(NamePattern, s.maxTracks))
	}
	s.logger.Info("missions discovered", "dir", s.dir, "count", len(files))
	return files, nil
}

// Read opens and parses one mission file. The returned mission's Source is
// the file path.
func (s *Source) Read(_ context.Context, f domain.MissionFile) (domain.Mission, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("open mission: %w", err)
	}
	defer fh.Close()

	m, err := domain.ParseMission(fh, s.opts)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("%s: %w", f.Path, err)
	}
	m.Source = f.Path
	return m, nil
}
