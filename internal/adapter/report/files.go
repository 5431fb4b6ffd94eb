package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-flight-track/internal/adapter/geojson"
	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/track"
)

// Product file names; %d is the mission number.
const (
	TurnsFile       = "turns%d.txt"
	DropsFile       = "drops%d.txt"
	PointsFile      = "points%d"
	PointsExtraFile = "points_extra%d"
	StormFile       = "hurrloc%d"
	TrackFile       = "track%d.geojson"
)

// FileWriterOptions selects which consumer handoff files are written. The
// turn and drop tables are always written.
type FileWriterOptions struct {
	Plot bool // points, points_extra and hurrloc
	HTML bool // track GeoJSON
}

// FileWriter writes every product of a finished track into one directory.
type FileWriter struct {
	dir    string
	opts   FileWriterOptions
	logger *slog.Logger
}

// NewFileWriter returns a FileWriter rooted at dir.
func NewFileWriter(dir string, opts FileWriterOptions, logger *slog.Logger) *FileWriter {
	return &FileWriter{dir: dir, opts: opts, logger: logger}
}

type product struct {
	name string
	data []byte
}

// Load renders every product for t in memory, then writes them. A render
// failure leaves no files behind for the mission.
func (w *FileWriter) Load(ctx context.Context, f domain.MissionFile, t track.Track) error {
	products, err := w.render(f.Number, t)
	if err != nil {
		return fmt.Errorf("render mission %d: %w", f.Number, err)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(w.dir, p.name)
		if err := os.WriteFile(path, p.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
		w.logger.Debug("product written", "path", path, "bytes", len(p.data))
	}
	w.logger.Info("products written", "mission", f.Path, "number", f.Number, "files", len(products))
	return nil
}

func (w *FileWriter) render(n int, t track.Track) ([]product, error) {
	var out []product
	add := func(pattern string, write func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := write(&buf); err != nil {
			return err
		}
		out = append(out, product{name: fmt.Sprintf(pattern, n), data: buf.Bytes()})
		return nil
	}

	if err := add(TurnsFile, func(b *bytes.Buffer) error { return WriteTurns(b, t) }); err != nil {
		return nil, err
	}
	if err := add(DropsFile, func(b *bytes.Buffer) error { return WriteDrops(b, t) }); err != nil {
		return nil, err
	}

	if w.opts.Plot {
		if err := add(PointsFile, func(b *bytes.Buffer) error { return WritePoints(b, t) }); err != nil {
			return nil, err
		}
		if err := add(PointsExtraFile, func(b *bytes.Buffer) error { return WritePointsExtra(b, t) }); err != nil {
			return nil, err
		}
		var storm bytes.Buffer
		ok, err := WriteStormLocation(&storm, t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, product{name: fmt.Sprintf(StormFile, n), data: storm.Bytes()})
		}
	}

	if w.opts.HTML {
		if err := add(TrackFile, func(b *bytes.Buffer) error { return geojson.Write(b, t) }); err != nil {
			return nil, err
		}
	}
	return out, nil
}
