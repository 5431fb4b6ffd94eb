package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goforj/godump"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-flight-track/internal/domain"
	"github.com/couchcryptid/storm-flight-track/internal/track"
)

// TrackTransformer implements Transformer with a track.Builder. The
// takeoff day/HHMM is resolved against the clock's current month.
type TrackTransformer struct {
	builder     *track.Builder
	clock       clockwork.Clock
	logger      *slog.Logger
	dumpRecords bool
}

// NewTransformer creates a TrackTransformer. With dumpRecords set every
// parsed record sequence is dumped at debug level.
func NewTransformer(b *track.Builder, clock clockwork.Clock, logger *slog.Logger, dumpRecords bool) *TrackTransformer {
	return &TrackTransformer{builder: b, clock: clock, logger: logger, dumpRecords: dumpRecords}
}

// Transform builds the track for m.
func (t *TrackTransformer) Transform(ctx context.Context, m domain.Mission) (track.Track, error) {
	if err := ctx.Err(); err != nil {
		return track.Track{}, err
	}
	if t.dumpRecords {
		t.logger.Debug("parsed records", "mission", m.Source, "records", godump.DumpStr(m.Records))
	}

	takeoff := m.Takeoff.In(t.clock.Now())
	tr, err := t.builder.WithTakeoff(takeoff).Build(m)
	if err != nil {
		if m.Source != "" {
			return track.Track{}, fmt.Errorf("%s: %w", m.Source, err)
		}
		return track.Track{}, err
	}
	return tr, nil
}
