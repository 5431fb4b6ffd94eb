package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures NewLogger.
type LogOptions struct {
	Format  string // "text" for human-readable, anything else for JSON
	Verbose int    // 0 warn, 1 info, 2 and above debug
	File    string // optional rotating log file
}

// LevelForVerbosity maps the CLI verbosity to a slog level name.
func LevelForVerbosity(v int) string {
	switch {
	case v <= 0:
		return "warn"
	case v == 1:
		return "info"
	default:
		return "debug"
	}
}

// NewLogger builds the process logger and sets it as the slog default.
// Output goes to stdout, and also to a rotating file when opts.File is set.
// The returned closer releases the file.
func NewLogger(opts LogOptions) (*slog.Logger, io.Closer) {
	if opts.File == "" {
		return sharedobs.NewLogger(LevelForVerbosity(opts.Verbose), opts.Format), nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    32, // MB
		MaxBackups: 3,
		MaxAge:     14,
	}
	logger := newLogger(io.MultiWriter(os.Stdout, lj), opts)
	slog.SetDefault(logger)
	return logger, lj
}

func newLogger(w io.Writer, opts LogOptions) *slog.Logger {
	var level slog.Level
	_ = level.UnmarshalText([]byte(LevelForVerbosity(opts.Verbose)))

	ho := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(opts.Format, "text") {
		return slog.New(slog.NewTextHandler(w, ho))
	}
	return slog.New(slog.NewJSONHandler(w, ho))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
