package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps debug/info/warn/error (any case) to a slog level. Anything
// else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init configures slog to write text records to stdout and <dir>/<name>.log,
// installs the logger as the slog default and points the stdlib log package
// at the same writer. The returned closer releases the log file; it is a
// no-op when the file could not be opened and logging fell back to stdout.
func Init(dir, name, level string) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if dir == "" {
		dir = "./logs"
	}
	if name == "" {
		name = "hud"
	}
	_ = os.MkdirAll(dir, 0o755)

	filePath := filepath.Join(dir, name+".log")
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
		logger.Error("failed to open log file; falling back to stdout only", "path", filePath, "error", err)
		slog.SetDefault(logger)
		return logger, nopCloser{}
	}

	mw := NewMultiWriter(f, os.Stdout)
	logger := slog.New(slog.NewTextHandler(mw, opts))
	slog.SetDefault(logger)
	log.SetOutput(mw)
	return logger, f
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
