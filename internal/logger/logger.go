// Package logger configures structured file logging. The TUI owns the
// terminal, so log output always goes to a file, never to stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New opens the log file and returns a logger tagged with a fresh run id.
// The caller closes the returned file on shutdown.
//
// TRACKER_LOG_PATH overrides the file location, TRACKER_LOG_LEVEL the
// minimum level (default info).
func New() (zerolog.Logger, io.Closer, error) {
	path, err := logPath()
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	log := NewWithWriter(file).Level(levelFromEnv())
	return log, file, nil
}

// NewWithWriter creates a structured logger against a custom writer.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

func logPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("TRACKER_LOG_PATH")); p != "" {
		return p, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(configDir, "tracker", "tracker.log"), nil
}

func levelFromEnv() zerolog.Level {
	raw := strings.TrimSpace(os.Getenv("TRACKER_LOG_LEVEL"))
	if raw == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
