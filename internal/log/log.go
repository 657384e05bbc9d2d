package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/mmcdole/cinematch/internal/config"
)

// SetupLogger initializes a JSON slog logger writing to the configured file.
// The TUI owns the terminal, so nothing is written to stderr.
func SetupLogger(cfg *config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	logPath := cfg.File
	if strings.HasPrefix(logPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		logPath = filepath.Join(home, logPath[1:])
	}

	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})
	return slog.New(handler), logFile, nil
}

// ConsoleLogger returns a colored logger on w for print mode
func ConsoleLogger(w io.Writer, level string, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
