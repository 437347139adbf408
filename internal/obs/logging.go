// Package obs contains observability utilities: logging and tracing.
package obs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger is the global structured logger used by the service.
var Logger = newLogger(slog.LevelInfo)

func newLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// InitLogger installs a JSON logger at info level.
func InitLogger() {
	Logger = newLogger(slog.LevelInfo)
}

// Configure installs a JSON logger at the named level.
func Configure(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Logger = newLogger(parsed)
	return nil
}

// ParseLevel accepts debug, info, warn and error. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}
