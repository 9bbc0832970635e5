package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	logger      *slog.Logger
	loggerMutex sync.Mutex
	level       = slog.LevelWarn
)

// SetLevel configures the level newly-created loggers will use. Must be
// called, if at all, before the first call to Log.
func SetLevel(l slog.Level) {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	level = l
	logger = nil
}

// ParseLevel maps a node config's log_level string onto an slog.Level,
// defaulting to Warn for an empty or unrecognized value.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "info", "INFO":
		return slog.LevelInfo
	case "warn", "WARN":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Log returns the thread-safe singleton *slog.Logger, configured for JSON
// output to stdout at the level set by SetLevel (or Warn by default).
func Log() *slog.Logger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if logger != nil {
		return logger
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	return logger
}

// Fatal logs msg at error level with the given key-value attributes and
// terminates the process. Used when persisting app_state.json fails during
// init_chain or commit, which leaves the node in no usable state.
func Fatal(msg string, args ...any) {
	Log().Error(msg, args...)
	os.Exit(1)
}
