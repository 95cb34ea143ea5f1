package config

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the application-wide structured logger.
var Logger zerolog.Logger

var logMu sync.RWMutex

// InitLogger replaces Logger with one at the given level. format "json" writes
// one JSON object per line to stderr, anything else uses the console writer.
// An unparsable level falls back to info.
func InitLogger(level, format string) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo is InitLogger with an explicit destination.
func InitLoggerTo(out io.Writer, level, format string) {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	w := out
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// GetLogger returns the current logger.
func GetLogger() zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return Logger
}

func init() {
	InitLogger("info", "console")
}
