// Package logger builds the zerolog logger shared by the walker tools.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// #region options

// Options configures the logger.
type Options struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"` // "console" | "json"
	File      string `mapstructure:"file"`   // optional rotating log file
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	Writer    io.Writer
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_FILE.
func FromEnv() Options {
	return Options{
		Level:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		Format: strings.ToLower(envOr("LOG_FORMAT", "console")),
		File:   os.Getenv("LOG_FILE"),
	}
}

// #endregion options

// #region build

// New builds a logger from opt without touching the process root.
func New(opt Options) zerolog.Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	if opt.File != "" {
		size := opt.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		w = zerolog.MultiLevelWriter(w, &lumberjack.Logger{
			Filename:   opt.File,
			MaxSize:    size,
			MaxBackups: 3,
			Compress:   true,
		})
	}
	return zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp().Logger()
}

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init sets the process root logger. Only the first call has an effect.
func Init(opt Options) {
	once.Do(func() {
		l := New(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, initializing it from the environment if needed.
func Get() zerolog.Logger {
	if l := root.Load(); l != nil {
		return *l
	}
	Init(FromEnv())
	return *root.Load()
}

// #endregion build

// #region helpers

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
