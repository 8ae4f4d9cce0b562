// Package logger owns the process-wide zap logger.
//
// The terminal UI owns stdout, so logs go to a file (or are discarded when
// no file is configured). Packages call Get at the point of use; before
// Initialize runs, Get returns a no-op logger so library code and tests
// never need a logger set up.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the log destination, level, and encoding.
type Config struct {
	// Level is "debug", "info", "warn", or "error". Default: "info".
	Level string

	// Format is "console" or "json". Default: "console".
	Format string

	// File is the path logs are appended to. Empty discards logs.
	File string
}

var (
	mu   sync.RWMutex
	log  = zap.NewNop()
	file *os.File
)

// Initialize builds the global logger from cfg, replacing any previous one.
func Initialize(cfg Config) error {
	level, err := zapcore.ParseLevel(defaultString(cfg.Level, "info"))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	if cfg.File == "" {
		replace(zap.NewNop(), nil)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(f), level)
	replace(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), f)
	return nil
}

// Set installs l as the global logger. Tests use it with zaptest/observer.
func Set(l *zap.Logger) {
	replace(l, nil)
}

// Get returns the global logger.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Sync flushes buffered entries and closes the log file.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	err := log.Sync()
	if file != nil {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		file = nil
	}
	return err
}

func replace(l *zap.Logger, f *os.File) {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Close()
	}
	log = l
	file = f
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
