package logging

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 2
	maxLogAgeDays = 30
)

// Config defines the configuration for logger creation
type Config struct {
	Writer io.Writer // overrides Path, typically for tests
	Path   string
	Level  string
}

// New creates a logger.
// For production: leave Writer nil and set Path for a rotated log file.
// For tests: provide a custom Writer (like strings.Builder).
func New(fs afero.Fs, config Config) (zerolog.Logger, error) {
	writer := config.Writer
	if writer == nil {
		if config.Path == "" {
			return zerolog.Nop(), errors.New("log path required when no writer provided")
		}
		if err := fs.MkdirAll(filepath.Dir(config.Path), 0o750); err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   config.Path,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	}

	level := zerolog.WarnLevel
	if config.Level != "" {
		parsed, err := zerolog.ParseLevel(config.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
		level = parsed
	}

	return zerolog.New(writer).With().Timestamp().Logger().Level(level), nil
}
