// Package logger provides the service logger behind a small interface, with
// console and rotating-file implementations selected by configuration.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/homelab-dev/homelab/internal/api/config"
)

// Supported log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warning"
	LevelError = "error"
)

// Supported log types.
const (
	TypeConsole = "console"
	TypeFile    = "file"
)

var (
	// ErrUnsupportedLogType is returned for log types other than console
	// and file.
	ErrUnsupportedLogType = errors.New("unsupported log type")
	// ErrFilePathRequired is returned when the file logger has no path.
	ErrFilePathRequired = errors.New("file path required for file logger")
)

// Logger is the logging interface used throughout the API service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// New builds a logger from the settings: a text logger on stdout for the
// console type, a rotating JSON file logger for the file type.
func New(settings config.LoggerSettings) (Logger, error) {
	switch settings.Type {
	case TypeConsole:
		return NewConsole(settings.Level), nil
	case TypeFile:
		if settings.FilePath == "" {
			return nil, ErrFilePathRequired
		}

		return NewFile(settings), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLogType, settings.Type)
	}
}

// NewConsole creates a text logger writing to stdout.
func NewConsole(level string) Logger {
	return newSlogLogger(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

// NewFile creates a JSON logger writing to a size-rotated file.
func NewFile(settings config.LoggerSettings) Logger {
	var writer io.Writer = &lumberjack.Logger{
		Filename:   settings.FilePath,
		MaxSize:    settings.MaxSizeMB,
		MaxBackups: settings.MaxBackups,
		MaxAge:     settings.MaxAgeDays,
		Compress:   true,
	}

	return newSlogLogger(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: parseLevel(settings.Level),
	}))
}

// --- internals ---

type slogLogger struct {
	logger *slog.Logger
}

func newSlogLogger(handler slog.Handler) *slogLogger {
	return &slogLogger{logger: slog.New(handler)}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func parseLevel(level string) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}
