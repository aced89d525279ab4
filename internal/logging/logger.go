// Package logging provides the process-wide structured logger used by the
// library tier (Solution Analyser, Incremental Update Service, File Change
// Watcher, Graph Repository). The CLI tier layers its own logrus.Logger on
// top for command framing; see cmd/sharpitect.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	sharperrors "github.com/nick-boey/sharpitect/internal/errors"
)

// Level mirrors slog's severity levels under names that match the rest of
// this codebase's vocabulary.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// Config configures the global logger.
type Config struct {
	Level      Level
	OutputFile string // empty = stdout only
	MaxSize    int64  // bytes before rotation, default 10MB
	JSONFormat bool
	AddSource  bool
}

// Logger wraps slog.Logger with file rotation.
type Logger struct {
	slog *slog.Logger
	cfg  Config
	file *os.File
	mu   sync.Mutex
}

var (
	global *Logger
	once   sync.Once
)

// Initialize installs the global logger. Safe to call more than once; only
// the first call takes effect (process-wide, like the build-locator
// registration in spec.md §9).
func Initialize(cfg Config) error {
	var initErr error
	once.Do(func() {
		l, err := New(cfg)
		if err != nil {
			initErr = fmt.Errorf("initialize logger: %w", err)
			return
		}
		global = l
	})
	return initErr
}

// New builds a standalone logger instance (used by tests and by callers
// that want an isolated logger rather than the global one).
func New(cfg Config) (*Logger, error) {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 10 * 1024 * 1024
	}

	l := &Logger{cfg: cfg}

	writers := []io.Writer{os.Stdout}
	if cfg.OutputFile != "" {
		dir := filepath.Dir(cfg.OutputFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", dir, err)
		}
		if err := l.rotateIfNeeded(); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
		f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", cfg.OutputFile, err)
		}
		l.file = f
		writers = append(writers, f)
	}

	opts := &slog.HandlerOptions{Level: toSlogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(io.MultiWriter(writers...), opts)
	} else {
		handler = slog.NewTextHandler(io.MultiWriter(writers...), opts)
	}
	l.slog = slog.New(handler)
	return l, nil
}

func (l *Logger) rotateIfNeeded() error {
	if l.cfg.OutputFile == "" {
		return nil
	}
	info, err := os.Stat(l.cfg.OutputFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() < l.cfg.MaxSize {
		return nil
	}
	backup := l.cfg.OutputFile + ".1"
	return os.Rename(l.cfg.OutputFile, backup)
}

func toSlogLevel(l Level) slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// LogError records err with the severity the taxonomy of internal/errors
// assigns it (SeverityLow/SeverityMedium — Cancelled, NotFound,
// WorkspaceDiagnostic, CompilationUnavailable — log at Warn;
// SeverityHigh/SeverityCritical log at Error), flattening its Type and any attached
// Context onto the record so a cascade failure can be traced back to the
// file/project that triggered it without grepping a formatted string. A
// plain error not built through internal/errors just logs at Error.
func (l *Logger) LogError(msg string, err error, args ...any) {
	if err == nil {
		l.Error(msg, args...)
		return
	}
	se, ok := err.(*sharperrors.Error)
	if !ok {
		l.Error(msg, append([]any{"error", err.Error()}, args...)...)
		return
	}
	fields := append([]any{"error", se.Error(), "error_type", se.Type.String(), "severity", se.Severity.String()}, args...)
	for k, v := range se.Context {
		fields = append(fields, "ctx_"+k, v)
	}
	if se.Severity <= sharperrors.SeverityMedium {
		l.slog.Warn(msg, fields...)
		return
	}
	l.slog.Error(msg, fields...)
}

// With returns a derived logger carrying additional structured fields.
func (l *Logger) With(args ...any) *Logger {
	clone := *l
	clone.slog = l.slog.With(args...)
	return &clone
}

// Close releases the log file handle, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Global convenience wrappers, falling back to slog's default logger when
// Initialize has not been called (e.g. in unit tests).

func Debug(msg string, args ...any) { dispatch(DEBUG, msg, args...) }
func Info(msg string, args ...any)  { dispatch(INFO, msg, args...) }
func Warn(msg string, args ...any)  { dispatch(WARN, msg, args...) }
func Error(msg string, args ...any) { dispatch(ERROR, msg, args...) }

// LogError dispatches to the global logger's LogError when Initialize has
// been called, falling back to slog's default logger otherwise (e.g. in
// unit tests, matching dispatch's fallback).
func LogError(msg string, err error, args ...any) {
	if global != nil {
		global.LogError(msg, err, args...)
		return
	}
	se, ok := err.(*sharperrors.Error)
	if !ok {
		slog.Error(msg, append([]any{"error", err}, args...)...)
		return
	}
	fields := append([]any{"error", se.Error(), "error_type", se.Type.String(), "severity", se.Severity.String()}, args...)
	for k, v := range se.Context {
		fields = append(fields, "ctx_"+k, v)
	}
	if se.Severity <= sharperrors.SeverityMedium {
		slog.Warn(msg, fields...)
		return
	}
	slog.Error(msg, fields...)
}

func dispatch(level Level, msg string, args ...any) {
	if global != nil {
		switch level {
		case DEBUG:
			global.Debug(msg, args...)
		case WARN:
			global.Warn(msg, args...)
		case ERROR:
			global.Error(msg, args...)
		default:
			global.Info(msg, args...)
		}
		return
	}
	switch level {
	case DEBUG:
		slog.Debug(msg, args...)
	case WARN:
		slog.Warn(msg, args...)
	case ERROR:
		slog.Error(msg, args...)
	default:
		slog.Info(msg, args...)
	}
}

// DefaultConfig returns sane defaults. Both modes log to stdout and to the
// rotating file .sharpitect/sharpitect.log; debug mode uses the text format
// at Debug level with source locations, production uses JSON at Info level.
func DefaultConfig(debug bool) Config {
	level := INFO
	if debug {
		level = DEBUG
	}
	return Config{
		Level:      level,
		OutputFile: filepath.Join(".sharpitect", "sharpitect.log"),
		JSONFormat: !debug,
		AddSource:  debug,
	}
}
