// Package logger wraps zap for the freight binaries.
//
// Entries go to stdout as JSON (or console text in development) with an
// ISO8601 "timestamp" key. Request IDs and tracking numbers travel in the
// request context and are attached by WithContext.
package logger

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// contextKey is a custom type for context keys.
type contextKey string

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey contextKey = "request_id"

	// TrackingNumberKey is the context key for the tracking number a request works on.
	TrackingNumberKey contextKey = "tracking_number"
)

// Logger is a sugared zap logger with context helpers for the shipment API.
// Loggers derived from the same parent with With never see each other's fields.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Config contains logger configuration.
type Config struct {
	// Level is the minimun log level (debug, info, warn, error).
	Level string

	// Format is the output format (json, console).
	Format string

	// Development enables development mode (more verbose)
	Development bool

	// Output receives the log stream; nil means os.Stdout.
	Output io.Writer
}

// DefaultConfig returns the default logger configuration.
//
// Returns:
//   - Config: default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Format:      "json",
		Development: false,
	}
}

// New creates a new Logger with the given configuration.
//
// Parameters:
//   - cfg: Logger configuration
//
// Returns:
//   - *Logger: configured logger instance
//   - error: Any error during initialization
func New(cfg Config) (*Logger, error) {
	// Parse log level
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, err
	}

	// configure encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	return NewFromCore(zapcore.NewCore(encoder, zapcore.AddSync(out), level), opts...), nil
}

// NewFromCore wraps an existing zap core, e.g. an observer core in tests.
func NewFromCore(core zapcore.Core, opts ...zap.Option) *Logger {
	return &Logger{sugar: zap.New(core, opts...).Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return NewFromCore(zapcore.NewNopCore())
}

// MustNew creates a new Logger and panics on error.
//
// Parameters:
//   - cfg: Logger configuration
//
// Returns:
//   - *Logger: configured logger instance
func MustNew(cfg Config) *Logger {
	logger, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return logger
}

// Debug logs a debug message with optional key-value pairs.
//
// Parameters:
//   - msg: the log message
//   - keysAndValues: optional key-value pairs for structured logging
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Fatal logs and then calls os.Exit(1).
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// With returns a child logger that adds keysAndValues to every entry.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// WithContext returns a child logger tagged with the request ID and
// tracking number stored in ctx, when present.
//
// Parameters:
//   - ctx: the context to extract values from
//
// Returns:
//   - *Logger: l itself when ctx carries nothing
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var fields []interface{}
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		fields = append(fields, string(RequestIDKey), requestID)
	}
	if tn := ctx.Value(TrackingNumberKey); tn != nil {
		fields = append(fields, string(TrackingNumberKey), tn)
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// Sync flushes buffered entries. Call it before the process exits.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// Named adds a sub-scope to the logger name, e.g. "api.http".
func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name)}
}

// WithRequestID stores a request ID in ctx for WithContext to pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestIDFromContext returns the request ID stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithTrackingNumber stores a tracking number in ctx for WithContext to pick up.
func WithTrackingNumber(ctx context.Context, trackingNumber string) context.Context {
	return context.WithValue(ctx, TrackingNumberKey, trackingNumber)
}

// globalLogger is used by code that has no logger injected, such as the CLI.
var globalLogger = NewNop()

// SetGlobal sets the global logger instance.
//
// Parameters:
//   - logger: The logger instance to set as global
func SetGlobal(logger *Logger) {
	globalLogger = logger
}

// Global returns the global logger instance.
//
// Returns:
//   - *Logger: The global logger instance
func Global() *Logger {
	return globalLogger
}
