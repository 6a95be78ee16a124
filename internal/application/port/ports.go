// Package port contains the port interfaces (driven ports) for the application layer.
// Ports define the interfaces that the application layer requires from external
// services like messaging, caching, logging, etc.
//
// In Hexagonal Architecture (ports & adapters):
//   - Ports are interfaces that define what the application needs.
//   - Adapters are implementations of these interfaces
//   - this enables loose coupling and easy testing/swapping of implementations.
//
// SOLID Principles applied:
//   - Interface Segregation: small, focused interfaces
//   - Dependency Inversion: Application depends on abstractions
package port

import (
	"context"
	"time"

	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

// Logger defines the interface for structured logging.
// Implementation may use zap, logrus, or the standard library.
//
// Example usage:
//
//	log := logger.MustNew(logger.DefaultConfig())
//	log.Info("Shipment created", "shipment_id", id, "tracking_number", tn)
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})

	// With return a logger with additional context fields.
	With(keysAndValues ...interface{}) Logger

	// WithContext return a logger with context information (e.g., request ID).
	WithContext(ctx context.Context) Logger
}

// Tracer defines the interface for distributed tracing.
// The telemetry package implements it on OpenTelemetry.
type Tracer interface {
	// StartSpan starts a new span for tracing.
	//
	// Parameters:
	//   - ctx: the context for parent span
	//   - operationName: the name of the operation being traced
	//
	// Returns:
	//   - context.Context: the new context containing the span
	//   - Span: the created span (must be ended)
	StartSpan(ctx context.Context, operationName string) (context.Context, Span)
}

// Span represents a single operation in a trace.
type Span interface {
	// End ends the span.
	End()

	// SetAttribute sets an attribute on the span.
	SetAttribute(key string, value interface{})

	// SetError marks the span with an error.
	SetError(err error)

	// AddEvent adds an event to the span.
	AddEvent(name string, attributes map[string]interface{})
}

// TrackingReservation holds a candidate tracking number for a short time so
// two concurrent generators cannot hand out the same value before either
// shipment is persisted. Implementation may use Redis or any store with an
// atomic set-if-absent.
type TrackingReservation interface {
	// Reserve claims the tracking number for ttl.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - trackingNumber: the candidate to claim
	//   - ttl: how long the claim is held
	//
	// Returns:
	//   - bool: true if this caller now holds the claim
	//   - error: any error talking to the reservation store
	Reserve(ctx context.Context, trackingNumber valueobject.TrackingNumber, ttl time.Duration) (bool, error)

	// Release drops a claim once the shipment is persisted or abandoned.
	Release(ctx context.Context, trackingNumber valueobject.TrackingNumber) error
}
