// Package telemetry adapts OpenTelemetry tracing to port.Tracer.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hapkiduki/freight-go/internal/application/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config selects the exporter.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled turns span export on. A disabled tracer records nothing.
	Enabled bool

	// Output is a file path for the stdout exporter; empty writes to os.Stdout.
	Output string
}

var _ port.Tracer = (*Tracer)(nil)

// Tracer implements port.Tracer on an OpenTelemetry tracer provider.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	closer   io.Closer
}

// New creates a tracer exporting spans as JSON through stdouttrace.
// When cfg.Enabled is false it returns a tracer without an exporter.
func New(cfg Config) (*Tracer, error) {
	if !cfg.Enabled {
		return NewWithExporter(cfg, nil)
	}

	var (
		w      io.Writer = os.Stdout
		closer io.Closer
	)
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("open trace output: %w", err)
		}
		w, closer = f, f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	t, err := NewWithExporter(cfg, exporter)
	if err != nil {
		return nil, err
	}
	t.closer = closer
	return t, nil
}

// NewWithExporter creates a tracer backed by any span exporter.
// A nil exporter yields a provider that samples nothing.
func NewWithExporter(cfg Config, exporter sdktrace.SpanExporter) (*Tracer, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if exporter != nil {
		opts = append(opts, sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	} else {
		opts = append(opts, sdktrace.WithSampler(sdktrace.NeverSample()))
	}

	provider := sdktrace.NewTracerProvider(opts...)
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(cfg.ServiceName),
	}, nil
}

// StartSpan implements port.Tracer.
func (t *Tracer) StartSpan(ctx context.Context, operationName string) (context.Context, port.Span) {
	ctx, span := t.tracer.Start(ctx, operationName)
	return ctx, &otelSpan{span: span}
}

// Shutdown flushes pending spans and releases the exporter.
func (t *Tracer) Shutdown(ctx context.Context) error {
	err := t.provider.Shutdown(ctx)
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() {
	s.span.End()
}

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *otelSpan) SetError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpan) AddEvent(name string, attributes map[string]interface{}) {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		attrs = append(attrs, toAttribute(k, v))
	}
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
