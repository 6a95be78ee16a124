package port

import "context"

// NopLogger discards every entry. Useful as a default and in tests.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{}) {}
func (NopLogger) Warn(string, ...interface{}) {}
func (NopLogger) Error(string, ...interface{}) {}
func (l NopLogger) With(...interface{}) Logger { return l }
func (l NopLogger) WithContext(context.Context) Logger { return l }

// NopTracer starts spans that record nothing.
type NopTracer struct{}

// StartSpan implements Tracer.
func (NopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) End() {}
func (nopSpan) SetAttribute(string, interface{}) {}
func (nopSpan) SetError(error) {}
func (nopSpan) AddEvent(string, map[string]interface{}) {}
