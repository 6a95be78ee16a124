package logger

import (
	"context"

	"github.com/hapkiduki/freight-go/internal/application/port"
)

// PortAdapter exposes a *Logger as port.Logger.
type PortAdapter struct {
	*Logger
}

// AsPort adapts l to the application's port.Logger.
func AsPort(l *Logger) port.Logger {
	return PortAdapter{Logger: l}
}

// With implements port.Logger.
func (a PortAdapter) With(keysAndValues ...interface{}) port.Logger {
	return PortAdapter{Logger: a.Logger.With(keysAndValues...)}
}

// WithContext implements port.Logger.
func (a PortAdapter) WithContext(ctx context.Context) port.Logger {
	return PortAdapter{Logger: a.Logger.WithContext(ctx)}
}
