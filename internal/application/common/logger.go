package common

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Context keys for passing the logger through context.
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a log entry to the context so handlers can log with the
// fields the caller attached (request id, connection id).
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, falling back to a
// discarding logger so handlers never need a nil check.
func LoggerFromContext(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(loggerKey).(*logrus.Entry); ok {
		return logger
	}
	return discardLogger()
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(discard{})
	return logrus.NewEntry(l)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
