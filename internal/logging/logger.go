package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
)

type ctxKey struct{}

var base = New(os.Getenv("DEBUG") == "true")

// New builds a JSON production logger, or a console development logger
// when debug is set. It never returns nil.
func New(debug bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// L returns the process-wide logger.
func L() *zap.Logger {
	return base
}

// SetLogger replaces the process-wide logger. Intended for main and tests.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base = l
}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithCorrelationID attaches a request-scoped logger tagged with id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(zap.String("correlation_id", id)))
}

// FromContext returns the request logger, or the process logger if none is
// attached.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return base
}

// Sync flushes buffered entries; call before process exit.
func Sync() {
	_ = base.Sync()
}
