package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxLogger struct{}

// FromContext returns the logger carried by ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(ctxLogger{}).(*log.Logger); logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger attaches logger to ctx. A nil ctx is treated as Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLogger{}, logger)
}

// WithFile scopes the context logger to one source document so every
// message logged while converting it carries its path.
func WithFile(ctx context.Context, path string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(FieldPath, path))
}
