package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCorrelationID tags every line written by one CLI invocation.
	FieldCorrelationID = "correlation_id"
	// FieldFixtureID is the full fixture identifier being worked on.
	FieldFixtureID = "fixture_id"
	// FieldImportID tags the lines of one catalog import run.
	FieldImportID = "import_id"
	// FieldEventType classifies warnings and errors for log searches.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	correlationIDKey contextKey = iota
	fixtureIDKey
	importIDKey
)

// WithCorrelationID attaches a correlation id to ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withValue(ctx, correlationIDKey, id)
}

// WithFixtureID attaches the fixture identifier being processed to ctx.
func WithFixtureID(ctx context.Context, fullID string) context.Context {
	return withValue(ctx, fixtureIDKey, fullID)
}

// WithImportID attaches a catalog import run id to ctx.
func WithImportID(ctx context.Context, id string) context.Context {
	return withValue(ctx, importIDKey, id)
}

// CorrelationIDFromContext returns the correlation id stored in ctx.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, correlationIDKey)
}

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	return value, ok && value != ""
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringValue(ctx, correlationIDKey); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	if id, ok := stringValue(ctx, fixtureIDKey); ok {
		fields = append(fields, slog.String(FieldFixtureID, id))
	}
	if id, ok := stringValue(ctx, importIDKey); ok {
		fields = append(fields, slog.String(FieldImportID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
