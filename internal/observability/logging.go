// Package observability carries run and work unit identity on a context so
// log lines emitted deep inside a run name the unit they belong to.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/artifactpages/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RunID      string
	Repository string
	Project    string
	Tag        string
	Stage      string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RunID = runID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithRepository adds the repository URL being processed.
func WithRepository(ctx context.Context, url string) context.Context {
	lc := extractLogContext(ctx)
	lc.Repository = url
	return context.WithValue(ctx, logContextKey, lc)
}

// WithUnit adds the (project, tag) pair of a work unit.
func WithUnit(ctx context.Context, project, tag string) context.Context {
	lc := extractLogContext(ctx)
	lc.Project = project
	lc.Tag = tag
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext returns the LogContext carried by ctx.
func FromContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.RunID != "" {
		attrs = append(attrs, logfields.RunID(lc.RunID))
	}
	if lc.Repository != "" {
		attrs = append(attrs, logfields.Repository(lc.Repository))
	}
	if lc.Project != "" {
		attrs = append(attrs, logfields.Project(lc.Project))
	}
	if lc.Tag != "" {
		attrs = append(attrs, logfields.Tag(lc.Tag))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, append(getLogAttrs(ctx), attrs...)...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, append(getLogAttrs(ctx), attrs...)...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelError, msg, append(getLogAttrs(ctx), attrs...)...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, append(getLogAttrs(ctx), attrs...)...)
}
