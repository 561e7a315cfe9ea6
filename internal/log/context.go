package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogExpense logs a successful mutation of one expense
func (sl *StructuredLogger) LogExpense(ctx context.Context, operation string, id int64, desc string, amount float64, category, date string) {
	fields := NewFields().
		WithExpense(id, desc, amount, category, date).
		WithOperation(operation)

	sl.logger.InfoContext(ctx, "Expense "+operation+"d", fields.ToSlice()...)
}

// LogExpenseDeleted logs a successful delete
func (sl *StructuredLogger) LogExpenseDeleted(ctx context.Context, id int64) {
	fields := NewFields().
		WithExpenseID(id).
		WithOperation(OpDelete)

	sl.logger.InfoContext(ctx, "Expense deleted", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, errorType string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithErrorType(errorType).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
