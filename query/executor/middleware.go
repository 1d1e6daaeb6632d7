package executor

import (
	"context"
	"log/slog"
	"time"
)

const (
	opExec   = "exec"
	opQuery  = "query"
	opInsert = "insert"
)

// QueryEvent represents a statement execution event
type QueryEvent struct {
	Operation    string
	Query        string
	Args         []any
	RowsAffected int64
	Duration     time.Duration
	Error        error
	Start        time.Time
	End          time.Time
}

// Middleware is a function that intercepts statement execution
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// chain runs exec behind the middlewares, first middleware outermost.
func chain(ctx context.Context, middlewares []Middleware, event *QueryEvent, exec func() error) error {
	if len(middlewares) == 0 {
		return exec()
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(middlewares) {
			return exec()
		}
		mw := middlewares[index]
		index++
		return mw(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs each statement. Argument values are never logged.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		logger.DebugContext(ctx, "executing statement", "op", event.Operation, "sql", event.Query, "args", len(event.Args))
		err := next()
		if err != nil {
			logger.WarnContext(ctx, "statement failed", "op", event.Operation, "error", err, "duration", event.Duration)
		} else {
			logger.DebugContext(ctx, "statement completed", "op", event.Operation, "rows", event.RowsAffected, "duration", event.Duration)
		}
		return err
	}
}

// TimingMiddleware reports the duration of every statement, failed ones
// included, after it finishes.
func TimingMiddleware(onTiming func(op, query string, d time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Operation, event.Query, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware hands failed statements to onError. The error is returned unchanged.
func ErrorMiddleware(onError func(query string, err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.Query, err)
		}
		return err
	}
}
