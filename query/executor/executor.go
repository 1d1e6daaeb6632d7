// Package executor runs rendered statements against a borrowed connection.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/satishbabariya/recordguard/query/builder"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

var (
	// ErrNoConnection is returned when the execution context carries no connection.
	ErrNoConnection = errors.New("no connection in execution context")

	// ErrNoGeneratedID is returned by InsertAndReturnID when the dialect has
	// no way to read back a store-generated id.
	ErrNoGeneratedID = errors.New("dialect cannot return a generated id")
)

// Executor binds statements for one dialect and executes them.
type Executor struct {
	dialect     sqlgen.Dialect
	cols        builder.Columns
	logger      *slog.Logger
	middlewares []Middleware
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMiddleware appends middlewares to the chain.
func WithMiddleware(mw ...Middleware) Option {
	return func(e *Executor) {
		e.middlewares = append(e.middlewares, mw...)
	}
}

// WithColumns sets the id and audit column names.
func WithColumns(cols builder.Columns) Option {
	return func(e *Executor) {
		e.cols = cols.WithDefaults()
	}
}

// New creates an Executor. A nil dialect selects MySQL.
func New(dialect sqlgen.Dialect, opts ...Option) *Executor {
	if dialect == nil {
		dialect = sqlgen.NewMySQL()
	}
	e := &Executor{
		dialect: dialect,
		cols:    builder.DefaultColumns(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dialect returns the executor's dialect.
func (e *Executor) Dialect() sqlgen.Dialect {
	return e.dialect
}

// ReturnsGeneratedID reports whether InsertAndReturnID can read the
// store-generated id. Dialects implementing sqlgen.Returner need a column.
func (e *Executor) ReturnsGeneratedID() bool {
	r, ok := e.dialect.(sqlgen.Returner)
	return !ok || r.ReturningColumn() != ""
}

// RunNonQuery executes a statement that returns no rows.
func (e *Executor) RunNonQuery(ctx context.Context, stmt sqlgen.Statement, ec domain.ExecutionContext) error {
	if ec.Conn == nil {
		return ErrNoConnection
	}

	query, args, err := e.dialect.Bind(stmt)
	if err != nil {
		return fmt.Errorf("binding statement: %w", err)
	}

	var affected int64
	err = e.run(ctx, opExec, query, args, func(event *QueryEvent) error {
		res, err := ec.Conn.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		if err != nil {
			// some drivers cannot report it; the statement itself succeeded
			affected = -1
		}
		event.RowsAffected = affected
		return nil
	})
	if err != nil {
		return fmt.Errorf("executing statement: %w", err)
	}

	e.logger.Debug("statement executed", "sql", stmt.Text, "rows_affected", affected)
	return nil
}

// FetchByID reads at most one row, binding id to the id column placeholder.
// Zero date-time values are returned as nil.
func (e *Executor) FetchByID(ctx context.Context, stmt sqlgen.Statement, id any, ec domain.ExecutionContext) (domain.Row, bool, error) {
	rows, err := e.fetch(ctx, stmt.With(e.cols.ID, id), ec, scanOptions{max: 1, zeroDates: true})
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// FetchMany reads every row in store order. Values are not date-normalized.
func (e *Executor) FetchMany(ctx context.Context, stmt sqlgen.Statement, ec domain.ExecutionContext) ([]domain.Row, error) {
	return e.fetch(ctx, stmt, ec, scanOptions{})
}

func (e *Executor) fetch(ctx context.Context, stmt sqlgen.Statement, ec domain.ExecutionContext, opts scanOptions) ([]domain.Row, error) {
	if !stmt.Scope.Decided() {
		return nil, domain.NewAccessError("", domain.Denied, "read without a permission decision")
	}
	if ec.Conn == nil {
		return nil, ErrNoConnection
	}

	query, args, err := e.dialect.Bind(stmt)
	if err != nil {
		return nil, fmt.Errorf("binding statement: %w", err)
	}

	var out []domain.Row
	err = e.run(ctx, opQuery, query, args, func(event *QueryEvent) error {
		rows, err := ec.Conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		out, err = scanRows(rows, opts)
		event.RowsAffected = int64(len(out))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}

	e.logger.Debug("query executed", "sql", stmt.Text, "params", stmt.ParamNames(), "scope", stmt.Scope, "rows", len(out))
	return out, nil
}

// InsertAndReturnID executes an insert and returns the store-generated id.
//
// The creator column is bound to the caller and the business unit column to
// the caller's unit when the statement does not already bind one. Dialects
// implementing sqlgen.Returner with a column name read the id through
// RETURNING; the rest use the driver's last insert id. A Returner without a
// column fails with ErrNoGeneratedID before anything is executed.
func (e *Executor) InsertAndReturnID(ctx context.Context, stmt sqlgen.Statement, ec domain.ExecutionContext) (int64, error) {
	if ec.Conn == nil {
		return 0, ErrNoConnection
	}
	if !e.ReturnsGeneratedID() {
		return 0, fmt.Errorf("%w: %s inserts need a returning column", ErrNoGeneratedID, e.dialect.Name())
	}

	stmt = stmt.
		With(e.cols.CreatorID, ec.CallerUserID).
		WithDefault(e.cols.BusinessUnitID, ec.CallerBusinessUnit)

	query, args, err := e.dialect.Bind(stmt)
	if err != nil {
		return 0, fmt.Errorf("binding statement: %w", err)
	}

	var returning string
	if r, ok := e.dialect.(sqlgen.Returner); ok {
		returning = r.ReturningColumn()
	}

	var id int64
	if returning != "" {
		query += " RETURNING " + returning
		err = e.run(ctx, opInsert, query, args, func(event *QueryEvent) error {
			rows, err := ec.Conn.QueryContext(ctx, query, args...)
			if err != nil {
				return err
			}
			defer rows.Close()

			if !rows.Next() {
				if err := rows.Err(); err != nil {
					return err
				}
				return fmt.Errorf("insert returned no %s", returning)
			}
			if err := rows.Scan(&id); err != nil {
				return err
			}
			event.RowsAffected = 1
			return rows.Err()
		})
	} else {
		err = e.run(ctx, opInsert, query, args, func(event *QueryEvent) error {
			res, err := ec.Conn.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			if event.RowsAffected, err = res.RowsAffected(); err != nil {
				event.RowsAffected = -1
			}
			id, err = res.LastInsertId()
			return err
		})
	}
	if err != nil {
		return 0, fmt.Errorf("insert failed: %w", err)
	}

	e.logger.Debug("record inserted", "sql", stmt.Text, "generated_id", id)
	return id, nil
}

// run executes fn through the middleware chain.
func (e *Executor) run(ctx context.Context, op string, query string, args []any, fn func(*QueryEvent) error) error {
	event := &QueryEvent{
		Operation: op,
		Query:     query,
		Args:      args,
		Start:     time.Now(),
	}
	exec := func() error {
		err := fn(event)
		event.End = time.Now()
		event.Duration = event.End.Sub(event.Start)
		event.Error = err
		return err
	}
	return chain(ctx, e.middlewares, event, exec)
}
