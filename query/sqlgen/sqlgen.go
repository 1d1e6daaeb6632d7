// Package sqlgen renders named-parameter statements for different database providers.
package sqlgen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyStatement is returned when binding a statement without text.
var ErrEmptyStatement = errors.New("empty statement")

// Dialect turns a Statement into driver-ready text and positional arguments.
type Dialect interface {
	// Name returns the provider name.
	Name() string

	// Bind replaces bound @name placeholders with the provider's
	// parameter markers and returns the arguments in marker order.
	// Placeholders without a bound value are left untouched.
	Bind(stmt Statement) (string, []any, error)
}

// Returner is implemented by dialects that read generated ids with RETURNING.
type Returner interface {
	ReturningColumn() string
}

// NewDialect creates the dialect for a provider name.
func NewDialect(provider string) (Dialect, error) {
	switch strings.ToLower(provider) {
	case "mysql", "mariadb":
		return NewMySQL(), nil
	case "postgresql", "postgres", "pgx":
		return NewPostgres(""), nil
	case "sqlite", "sqlite3":
		return NewSQLite(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// MySQL binds placeholders as ? markers.
type MySQL struct {
	plans *planCache
}

// NewMySQL creates a MySQL dialect.
func NewMySQL() *MySQL {
	return &MySQL{plans: newPlanCache(planCacheSize)}
}

// Name returns "mysql".
func (d *MySQL) Name() string { return "mysql" }

// Bind implements Dialect.
func (d *MySQL) Bind(stmt Statement) (string, []any, error) {
	return rewrite(d.plans, stmt, func(name string, v any, args []any) (string, []any) {
		return "?", append(args, v)
	})
}

// Postgres binds placeholders as $n markers. A name used twice keeps its index.
type Postgres struct {
	plans     *planCache
	returning string
}

// NewPostgres creates a Postgres dialect. returning names the column read
// back after an insert; empty disables RETURNING.
func NewPostgres(returning string) *Postgres {
	return &Postgres{plans: newPlanCache(planCacheSize), returning: returning}
}

// Name returns "postgres".
func (d *Postgres) Name() string { return "postgres" }

// ReturningColumn implements Returner.
func (d *Postgres) ReturningColumn() string { return d.returning }

// Bind implements Dialect.
func (d *Postgres) Bind(stmt Statement) (string, []any, error) {
	return rewriteNumbered(d.plans, stmt, "$")
}

// SQLite binds placeholders as ?n markers. A name used twice keeps its index.
type SQLite struct {
	plans *planCache
}

// NewSQLite creates a SQLite dialect.
func NewSQLite() *SQLite {
	return &SQLite{plans: newPlanCache(planCacheSize)}
}

// Name returns "sqlite".
func (d *SQLite) Name() string { return "sqlite" }

// Bind implements Dialect.
func (d *SQLite) Bind(stmt Statement) (string, []any, error) {
	return rewriteNumbered(d.plans, stmt, "?")
}

type markerFunc func(name string, v any, args []any) (string, []any)

func rewrite(plans *planCache, stmt Statement, marker markerFunc) (string, []any, error) {
	if strings.TrimSpace(stmt.Text) == "" {
		return "", nil, ErrEmptyStatement
	}

	phs := plans.lookup(stmt.Text)
	if len(phs) == 0 {
		return stmt.Text, nil, nil
	}

	var b strings.Builder
	b.Grow(len(stmt.Text))
	args := make([]any, 0, len(phs))
	last := 0

	for _, ph := range phs {
		v, ok := lookupParam(stmt.Params, ph.name)
		if !ok {
			continue
		}
		var m string
		m, args = marker(ph.name, v, args)
		b.WriteString(stmt.Text[last:ph.start])
		b.WriteString(m)
		last = ph.end
	}
	b.WriteString(stmt.Text[last:])

	return b.String(), args, nil
}

func rewriteNumbered(plans *planCache, stmt Statement, prefix string) (string, []any, error) {
	index := make(map[string]int)
	return rewrite(plans, stmt, func(name string, v any, args []any) (string, []any) {
		key := strings.ToLower(name)
		if n, ok := index[key]; ok {
			return prefix + strconv.Itoa(n), args
		}
		args = append(args, v)
		index[key] = len(args)
		return prefix + strconv.Itoa(len(args)), args
	})
}
