// Package client opens a store and exposes permission-aware record operations.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/satishbabariya/recordguard/query/builder"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/executor"
	"github.com/satishbabariya/recordguard/query/permission"
	"github.com/satishbabariya/recordguard/query/sqlgen"
)

// Client is the main database client
type Client struct {
	db        *sql.DB
	provider  string
	cols      builder.Columns
	returning string
	logger    *slog.Logger
	mw        []executor.Middleware

	exec     *executor.Executor
	resolver *permission.Resolver
}

// Option configures a Client.
type Option func(*Client)

// WithColumns sets the id and audit column names.
func WithColumns(cols builder.Columns) Option {
	return func(c *Client) {
		c.cols = cols.WithDefaults()
	}
}

// WithLogger sets the logger passed to the resolver and executor.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReturningColumn makes Postgres inserts read the generated id with
// RETURNING col. Other providers ignore it.
func WithReturningColumn(col string) Option {
	return func(c *Client) {
		c.returning = col
	}
}

// WithMiddleware adds executor middlewares.
func WithMiddleware(mw ...executor.Middleware) Option {
	return func(c *Client) {
		c.mw = append(c.mw, mw...)
	}
}

// Open opens a store for provider. The connection is not checked until Connect.
func Open(provider, dsn string, opts ...Option) (*Client, error) {
	driverName := getDriverName(provider)
	if driverName == "" {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", provider, err)
	}

	c, err := NewFromDB(provider, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// NewFromDB creates a client over an open database.
func NewFromDB(provider string, db *sql.DB, opts ...Option) (*Client, error) {
	c := &Client{
		db:       db,
		provider: strings.ToLower(provider),
		cols:     builder.DefaultColumns(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	dialect, err := c.dialect()
	if err != nil {
		return nil, err
	}

	c.exec = executor.New(dialect,
		executor.WithColumns(c.cols),
		executor.WithLogger(c.logger),
		executor.WithMiddleware(c.mw...),
	)
	c.resolver = permission.NewResolver(
		permission.WithColumns(c.cols),
		permission.WithLogger(c.logger),
	)
	return c, nil
}

func (c *Client) dialect() (sqlgen.Dialect, error) {
	switch c.provider {
	case "postgresql", "postgres", "pgx":
		return sqlgen.NewPostgres(c.returning), nil
	default:
		return sqlgen.NewDialect(c.provider)
	}
}

// getDriverName maps provider names to Go database driver names
func getDriverName(provider string) string {
	switch strings.ToLower(provider) {
	case "postgresql", "postgres":
		return "postgres"
	case "pgx":
		return "pgx"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return ""
	}
}

// Connect checks the database connection
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database
func (c *Client) Close() error {
	return c.db.Close()
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Provider returns the provider name.
func (c *Client) Provider() string {
	return c.provider
}

// Columns returns the id and audit column names.
func (c *Client) Columns() builder.Columns {
	return c.cols
}

// Executor returns the statement executor.
func (c *Client) Executor() *executor.Executor {
	return c.exec
}

// Resolver returns the permission resolver.
func (c *Client) Resolver() *permission.Resolver {
	return c.resolver
}

// Context builds an execution context on the client's database.
func (c *Client) Context(userID, businessUnit string, grants []domain.PermissionGrant) domain.ExecutionContext {
	return domain.ExecutionContext{
		CallerUserID:       userID,
		CallerBusinessUnit: businessUnit,
		Grants:             grants,
		Conn:               c.db,
	}
}

// withConn falls back to the client's database when ec has no connection.
func (c *Client) withConn(ec domain.ExecutionContext) domain.ExecutionContext {
	if ec.Conn == nil {
		ec.Conn = c.db
	}
	return ec
}
