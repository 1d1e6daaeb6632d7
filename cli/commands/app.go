package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/satishbabariya/recordguard/cli/internal/config"
	"github.com/satishbabariya/recordguard/cli/internal/ui"
	"github.com/satishbabariya/recordguard/internal/debug"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/executor"
	"github.com/satishbabariya/recordguard/runtime/client"
	"github.com/satishbabariya/recordguard/runtime/plugin"
)

// app carries state shared by all commands.
type app struct {
	cfgFile   string
	overrides config.Config
	cfg       *config.Config

	// failedQuery is the last statement the store rejected.
	failedQuery string
	// timings collects statement durations when debug logging is on.
	timings []string
}

// load reads the configuration and applies flag overrides.
func (a *app) load() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	o := a.overrides
	if o.Provider != "" {
		cfg.Provider = o.Provider
	}
	if o.DatabaseURL != "" {
		cfg.DatabaseURL = o.DatabaseURL
	}
	if o.UserID != "" {
		cfg.UserID = o.UserID
	}
	if o.BusinessUnit != "" {
		cfg.BusinessUnit = o.BusinessUnit
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	debug.Init(cfg.LogLevel)
	a.cfg = cfg
	return nil
}

// open connects to the configured store.
func (a *app) open(ctx context.Context) (*client.Client, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("no database configured: set database_url or DATABASE_URL")
	}

	c, err := client.Open(a.cfg.Provider, a.cfg.DatabaseURL,
		client.WithColumns(a.cfg.BuilderColumns()),
		client.WithReturningColumn(a.cfg.Postgres.ReturningColumn),
		client.WithLogger(debug.Logger()),
		client.WithMiddleware(a.middlewares()...),
	)
	if err != nil {
		return nil, err
	}

	if err := c.Connect(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return c, nil
}

// middlewares returns the executor chain, outermost first.
func (a *app) middlewares() []executor.Middleware {
	mw := []executor.Middleware{
		executor.LoggingMiddleware(debug.Logger()),
		executor.ErrorMiddleware(func(query string, err error) {
			a.failedQuery = query
		}),
	}
	if debug.Enabled() {
		mw = append(mw, executor.TimingMiddleware(func(op, query string, d time.Duration) {
			a.timings = append(a.timings, fmt.Sprintf("%s %s %s", op, d.Round(time.Microsecond), query))
		}))
	}
	return mw
}

// printTimings lists the collected statement durations.
func (a *app) printTimings(w io.Writer) {
	if len(a.timings) == 0 {
		return
	}
	fmt.Fprintln(w, ui.TitleStyle.Render(fmt.Sprintf("Statements (%d)", len(a.timings))))
	ui.PrintList(w, a.timings)
}

// executionContext builds the caller context from the configuration.
func (a *app) executionContext(c *client.Client) (domain.ExecutionContext, error) {
	grants, err := a.cfg.PermissionGrants()
	if err != nil {
		return domain.ExecutionContext{}, err
	}
	return c.Context(a.cfg.UserID, a.cfg.BusinessUnit, grants), nil
}

// registry returns the plugins available to this binary.
func (a *app) registry() (*plugin.Registry, error) {
	reg := plugin.NewRegistry()
	if err := plugin.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// parseAssignments turns col=value arguments into column values.
// The literal null becomes nil.
func parseAssignments(args []string) (domain.ColumnValues, error) {
	values := make(domain.ColumnValues, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, domain.NewValidationError(arg, "expected column=value")
		}
		name = strings.TrimSpace(name)
		if value == "null" {
			values[name] = nil
			continue
		}
		values[name] = value
	}
	return values, nil
}
