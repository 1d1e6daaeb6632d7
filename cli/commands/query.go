package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/recordguard/cli/internal/ui"
	"github.com/satishbabariya/recordguard/cli/internal/watch"
	"github.com/satishbabariya/recordguard/internal/debug"
	"github.com/satishbabariya/recordguard/query/builder"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/query/permission"
)

type queryOptions struct {
	columns string
	join    string
	where   string
	groupBy string
	having  string
	orderBy string
	limit   int
	explain bool
	watch   bool
}

func (o queryOptions) descriptor(table string) *domain.QueryDescriptor {
	q := domain.NewQueryDescriptor(table)
	if o.columns != "" {
		q.Columns = o.columns
	}
	q.Join = o.join
	q.Filter = o.where
	q.GroupBy = o.groupBy
	q.Having = o.having
	q.OrderBy = o.orderBy
	q.Limit = o.limit
	return q
}

func newQueryCommand(a *app) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "List the records of a table you are allowed to read",
		Long: `List records of a table, narrowed by your read grants.

The --columns, --join, --where, --group-by, --having and --order-by values are
copied into the statement as written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]

			if opts.explain {
				return a.explainQuery(table, opts)
			}
			if opts.watch {
				return a.watchQuery(cmd.Context(), table, opts)
			}
			return a.runQuery(cmd.Context(), table, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.columns, "columns", "*", "column list")
	f.StringVar(&opts.join, "join", "", "join clause")
	f.StringVar(&opts.where, "where", "", "filter condition")
	f.StringVar(&opts.groupBy, "group-by", "", "grouping")
	f.StringVar(&opts.having, "having", "", "having condition")
	f.StringVar(&opts.orderBy, "order-by", "", "ordering")
	f.IntVar(&opts.limit, "limit", domain.DefaultLimit, "row limit, 0 for none")
	f.BoolVar(&opts.explain, "explain", false, "print the statement instead of running it")
	f.BoolVar(&opts.watch, "watch", false, "re-run when the config or .env files change")

	return cmd
}

func (a *app) runQuery(ctx context.Context, table string, opts queryOptions) error {
	c, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	ec, err := a.executionContext(c)
	if err != nil {
		return err
	}

	spinner, _ := ui.PrintSpinner("Querying " + table + "...")
	rows, err := c.Query(ctx, ec, opts.descriptor(table))
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return err
	}
	return ui.PrintRows(rows)
}

// explainQuery shows the statement the query would run, without connecting.
func (a *app) explainQuery(table string, opts queryOptions) error {
	grants, err := a.cfg.PermissionGrants()
	if err != nil {
		return err
	}
	ec := domain.ExecutionContext{
		CallerUserID:       a.cfg.UserID,
		CallerBusinessUnit: a.cfg.BusinessUnit,
		Grants:             grants,
	}

	q := opts.descriptor(table)
	r := permission.NewResolver(
		permission.WithColumns(a.cfg.BuilderColumns()),
		permission.WithLogger(debug.Logger()),
	)
	if err := r.ApplyToQuery(ec, q); err != nil {
		return err
	}

	stmt := builder.BuildSelect(*q)
	ui.PrintSection(fmt.Sprintf("Read scope: %s", stmt.Scope))
	return ui.PrintMarkdown(ui.SQLMarkdown(stmt.Text, stmt.Params))
}

func (a *app) watchQuery(ctx context.Context, table string, opts queryOptions) error {
	files := []string{".env", ".env.local"}
	if a.cfg.File != "" {
		files = append(files, a.cfg.File)
	}

	rerun := func() error {
		if err := a.load(); err != nil {
			return err
		}
		a.failedQuery, a.timings = "", nil
		if err := a.runQuery(ctx, table, opts); err != nil {
			reportError(err, a.failedQuery)
		}
		a.printTimings(os.Stdout)
		return nil
	}

	w, err := watch.NewWatcher(files, rerun)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		return err
	}
	ui.PrintInfo("Watching configuration for changes... (Press Ctrl+C to stop)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case <-ctx.Done():
	}
	return nil
}
