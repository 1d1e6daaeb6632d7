package commands

import (
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/recordguard/cli/internal/ui"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/plugin"
)

func newPluginsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List and run record plugins",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered plugins and the entities they run for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Plugin", "Entities"}}
			for _, id := range reg.IDs() {
				var entities []string
				for entity, ids := range a.cfg.Plugins {
					for _, pid := range ids {
						if pid == id {
							entities = append(entities, entity)
						}
					}
				}
				data = append(data, []string{id, joinOrDash(entities)})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "run <entity> <record-id>",
		Short: "Run the plugins configured for an entity on one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, recordID := args[0], args[1]

			plugins := a.cfg.EntityPlugins(entity)
			if len(plugins) == 0 {
				ui.PrintWarning("No plugins configured for %s", entity)
				return nil
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			ec, err := a.executionContext(c)
			if err != nil {
				return err
			}

			inv := &plugin.Invocation{
				Store:    c,
				Context:  ec,
				RecordID: recordID,
				UserName: a.cfg.UserName,
			}
			found, err := inv.LoadRecord(ctx, entity)
			if err != nil {
				return err
			}
			if !found {
				ui.PrintWarning("No visible record %s in %s", recordID, entity)
				return nil
			}

			if err := c.Transaction(ctx, ec, func(txec domain.ExecutionContext) error {
				inv.Context = txec
				return inv.Execute(ctx, reg, plugins)
			}); err != nil {
				return err
			}

			ui.PrintSuccess("Ran %d plugin(s) on %s %s", len(plugins), entity, recordID)
			return nil
		},
	})

	return cmd
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	sort.Strings(items)
	return strings.Join(items, ", ")
}
