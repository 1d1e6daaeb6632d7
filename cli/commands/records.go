package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/recordguard/cli/internal/ui"
	"github.com/satishbabariya/recordguard/internal/debug"
	"github.com/satishbabariya/recordguard/query/builder"
)

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Show one record you are allowed to read",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			row, err := c.GetRecordByID(ctx, ec, args[0], args[1])
			if err != nil {
				return err
			}
			if row == nil {
				ui.PrintWarning("No visible record %s in %s", args[1], args[0])
				return nil
			}

			ui.PrintRecord(os.Stdout, row)
			return nil
		},
	}
}

func newInsertCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <table> <column=value>...",
		Short: "Insert a record stamped with your user and business unit",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args[1:])
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

			created, err := c.CreateRecord(ctx, ec, args[0], values)
			if err != nil {
				return err
			}

			ui.PrintSuccess("Created %s record %s (generated id %d)", args[0], created.ID, created.GeneratedID)
			return nil
		},
	}
}

func newUpdateCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "update <table> <id> <column=value>...",
		Short: "Update columns of a record",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, id := args[0], args[1]
			values, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}

			// render first so invalid input fails before the prompt
			stmt, err := builder.BuildUpdate(table, id, values, a.cfg.BuilderColumns())
			if err != nil {
				return err
			}

			if !yes {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Update %d column(s) of %s %s?", len(values), table, id),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					ui.PrintWarning("Update cancelled")
					return nil
				}
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

			debug.Debug("updating record", "sql", stmt.Text)
			if err := c.UpdateRecord(ctx, ec, table, id, values); err != nil {
				return err
			}

			ui.PrintSuccess("Updated %s %s", table, id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
