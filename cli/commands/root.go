// Package commands implements the recordguard CLI.
package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/recordguard/cli/internal/ui"
	"github.com/satishbabariya/recordguard/cli/internal/version"
	"github.com/satishbabariya/recordguard/query/domain"
	"github.com/satishbabariya/recordguard/runtime/client"
)

// Execute runs the root command and reports any error.
func Execute() error {
	a := &app{}
	err := newRootCommand(a).Execute()
	if err != nil {
		reportError(err, a.failedQuery)
	}
	return err
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recordguard",
		Short: "Permission-aware record access from the command line",
		Long: `recordguard reads and writes records through the same row-level
permission rules applications use: callers see their own records, or the
records of business units they hold grants for.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.printTimings(cmd.OutOrStdout())
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default .recordguard.yaml in ., $HOME or $HOME/.config/recordguard)")
	f.StringVar(&a.overrides.Provider, "provider", "", "database provider (mysql, postgres, pgx, sqlite)")
	f.StringVar(&a.overrides.DatabaseURL, "database-url", "", "connection string")
	f.StringVar(&a.overrides.UserID, "user", "", "caller user id")
	f.StringVar(&a.overrides.BusinessUnit, "business-unit", "", "caller business unit")
	f.StringVar(&a.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error, off)")

	rootCmd.AddCommand(newGetCommand(a))
	rootCmd.AddCommand(newQueryCommand(a))
	rootCmd.AddCommand(newInsertCommand(a))
	rootCmd.AddCommand(newUpdateCommand(a))
	rootCmd.AddCommand(newPluginsCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func reportError(err error, failedQuery string) {
	switch {
	case errors.Is(err, domain.ErrAuthorization):
		ui.PrintError("Not authorized: %v", err)
	case errors.Is(err, domain.ErrValidation):
		ui.PrintError("Invalid input: %v", err)
	default:
		if code, ok := client.DriverErrorCode(err); ok {
			ui.PrintError("Database error %s: %v", code, err)
		} else {
			ui.PrintError("%v", err)
		}
		if failedQuery != "" {
			ui.PrintInfo("Statement: %s", failedQuery)
		}
	}
}
