package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/recordguard/cli/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return pterm.DefaultTable.WithData(version.Get().Rows()).Render()
		},
	}
}
