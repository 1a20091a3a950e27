package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taxprep-dev/taxprep/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "taxprep",
		Short:   "Book-to-tax adjustment and reconciliation toolkit",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newProposeCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newNexusCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
