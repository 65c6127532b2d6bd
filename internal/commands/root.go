package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/workflowtpl/engine/internal/config"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "workflowctl",
		Short: "Inspect and validate workflow template engine documents",
		Long: `workflowctl - workflow template engine inspection tool

workflowctl loads the engine's built-in, installed, and project-override
template layers into a registry and exposes its read-only query API from
the command line: listing types and packs, showing a type's guide and state
diagram, validating template/pack documents, and discovering
the ready transitions from a given state.

This is a thin diagnostic frontend over the engine library, not the
product's command-line surface — that is out of scope for this engine.`,
		Version:      config.Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("pack-dir", "packs", "installed pack document directory")
	rootCmd.PersistentFlags().String("templates-dir", "templates", "project override document directory")
	rootCmd.PersistentFlags().StringSlice("enabled-packs", nil, "override the enabled pack list (default: core,planning)")

	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewShowCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewSchemaCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "workflowctl %s\n", config.Version)
			if config.BuildDate != "unknown" {
				fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", config.BuildDate)
			}
			if config.Commit != "none" {
				fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", config.Commit)
			}
		},
	}
}
