package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/workflowtpl/engine/libs/workflow/schema"
)

// NewSchemaCmd creates the schema command.
func NewSchemaCmd() *cobra.Command {
	var kind string
	var exportPath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "View the embedded CUE schemas for type-template and pack documents",
		Long: `View the embedded CUE schemas the engine uses to structurally validate
type-template and pack JSON documents.

By default, lists the available schema kinds. Use --kind to show one, and
--export to save it to a file.`,
		Example: `  # List schema kinds
  workflowctl schema

  # Show the type-template schema
  workflowctl schema --kind type-template

  # Export the pack schema to a file
  workflowctl schema --kind pack --export pack.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, kind, exportPath)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "schema kind to show (type-template, pack)")
	cmd.Flags().StringVar(&exportPath, "export", "", "export the schema to a file (requires --kind)")

	return cmd
}

func runSchema(cmd *cobra.Command, kind, exportPath string) error {
	if exportPath != "" && kind == "" {
		return fmt.Errorf("--export requires --kind to be specified")
	}

	if kind == "" {
		return listSchemaKinds(cmd)
	}

	content, ok := schema.Source(kind)
	if !ok {
		return fmt.Errorf("schema kind %q not found. Available kinds: %s", kind, strings.Join(schema.Kinds(), ", "))
	}

	if exportPath != "" {
		return exportSchema(cmd, kind, content, exportPath)
	}
	return showSchemaKind(cmd, kind, content)
}

func listSchemaKinds(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Available schema kinds:\n\n")
	for _, kind := range schema.Kinds() {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", kind)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nUse 'workflowctl schema --kind <kind>' to view one\n")
	return nil
}

func showSchemaKind(cmd *cobra.Command, kind, content string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Schema: %s\n\n", kind)
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", content)
	return nil
}

func exportSchema(cmd *cobra.Command, kind, content, exportPath string) error {
	dir := filepath.Dir(exportPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(exportPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write schema to %s: %w", exportPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema %q exported to %s\n", kind, exportPath)
	return nil
}
