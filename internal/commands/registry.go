package commands

import (
	"github.com/spf13/cobra"
	"github.com/workflowtpl/engine/libs/engineconfig"
	"github.com/workflowtpl/engine/libs/workflow"
	"github.com/workflowtpl/engine/libs/workflow/builtin"
)

// buildRegistry resolves the three configuration layers using the
// persistent flags declared on the root command and returns the resulting
// registry.
func buildRegistry(cmd *cobra.Command) (*workflow.TemplateRegistry, error) {
	packDir, _ := cmd.Flags().GetString("pack-dir")
	templatesDir, _ := cmd.Flags().GetString("templates-dir")
	enabledPacks, _ := cmd.Flags().GetStringSlice("enabled-packs")

	cfg := engineconfig.DefaultConfig()
	if packDir != "" {
		cfg.PackDir = packDir
	}
	if templatesDir != "" {
		cfg.TemplatesDir = templatesDir
	}
	if len(enabledPacks) > 0 {
		cfg.EnabledPacks = enabledPacks
	}

	loader := workflow.NewLoader(nil)
	result, err := loader.Load(workflow.LoadOptions{
		EnabledPacks: cfg.EnabledPacks,
		PackDir:      cfg.PackDir,
		TemplatesDir: cfg.TemplatesDir,
	}, builtin.Packs())
	if err != nil {
		return nil, err
	}

	return workflow.NewRegistry(result, nil), nil
}
