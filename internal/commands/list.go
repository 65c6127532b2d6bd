package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/workflowtpl/engine/libs/workflow"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var showPacks bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resolved types or enabled packs",
		Long: `List lists the types (default) or packs currently resolved by the
registry, after applying built-in, installed, and project-override layers.`,
		Example: `  # List every resolved type
  workflowctl list

  # List every enabled pack
  workflowctl list --packs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry(cmd)
			if err != nil {
				return err
			}
			if showPacks {
				return listPacks(cmd, reg)
			}
			return listTypes(cmd, reg)
		},
	}

	cmd.Flags().BoolVar(&showPacks, "packs", false, "list packs instead of types")

	return cmd
}

func listTypes(cmd *cobra.Command, reg *workflow.TemplateRegistry) error {
	types := reg.ListTypes()
	sort.Slice(types, func(i, j int) bool { return types[i].Type < types[j].Type })

	for _, tpl := range types {
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-24s pack=%s states=%d transitions=%d\n",
			tpl.Type, tpl.DisplayName, tpl.Pack, len(tpl.States), len(tpl.Transitions))
	}
	return nil
}

func listPacks(cmd *cobra.Command, reg *workflow.TemplateRegistry) error {
	packs := reg.ListPacks()
	sort.Slice(packs, func(i, j int) bool { return packs[i].Name < packs[j].Name })

	for _, p := range packs {
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s v%-10s %-24s types=%d requires=%v\n",
			p.Name, p.Version, p.DisplayName, len(p.Types), p.RequiresPacks)
	}
	return nil
}
