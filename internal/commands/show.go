package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/workflowtpl/engine/libs/workflow"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <type>",
		Short: "Show a type's state diagram, fields, and pack guide",
		Long: `Show renders a resolved type's states, transitions, and field schema,
followed by the ASCII diagram, tips, and common-mistakes guide (if any) of
the pack that owns it.`,
		Example: `  # Show the bug type
  workflowctl show bug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := buildRegistry(cmd)
			if err != nil {
				return err
			}
			return runShow(cmd, reg, args[0])
		},
	}
	return cmd
}

func runShow(cmd *cobra.Command, reg *workflow.TemplateRegistry, typeName string) error {
	tpl, ok := reg.GetType(typeName)
	if !ok {
		return fmt.Errorf("unknown type %q", typeName)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", tpl.DisplayName, tpl.Type)
	if tpl.Description != "" {
		fmt.Fprintf(out, "%s\n", tpl.Description)
	}
	fmt.Fprintf(out, "\nstates (initial=%s):\n", tpl.InitialState)
	for _, s := range tpl.States {
		fmt.Fprintf(out, "  - %s [%s]\n", s.Name, s.Category)
	}

	fmt.Fprintf(out, "\ntransitions:\n")
	for _, t := range tpl.Transitions {
		req := ""
		if len(t.RequiresFields) > 0 {
			req = fmt.Sprintf(" requires=%v", t.RequiresFields)
		}
		fmt.Fprintf(out, "  - %s -> %s [%s]%s\n", t.From, t.To, t.Enforcement, req)
	}

	if len(tpl.FieldsSchema) > 0 {
		fmt.Fprintf(out, "\nfields:\n")
		for _, f := range tpl.FieldsSchema {
			atStr := ""
			if len(f.RequiredAt) > 0 {
				atStr = fmt.Sprintf(" required_at=%v", f.RequiredAt)
			}
			fmt.Fprintf(out, "  - %s [%s]%s\n", f.Name, f.Type, atStr)
		}
	}

	pack, ok := reg.GetPack(tpl.Pack)
	if !ok || pack.Guide == nil {
		return nil
	}

	g := pack.Guide
	fmt.Fprintf(out, "\nguide (pack %s):\n", pack.Name)
	fmt.Fprintf(out, "%s\n\n", g.Diagram)
	fmt.Fprintf(out, "%s\n", g.Overview)
	fmt.Fprintf(out, "When to use: %s\n", g.WhenToUse)
	fmt.Fprintf(out, "\nTips:\n")
	for _, tip := range g.Tips {
		fmt.Fprintf(out, "  - %s\n", tip)
	}
	fmt.Fprintf(out, "\nCommon mistakes:\n")
	for _, m := range g.CommonMistakes {
		fmt.Fprintf(out, "  - %s\n", m)
	}

	return nil
}
