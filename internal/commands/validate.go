package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/workflowtpl/engine/libs/workflow"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	var docType string
	var from string
	var typeName string
	var fieldsJSON string

	cmd := &cobra.Command{
		Use:   "validate [flags] [file-pattern]",
		Short: "Validate template/pack documents, or discover transitions from a state",
		Long: `Validate has two modes.

Document mode (default) validates type-template or pack JSON documents
against the engine's CUE schemas, the parser's size and uniqueness checks,
and the cross-reference checks (initial state, transition endpoints,
required fields, required_at states). Auto-detects document kind from the
top-level JSON shape, or use --doc-type to force it. Supports glob
patterns for multiple files.

Discovery mode (--from) loads the resolved registry and prints the ready
and not-ready transitions out of a given state for --type, given the
current field values (--fields, a JSON object).`,
		Example: `  # Validate every pack document
  workflowctl validate 'packs/*.json'

  # Explicit document kind
  workflowctl validate --doc-type type-template templates/bug.json

  # Discover transitions out of "fixing" for type bug
  workflowctl validate --from=fixing --type=bug --fields='{"severity":"high"}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from != "" {
				return runValidateFrom(cmd, typeName, from, fieldsJSON)
			}
			if len(args) != 1 {
				return fmt.Errorf("validate requires a file pattern unless --from is set")
			}
			return runValidateDocs(cmd, args[0], docType)
		},
	}

	cmd.Flags().StringVar(&docType, "doc-type", "", "document kind: type-template, pack")
	cmd.Flags().StringVar(&from, "from", "", "discovery mode: the current state to discover transitions from")
	cmd.Flags().StringVar(&typeName, "type", "", "discovery mode: the type name")
	cmd.Flags().StringVar(&fieldsJSON, "fields", "{}", "discovery mode: current field values as a JSON object")

	return cmd
}

func runValidateDocs(cmd *cobra.Command, pattern, explicitType string) error {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	if len(files) == 0 {
		files = []string{pattern}
	}

	validCount := 0
	invalidCount := 0

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "✗ %s: %v\n", file, err)
			invalidCount++
			continue
		}

		kind := explicitType
		if kind == "" {
			kind = detectDocKind(raw)
			if kind == "" {
				fmt.Fprintf(cmd.OutOrStderr(), "✗ %s: unknown document kind (use --doc-type to specify)\n", file)
				invalidCount++
				continue
			}
		}

		var validateErr error
		switch kind {
		case "type-template":
			var tpl *workflow.TypeTemplate
			if tpl, validateErr = workflow.ParseTypeTemplate(raw); validateErr == nil {
				if issues := workflow.ValidateTypeTemplate(tpl); len(issues) > 0 {
					validateErr = &workflow.ValidationError{Type: tpl.Type, Issues: issues}
				}
			}
		case "pack":
			var p *workflow.WorkflowPack
			if p, validateErr = workflow.ParsePack(raw); validateErr == nil {
				for _, tpl := range p.Types {
					if issues := workflow.ValidateTypeTemplate(&tpl); len(issues) > 0 {
						validateErr = &workflow.ValidationError{Type: tpl.Type, Issues: issues}
						break
					}
				}
			}
		default:
			validateErr = fmt.Errorf("unknown document kind %q", kind)
		}

		if validateErr != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "✗ %s\n", file)
			fmt.Fprintf(cmd.OutOrStderr(), "  %v\n", validateErr)
			invalidCount++
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", file)
			validCount++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n")
	if invalidCount == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "All %d file(s) valid\n", validCount)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStderr(), "%d valid, %d invalid\n", validCount, invalidCount)
	return fmt.Errorf("validation failed for %d file(s)", invalidCount)
}

// detectDocKind sniffs a document's kind from the keys it contains: a
// document mentioning both "types" and "requires_packs" is a pack, otherwise
// one mentioning "initial_state" is a standalone type template.
func detectDocKind(raw []byte) string {
	s := string(raw)
	switch {
	case strings.Contains(s, `"types"`) && strings.Contains(s, `"requires_packs"`):
		return "pack"
	case strings.Contains(s, `"initial_state"`):
		return "type-template"
	default:
		return ""
	}
}

func runValidateFrom(cmd *cobra.Command, typeName, from, fieldsJSON string) error {
	if typeName == "" {
		return fmt.Errorf("--type is required with --from")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return fmt.Errorf("invalid --fields: %w", err)
	}

	reg, err := buildRegistry(cmd)
	if err != nil {
		return err
	}

	if _, ok := reg.GetType(typeName); !ok {
		return fmt.Errorf("unknown type %q", typeName)
	}

	options := reg.GetValidTransitions(typeName, from, fields)
	if len(options) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no declared transitions from %q for type %q\n", from, typeName)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "transitions from %q for type %q:\n", from, typeName)
	for _, opt := range options {
		status := "ready"
		if !opt.Ready {
			status = "blocked"
		}
		line := fmt.Sprintf("  -> %-16s [%s] %-8s enforcement=%s", opt.State, opt.Category, status, *opt.Enforcement)
		if len(opt.MissingFields) > 0 {
			line += fmt.Sprintf(" missing=%v", opt.MissingFields)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
