package workflow

import (
	"fmt"
	"strings"
)

// ParseError indicates a template or pack document was structurally
// malformed: a missing required key, an unknown field type, an invalid
// state name, an oversized template, or a duplicate state/field/transition.
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error at %s: %s", e.Field, e.Message)
}

// ValidationError indicates a template failed the dangling-reference pass:
// a state, field, or transition endpoint that does not resolve within the
// template.
type ValidationError struct {
	Type   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template %q failed validation: %s", e.Type, strings.Join(e.Issues, "; "))
}

// PackDependencyError indicates a pack's requires_packs could not be
// satisfied: either a required pack is not enabled, or a dependency cycle
// was detected among the declared requires_packs edges.
type PackDependencyError struct {
	Pack    string
	Missing []string
	Cycle   []string
}

func (e *PackDependencyError) Error() string {
	if len(e.Cycle) > 0 {
		return fmt.Sprintf("pack dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
	}
	return fmt.Sprintf("pack %q requires disabled pack(s): %s", e.Pack, strings.Join(e.Missing, ", "))
}

// TransitionNotAllowedError is raised by a caller (typically the item store)
// that chooses to reject transitions the registry has not declared, rather
// than accept the engine's default soft-by-default advisory.
type TransitionNotAllowedError struct {
	Type string
	From string
	To   string
}

func (e *TransitionNotAllowedError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not declared for type %q; use get_valid_transitions to discover allowed transitions", e.From, e.To, e.Type)
}

// HardEnforcementError is raised by a caller when a hard-enforced transition
// has unpopulated required fields. MissingFields carries enough structured
// data for a programmatic handler to self-correct without parsing the
// message.
type HardEnforcementError struct {
	Type          string
	From          string
	To            string
	MissingFields []string
}

func (e *HardEnforcementError) Error() string {
	return fmt.Sprintf("transition %s -> %s for type %q is blocked: missing required field(s) %s; inspect the type's field schema",
		e.From, e.To, e.Type, strings.Join(e.MissingFields, ", "))
}
