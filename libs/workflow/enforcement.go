package workflow

import (
	"fmt"
	"strings"
)

// isPopulated implements the "populated" semantics of §4.5/GLOSSARY: a
// value is unpopulated iff it is absent, or is a string that is empty
// after trimming whitespace. Every other value — including false, 0, and
// an empty list — is populated.
func isPopulated(fields map[string]any, name string) bool {
	v, ok := fields[name]
	if !ok {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// missingFieldsFor computes, in first-occurrence order, the fields from
// requiresFields plus the target state's required_at fields that are
// unpopulated in fields.
func missingFieldsFor(tpl TypeTemplate, requiresFields []string, toState string, fields map[string]any) []string {
	seen := make(map[string]bool)
	var missing []string

	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		if !isPopulated(fields, name) {
			missing = append(missing, name)
		}
	}

	for _, name := range requiresFields {
		add(name)
	}
	for _, f := range tpl.FieldsSchema {
		for _, rs := range f.RequiredAt {
			if rs == toState {
				add(f.Name)
				break
			}
		}
	}

	return missing
}

// ValidateTransition implements §4.4/§4.5's validate_transition operation.
func (r *TemplateRegistry) ValidateTransition(typeName, from, to string, fields map[string]any) TransitionResult {
	tpl, ok := r.types[typeName]
	if !ok {
		return TransitionResult{Allowed: true}
	}

	t, declared := r.transition(typeName, from, to)
	if !declared {
		return TransitionResult{
			Allowed: true,
			Warnings: []string{
				fmt.Sprintf("transition %s -> %s is not declared for type %q; call get_valid_transitions to discover allowed transitions", from, to, typeName),
			},
		}
	}

	missing := missingFieldsFor(tpl, t.RequiresFields, to, fields)
	enf := t.Enforcement

	switch {
	case enf == EnforcementHard && len(missing) > 0:
		return TransitionResult{
			Allowed:       false,
			Enforcement:   &enf,
			MissingFields: missing,
		}
	case enf == EnforcementSoft && len(missing) > 0:
		return TransitionResult{
			Allowed:       true,
			Enforcement:   &enf,
			MissingFields: missing,
			Warnings: []string{
				fmt.Sprintf("transition %s -> %s is missing field(s) %s for target state %q", from, to, strings.Join(missing, ", "), to),
			},
		}
	default:
		return TransitionResult{
			Allowed:     true,
			Enforcement: &enf,
		}
	}
}

// GetValidTransitions implements §4.4/§4.5's get_valid_transitions
// operation. It returns empty for an unknown type.
func (r *TemplateRegistry) GetValidTransitions(typeName, from string, fields map[string]any) []TransitionOption {
	tpl, ok := r.types[typeName]
	if !ok {
		return nil
	}

	var options []TransitionOption
	for _, t := range tpl.Transitions {
		if t.From != from {
			continue
		}
		missing := missingFieldsFor(tpl, t.RequiresFields, t.To, fields)
		enf := t.Enforcement
		ready := enf != EnforcementHard || len(missing) == 0

		cat, _ := r.GetCategory(typeName, t.To)
		options = append(options, TransitionOption{
			State:          t.To,
			Category:       cat,
			Enforcement:    &enf,
			RequiresFields: t.RequiresFields,
			MissingFields:  missing,
			Ready:          ready,
		})
	}
	return options
}

// ValidateFieldsForState implements §4.4/§4.5's validate_fields_for_state
// operation: the ordered list of fields declared required_at state that are
// unpopulated in fields. Returns empty for an unknown type.
func (r *TemplateRegistry) ValidateFieldsForState(typeName, state string, fields map[string]any) []string {
	tpl, ok := r.types[typeName]
	if !ok {
		return nil
	}

	var missing []string
	for _, f := range tpl.FieldsSchema {
		for _, rs := range f.RequiredAt {
			if rs == state {
				if !isPopulated(fields, f.Name) {
					missing = append(missing, f.Name)
				}
				break
			}
		}
	}
	return missing
}
