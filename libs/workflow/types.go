package workflow

import "regexp"

// stateNamePattern matches the state-name grammar required by §3.1: lowercase,
// starting with a letter, safe in query keys and file paths.
var stateNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// Category is the universal bucket every per-type state maps to, enabling
// cross-type rollups.
type Category string

const (
	CategoryOpen Category = "open"
	CategoryWip  Category = "wip"
	CategoryDone Category = "done"
)

func (c Category) valid() bool {
	switch c {
	case CategoryOpen, CategoryWip, CategoryDone:
		return true
	default:
		return false
	}
}

// Enforcement governs what happens when a transition's required fields are
// unpopulated. Hard rejects the transition; soft allows it with a warning.
type Enforcement string

const (
	EnforcementHard Enforcement = "hard"
	EnforcementSoft Enforcement = "soft"
)

func (e Enforcement) valid() bool {
	switch e {
	case EnforcementHard, EnforcementSoft:
		return true
	default:
		return false
	}
}

// FieldType is the closed set of value shapes a FieldSchema may declare.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeList    FieldType = "list"
	FieldTypeBoolean FieldType = "boolean"
)

func (f FieldType) valid() bool {
	switch f {
	case FieldTypeText, FieldTypeEnum, FieldTypeNumber, FieldTypeDate, FieldTypeList, FieldTypeBoolean:
		return true
	default:
		return false
	}
}

// StateDefinition is a named state within one type. Created at parse time
// and never mutated thereafter.
type StateDefinition struct {
	Name     string
	Category Category
}

// NewStateDefinition constructs a StateDefinition, enforcing the state-name
// grammar and category closed-set at construction rather than deferring the
// failure to a later pass.
func NewStateDefinition(name string, category Category) (StateDefinition, error) {
	if !stateNamePattern.MatchString(name) {
		return StateDefinition{}, &ParseError{Field: "states.name", Message: "invalid state name " + quote(name)}
	}
	if !category.valid() {
		return StateDefinition{}, &ParseError{Field: "states.category", Message: "unknown category " + quote(string(category))}
	}
	return StateDefinition{Name: name, Category: category}, nil
}

// TransitionDefinition is an ordered pair (from, to) within one type, tagged
// with an enforcement level and an ordered set of required field names.
// Self-loops are permitted.
type TransitionDefinition struct {
	From           string
	To             string
	Enforcement    Enforcement
	RequiresFields []string
}

// FieldSchema is a named field on a type.
type FieldSchema struct {
	Name        string
	Type        FieldType
	Description string
	Options     []string
	Default     any
	RequiredAt  []string
}

// TypeTemplate is the complete workflow for one item type.
type TypeTemplate struct {
	Type              string
	DisplayName       string
	Description       string
	Pack              string
	States            []StateDefinition
	InitialState      string
	Transitions       []TransitionDefinition
	FieldsSchema      []FieldSchema
	SuggestedChildren []string
	SuggestedLabels   []string
}

// HasState reports whether name is a declared state of the template.
func (t *TypeTemplate) HasState(name string) bool {
	for _, s := range t.States {
		if s.Name == name {
			return true
		}
	}
	return false
}

// HasField reports whether name is a declared field of the template.
func (t *TypeTemplate) HasField(name string) bool {
	for _, f := range t.FieldsSchema {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Field returns the field schema named name, if declared.
func (t *TypeTemplate) Field(name string) (FieldSchema, bool) {
	for _, f := range t.FieldsSchema {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// Relationship is an opaque record describing an intra-pack or cross-pack
// relationship between types. The engine carries these verbatim; it never
// interprets their contents — that is the consuming subsystem's job.
type Relationship map[string]any

// Guide is a structured help document for a pack.
type Guide struct {
	Diagram        string
	Overview       string
	WhenToUse      string
	Tips           []string
	CommonMistakes []string
}

// WorkflowPack is a named bundle of type templates.
type WorkflowPack struct {
	Name                   string
	Version                string
	DisplayName            string
	Description            string
	Types                  map[string]TypeTemplate
	RequiresPacks          []string
	Relationships          []Relationship
	CrossPackRelationships []Relationship
	Guide                  *Guide
}

// TransitionResult is the result of validating one candidate transition.
type TransitionResult struct {
	Allowed       bool
	Enforcement   *Enforcement
	MissingFields []string
	Warnings      []string
}

// TransitionOption is a possible next state from a given current state, with
// readiness information.
type TransitionOption struct {
	State          string
	Category       Category
	Enforcement    *Enforcement
	RequiresFields []string
	MissingFields  []string
	Ready          bool
}

// ValidationResult is the result of a whole-item validation.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

func quote(s string) string {
	return "\"" + s + "\""
}
