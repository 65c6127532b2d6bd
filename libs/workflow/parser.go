package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/workflowtpl/engine/libs/workflow/schema"
)

const (
	maxStates      = 50
	maxTransitions = 200
	maxFields      = 50
)

// rawState, rawTransition, rawField, and rawTypeTemplate mirror the JSON
// document shape of §6.1 exactly; they exist only as an unmarshal target.
type rawState struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type rawTransition struct {
	From           string   `json:"from"`
	To             string   `json:"to"`
	Enforcement    string   `json:"enforcement"`
	RequiresFields []string `json:"requires_fields"`
}

type rawField struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	Default     any      `json:"default"`
	RequiredAt  []string `json:"required_at"`
}

type rawTypeTemplate struct {
	Type              string          `json:"type"`
	DisplayName       string          `json:"display_name"`
	Description       string          `json:"description"`
	Pack              string          `json:"pack"`
	States            []rawState      `json:"states"`
	InitialState      string          `json:"initial_state"`
	Transitions       []rawTransition `json:"transitions"`
	FieldsSchema      []rawField      `json:"fields_schema"`
	SuggestedChildren []string        `json:"suggested_children"`
	SuggestedLabels   []string        `json:"suggested_labels"`
}

type rawGuide struct {
	Diagram         string   `json:"diagram"`
	Overview        string   `json:"overview"`
	WhenToUse       string   `json:"when_to_use"`
	Tips            []string `json:"tips"`
	CommonMistakes  []string `json:"common_mistakes"`
}

type rawPack struct {
	Name                   string                     `json:"name"`
	Version                string                     `json:"version"`
	DisplayName            string                     `json:"display_name"`
	Description            string                     `json:"description"`
	Types                  map[string]rawTypeTemplate `json:"types"`
	RequiresPacks          []string                   `json:"requires_packs"`
	Relationships          []Relationship             `json:"relationships"`
	CrossPackRelationships []Relationship             `json:"cross_pack_relationships"`
	Guide                  *rawGuide                  `json:"guide"`
}

// ParseTypeTemplate converts a JSON-shaped type template document into a
// fully constructed TypeTemplate. It runs a CUE structural pass (closed
// enums, state-name grammar) ahead of the Go-side size and uniqueness
// checks, per §4.2.
func ParseTypeTemplate(raw []byte) (*TypeTemplate, error) {
	if err := schema.Default().ValidateTypeTemplate(raw); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}

	var doc rawTypeTemplate
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	return buildTypeTemplate(doc)
}

func buildTypeTemplate(doc rawTypeTemplate) (*TypeTemplate, error) {
	if doc.Type == "" {
		return nil, &ParseError{Field: "type", Message: "required"}
	}
	if doc.DisplayName == "" {
		return nil, &ParseError{Field: "display_name", Message: "required"}
	}
	if doc.InitialState == "" {
		return nil, &ParseError{Field: "initial_state", Message: "required"}
	}
	if len(doc.States) == 0 {
		return nil, &ParseError{Field: "states", Message: "required, at least one state"}
	}

	if len(doc.States) > maxStates {
		return nil, &ParseError{Field: "states", Message: fmt.Sprintf("%d states exceeds limit of %d", len(doc.States), maxStates)}
	}
	if len(doc.Transitions) > maxTransitions {
		return nil, &ParseError{Field: "transitions", Message: fmt.Sprintf("%d transitions exceeds limit of %d", len(doc.Transitions), maxTransitions)}
	}
	if len(doc.FieldsSchema) > maxFields {
		return nil, &ParseError{Field: "fields_schema", Message: fmt.Sprintf("%d fields exceeds limit of %d", len(doc.FieldsSchema), maxFields)}
	}

	states := make([]StateDefinition, 0, len(doc.States))
	seenStates := make(map[string]bool, len(doc.States))
	for _, s := range doc.States {
		if seenStates[s.Name] {
			return nil, &ParseError{Field: "states", Message: "duplicate state " + quote(s.Name)}
		}
		seenStates[s.Name] = true

		sd, err := NewStateDefinition(s.Name, Category(s.Category))
		if err != nil {
			return nil, err
		}
		states = append(states, sd)
	}

	fields := make([]FieldSchema, 0, len(doc.FieldsSchema))
	seenFields := make(map[string]bool, len(doc.FieldsSchema))
	for _, f := range doc.FieldsSchema {
		if seenFields[f.Name] {
			return nil, &ParseError{Field: "fields_schema", Message: "duplicate field " + quote(f.Name)}
		}
		seenFields[f.Name] = true

		ft := FieldType(f.Type)
		if !ft.valid() {
			return nil, &ParseError{Field: "fields_schema.type", Message: "unknown field type " + quote(f.Type)}
		}
		fields = append(fields, FieldSchema{
			Name:        f.Name,
			Type:        ft,
			Description: f.Description,
			Options:     f.Options,
			Default:     f.Default,
			RequiredAt:  f.RequiredAt,
		})
	}

	transitions := make([]TransitionDefinition, 0, len(doc.Transitions))
	seenTransitions := make(map[[2]string]bool, len(doc.Transitions))
	for _, t := range doc.Transitions {
		key := [2]string{t.From, t.To}
		if seenTransitions[key] {
			return nil, &ParseError{Field: "transitions", Message: fmt.Sprintf("duplicate transition %s -> %s", t.From, t.To)}
		}
		seenTransitions[key] = true

		enf := Enforcement(t.Enforcement)
		if !enf.valid() {
			return nil, &ParseError{Field: "transitions.enforcement", Message: "unknown enforcement " + quote(t.Enforcement)}
		}
		transitions = append(transitions, TransitionDefinition{
			From:           t.From,
			To:             t.To,
			Enforcement:    enf,
			RequiresFields: t.RequiresFields,
		})
	}

	tpl := &TypeTemplate{
		Type:              doc.Type,
		DisplayName:       doc.DisplayName,
		Description:       doc.Description,
		Pack:              doc.Pack,
		States:            states,
		InitialState:      doc.InitialState,
		Transitions:       transitions,
		FieldsSchema:      fields,
		SuggestedChildren: doc.SuggestedChildren,
		SuggestedLabels:   doc.SuggestedLabels,
	}
	return tpl, nil
}

// ValidateTypeTemplate checks dangling cross-references within tpl:
// initial_state, every transition endpoint, every requires_fields entry, and
// every required_at entry must resolve. An empty result signals validity.
//
// This is a separate pass from ParseTypeTemplate because some callers (the
// pack loader iterating trusted built-in data) only need the cheap
// structural checks parsing already performed; others (installing an
// untrusted pack) need this full cross-reference pass too.
func ValidateTypeTemplate(tpl *TypeTemplate) []string {
	var issues []string

	if !tpl.HasState(tpl.InitialState) {
		issues = append(issues, fmt.Sprintf("initial_state %q is not a declared state", tpl.InitialState))
	}

	for _, t := range tpl.Transitions {
		if !tpl.HasState(t.From) {
			issues = append(issues, fmt.Sprintf("transition from %q: not a declared state", t.From))
		}
		if !tpl.HasState(t.To) {
			issues = append(issues, fmt.Sprintf("transition to %q: not a declared state", t.To))
		}
		for _, rf := range t.RequiresFields {
			if !tpl.HasField(rf) {
				issues = append(issues, fmt.Sprintf("transition %s -> %s requires_fields %q: not a declared field", t.From, t.To, rf))
			}
		}
	}

	for _, f := range tpl.FieldsSchema {
		for _, rs := range f.RequiredAt {
			if !tpl.HasState(rs) {
				issues = append(issues, fmt.Sprintf("field %q required_at %q: not a declared state", f.Name, rs))
			}
		}
	}

	return issues
}

// ParsePack converts a JSON-shaped pack document into a fully constructed
// WorkflowPack. It enforces that every contained type's pack field matches
// the enclosing pack name and that the guide (if present) meets the length
// floors of §3.1.
func ParsePack(raw []byte) (*WorkflowPack, error) {
	if err := schema.Default().ValidatePack(raw); err != nil {
		return nil, &ParseError{Message: err.Error()}
	}

	var doc rawPack
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("malformed JSON: %v", err)}
	}

	if doc.Name == "" {
		return nil, &ParseError{Field: "name", Message: "required"}
	}
	if doc.Version == "" {
		return nil, &ParseError{Field: "version", Message: "required"}
	}

	types := make(map[string]TypeTemplate, len(doc.Types))
	for name, rawTpl := range doc.Types {
		if rawTpl.Pack != "" && rawTpl.Pack != doc.Name {
			return nil, &ParseError{Field: "types." + name + ".pack", Message: fmt.Sprintf("declares pack %q, does not match enclosing pack %q", rawTpl.Pack, doc.Name)}
		}
		rawTpl.Pack = doc.Name
		if rawTpl.Type == "" {
			rawTpl.Type = name
		}
		tpl, err := buildTypeTemplate(rawTpl)
		if err != nil {
			return nil, err
		}
		types[name] = *tpl
	}

	var guide *Guide
	if doc.Guide != nil {
		g, err := buildGuide(*doc.Guide)
		if err != nil {
			return nil, err
		}
		guide = g
	}

	return &WorkflowPack{
		Name:                   doc.Name,
		Version:                doc.Version,
		DisplayName:            doc.DisplayName,
		Description:            doc.Description,
		Types:                  types,
		RequiresPacks:          doc.RequiresPacks,
		Relationships:          doc.Relationships,
		CrossPackRelationships: doc.CrossPackRelationships,
		Guide:                  guide,
	}, nil
}

func buildGuide(raw rawGuide) (*Guide, error) {
	if wordCount(raw.Overview) > 50 {
		return nil, &ParseError{Field: "guide.overview", Message: "exceeds 50 words"}
	}
	if wordCount(raw.WhenToUse) > 30 {
		return nil, &ParseError{Field: "guide.when_to_use", Message: "exceeds 30 words"}
	}
	if len(raw.Tips) < 3 {
		return nil, &ParseError{Field: "guide.tips", Message: "requires at least 3 tips"}
	}
	if len(raw.CommonMistakes) < 2 {
		return nil, &ParseError{Field: "guide.common_mistakes", Message: "requires at least 2 common mistakes"}
	}
	return &Guide{
		Diagram:        raw.Diagram,
		Overview:       raw.Overview,
		WhenToUse:      raw.WhenToUse,
		Tips:           raw.Tips,
		CommonMistakes: raw.CommonMistakes,
	}, nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
