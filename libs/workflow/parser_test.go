package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTaskJSON = `{
  "type": "task",
  "display_name": "Task",
  "description": "A unit of work",
  "pack": "core",
  "states": [
    {"name": "open", "category": "open"},
    {"name": "in_progress", "category": "wip"},
    {"name": "done", "category": "done"}
  ],
  "initial_state": "open",
  "transitions": [
    {"from": "open", "to": "in_progress", "enforcement": "soft", "requires_fields": []},
    {"from": "in_progress", "to": "done", "enforcement": "soft", "requires_fields": []}
  ],
  "fields_schema": [
    {"name": "assignee", "type": "text", "description": "", "options": [], "required_at": []}
  ]
}`

func TestParseTypeTemplate_Valid(t *testing.T) {
	tpl, err := ParseTypeTemplate([]byte(validTaskJSON))
	require.NoError(t, err)
	assert.Equal(t, "task", tpl.Type)
	assert.Equal(t, "open", tpl.InitialState)
	assert.Len(t, tpl.States, 3)
	assert.Len(t, tpl.Transitions, 2)
	assert.Len(t, tpl.FieldsSchema, 1)
	assert.Empty(t, ValidateTypeTemplate(tpl))
}

func TestParseTypeTemplate_MissingRequiredKeys(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing type", doc: `{"display_name":"Task","initial_state":"open","states":[{"name":"open","category":"open"}],"transitions":[],"fields_schema":[]}`},
		{name: "missing display_name", doc: `{"type":"task","initial_state":"open","states":[{"name":"open","category":"open"}],"transitions":[],"fields_schema":[]}`},
		{name: "missing initial_state", doc: `{"type":"task","display_name":"Task","states":[{"name":"open","category":"open"}],"transitions":[],"fields_schema":[]}`},
		{name: "empty states", doc: `{"type":"task","display_name":"Task","initial_state":"open","states":[],"transitions":[],"fields_schema":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTypeTemplate([]byte(tt.doc))
			require.Error(t, err)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestParseTypeTemplate_UnknownFieldType(t *testing.T) {
	doc := `{
    "type":"task","display_name":"Task","initial_state":"open",
    "states":[{"name":"open","category":"open"}],
    "transitions":[],
    "fields_schema":[{"name":"x","type":"object","required_at":[]}]
  }`
	_, err := ParseTypeTemplate([]byte(doc))
	require.Error(t, err)
}

func TestParseTypeTemplate_DuplicateState(t *testing.T) {
	doc := `{
    "type":"task","display_name":"Task","initial_state":"open",
    "states":[{"name":"open","category":"open"},{"name":"open","category":"wip"}],
    "transitions":[], "fields_schema":[]
  }`
	_, err := ParseTypeTemplate([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate state")
}

func TestParseTypeTemplate_DuplicateTransition(t *testing.T) {
	doc := `{
    "type":"task","display_name":"Task","initial_state":"open",
    "states":[{"name":"open","category":"open"},{"name":"done","category":"done"}],
    "transitions":[
      {"from":"open","to":"done","enforcement":"soft","requires_fields":[]},
      {"from":"open","to":"done","enforcement":"hard","requires_fields":[]}
    ],
    "fields_schema":[]
  }`
	_, err := ParseTypeTemplate([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate transition")
}

func TestParseTypeTemplate_OversizedStates(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"type":"big","display_name":"Big","initial_state":"s0","states":[`)
	for i := 0; i <= maxStates; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"name":"s` + itoa(i) + `","category":"open"}`)
	}
	sb.WriteString(`],"transitions":[],"fields_schema":[]}`)

	_, err := ParseTypeTemplate([]byte(sb.String()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

func TestValidateTypeTemplate_DanglingReferences(t *testing.T) {
	tpl := &TypeTemplate{
		Type:         "bad",
		InitialState: "missing",
		States:       []StateDefinition{{Name: "open", Category: CategoryOpen}},
		Transitions: []TransitionDefinition{
			{From: "open", To: "nowhere", Enforcement: EnforcementSoft, RequiresFields: []string{"ghost"}},
		},
		FieldsSchema: []FieldSchema{
			{Name: "x", Type: FieldTypeText, RequiredAt: []string{"nowhere"}},
		},
	}

	issues := ValidateTypeTemplate(tpl)
	assert.Contains(t, strings.Join(issues, "\n"), "initial_state")
	assert.Contains(t, strings.Join(issues, "\n"), `transition to "nowhere"`)
	assert.Contains(t, strings.Join(issues, "\n"), "ghost")
	assert.Contains(t, strings.Join(issues, "\n"), `required_at "nowhere"`)
}

func TestParsePack_Valid(t *testing.T) {
	doc := `{
    "name": "core",
    "version": "1.0.0",
    "display_name": "Core",
    "types": {
      "task": ` + validTaskJSON + `
    },
    "requires_packs": [],
    "guide": {
      "diagram": "open -> in_progress -> done",
      "overview": "core task workflow",
      "when_to_use": "general work",
      "tips": ["keep it small", "assign early", "close promptly"],
      "common_mistakes": ["skipping triage", "leaving orphaned tasks"]
    }
  }`
	pack, err := ParsePack([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "core", pack.Name)
	require.Contains(t, pack.Types, "task")
	assert.Equal(t, "core", pack.Types["task"].Pack)
	require.NotNil(t, pack.Guide)
	assert.Len(t, pack.Guide.Tips, 3)
}

func TestParsePack_MismatchedPackField(t *testing.T) {
	doc := `{
    "name": "core",
    "version": "1.0.0",
    "display_name": "Core",
    "types": {
      "task": {
        "type": "task", "display_name": "Task", "pack": "other",
        "initial_state": "open",
        "states": [{"name":"open","category":"open"}],
        "transitions": [], "fields_schema": []
      }
    }
  }`
	_, err := ParsePack([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match enclosing pack")
}

func TestParsePack_MissingNameOrVersion(t *testing.T) {
	_, err := ParsePack([]byte(`{"version":"1.0.0","types":{}}`))
	require.Error(t, err)

	_, err = ParsePack([]byte(`{"name":"core","types":{}}`))
	require.Error(t, err)
}

func TestBuildGuide_LengthFloors(t *testing.T) {
	tests := []struct {
		name string
		g    rawGuide
	}{
		{
			name: "overview too long",
			g: rawGuide{
				Overview:       strings.Repeat("word ", 51),
				WhenToUse:      "ok",
				Tips:           []string{"a", "b", "c"},
				CommonMistakes: []string{"a", "b"},
			},
		},
		{
			name: "when_to_use too long",
			g: rawGuide{
				Overview:       "ok",
				WhenToUse:      strings.Repeat("word ", 31),
				Tips:           []string{"a", "b", "c"},
				CommonMistakes: []string{"a", "b"},
			},
		},
		{
			name: "too few tips",
			g: rawGuide{
				Overview:       "ok",
				WhenToUse:      "ok",
				Tips:           []string{"a", "b"},
				CommonMistakes: []string{"a", "b"},
			},
		},
		{
			name: "too few common mistakes",
			g: rawGuide{
				Overview:       "ok",
				WhenToUse:      "ok",
				Tips:           []string{"a", "b", "c"},
				CommonMistakes: []string{"a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildGuide(tt.g)
			require.Error(t, err)
		})
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, wordCount(""))
	assert.Equal(t, 3, wordCount("one two three"))
	assert.Equal(t, 3, wordCount("  one   two three  "))
}
