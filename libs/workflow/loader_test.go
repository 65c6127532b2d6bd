package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pack(name string, requires []string, types map[string]TypeTemplate) WorkflowPack {
	return WorkflowPack{Name: name, Version: "1.0.0", DisplayName: name, RequiresPacks: requires, Types: types}
}

func TestLoad_BuiltinOnly(t *testing.T) {
	l := NewLoader(nil)
	builtins := []WorkflowPack{
		pack("core", nil, map[string]TypeTemplate{"task": taskTemplate()}),
		pack("planning", []string{"core"}, map[string]TypeTemplate{}),
	}

	result, err := l.Load(LoadOptions{EnabledPacks: []string{"core", "planning"}}, builtins)
	require.NoError(t, err)
	assert.Contains(t, result.Types, "task")
	assert.Len(t, result.Packs, 2)
}

func TestLoad_DisabledPackTypeNotResolved(t *testing.T) {
	l := NewLoader(nil)
	builtins := []WorkflowPack{
		pack("core", nil, map[string]TypeTemplate{"task": taskTemplate()}),
		pack("risk", []string{"core"}, map[string]TypeTemplate{"risk_item": {Type: "risk_item", InitialState: "open", States: []StateDefinition{{Name: "open", Category: CategoryOpen}}}}),
	}

	result, err := l.Load(LoadOptions{EnabledPacks: []string{"core"}}, builtins)
	require.NoError(t, err)
	assert.Contains(t, result.Types, "task")
	assert.NotContains(t, result.Types, "risk_item")
	assert.NotContains(t, result.Packs, "risk")
}

func TestLoad_MissingPackDependencyFails(t *testing.T) {
	l := NewLoader(nil)
	builtins := []WorkflowPack{
		pack("core", nil, nil),
		pack("planning", []string{"core"}, nil),
	}

	_, err := l.Load(LoadOptions{EnabledPacks: []string{"planning"}}, builtins)
	require.Error(t, err)
	var depErr *PackDependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "planning", depErr.Pack)
	assert.Equal(t, []string{"core"}, depErr.Missing)
}

func TestLoad_DependencyCycleDetected(t *testing.T) {
	l := NewLoader(nil)
	builtins := []WorkflowPack{
		pack("a", []string{"b"}, nil),
		pack("b", []string{"c"}, nil),
		pack("c", []string{"a"}, nil),
	}

	_, err := l.Load(LoadOptions{EnabledPacks: []string{"a", "b", "c"}}, builtins)
	require.Error(t, err)
	var depErr *PackDependencyError
	require.ErrorAs(t, err, &depErr)
	assert.NotEmpty(t, depErr.Cycle)
}

// TestLoad_PackCollision_LexicographicFirstWriterWins covers DESIGN.md
// Open Question 3: two packs declaring the same type resolve
// deterministically by sorted pack name, first writer wins.
func TestLoad_PackCollision_LexicographicFirstWriterWins(t *testing.T) {
	l := NewLoader(nil)
	tplA := TypeTemplate{Type: "widget", DisplayName: "from-alpha", InitialState: "open", States: []StateDefinition{{Name: "open", Category: CategoryOpen}}}
	tplZ := TypeTemplate{Type: "widget", DisplayName: "from-zulu", InitialState: "open", States: []StateDefinition{{Name: "open", Category: CategoryOpen}}}
	builtins := []WorkflowPack{
		pack("alpha", nil, map[string]TypeTemplate{"widget": tplA}),
		pack("zulu", nil, map[string]TypeTemplate{"widget": tplZ}),
	}

	result, err := l.Load(LoadOptions{EnabledPacks: []string{"alpha", "zulu"}}, builtins)
	require.NoError(t, err)
	assert.Equal(t, "from-alpha", result.Types["widget"].DisplayName)
}

func TestLoad_Idempotent(t *testing.T) {
	l := NewLoader(nil)
	builtins := []WorkflowPack{
		pack("core", nil, map[string]TypeTemplate{"task": taskTemplate(), "bug": bugTemplate()}),
	}
	opts := LoadOptions{EnabledPacks: []string{"core"}}

	r1, err := l.Load(opts, builtins)
	require.NoError(t, err)
	r2, err := l.Load(opts, builtins)
	require.NoError(t, err)

	assert.Equal(t, r1.Types, r2.Types)
	assert.Equal(t, r1.Packs, r2.Packs)
}

func TestLoad_InstalledPackDirectory(t *testing.T) {
	dir := t.TempDir()
	packJSON := `{
    "name": "extra",
    "version": "1.0.0",
    "display_name": "Extra",
    "requires_packs": ["core"],
    "types": {
      "gadget": {
        "type": "gadget", "display_name": "Gadget", "pack": "extra",
        "initial_state": "open",
        "states": [{"name":"open","category":"open"},{"name":"done","category":"done"}],
        "transitions": [{"from":"open","to":"done","enforcement":"soft","requires_fields":[]}],
        "fields_schema": []
      }
    }
  }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.json"), []byte(packJSON), 0o644))

	l := NewLoader(nil)
	builtins := []WorkflowPack{pack("core", nil, nil)}

	result, err := l.Load(LoadOptions{EnabledPacks: []string{"core", "extra"}, PackDir: dir}, builtins)
	require.NoError(t, err)
	assert.Contains(t, result.Types, "gadget")
	assert.Contains(t, result.Packs, "extra")
}

func TestLoad_SkipsMalformedInstalledPackFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	l := NewLoader(nil)
	builtins := []WorkflowPack{pack("core", nil, map[string]TypeTemplate{"task": taskTemplate()})}

	result, err := l.Load(LoadOptions{EnabledPacks: []string{"core"}, PackDir: dir}, builtins)
	require.NoError(t, err)
	assert.Contains(t, result.Types, "task")
	assert.NotEmpty(t, result.Warnings)
}

func TestLoad_ProjectOverrideReplacesWholeDocument(t *testing.T) {
	dir := t.TempDir()
	overrideJSON := `{
    "type": "task", "display_name": "Custom Task", "pack": "core",
    "initial_state": "backlog",
    "states": [{"name":"backlog","category":"open"},{"name":"done","category":"done"}],
    "transitions": [{"from":"backlog","to":"done","enforcement":"soft","requires_fields":[]}],
    "fields_schema": []
  }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "task.json"), []byte(overrideJSON), 0o644))

	l := NewLoader(nil)
	builtins := []WorkflowPack{pack("core", nil, map[string]TypeTemplate{"task": taskTemplate()})}

	result, err := l.Load(LoadOptions{EnabledPacks: []string{"core"}, TemplatesDir: dir}, builtins)
	require.NoError(t, err)
	require.Contains(t, result.Types, "task")
	assert.Equal(t, "backlog", result.Types["task"].InitialState)
	assert.Equal(t, "Custom Task", result.Types["task"].DisplayName)
}

// TestLoad_OverrideForDisabledPackDiscarded covers DESIGN.md Open Question
// 1: an override for a type whose pack is disabled is silently discarded
// from the resolved type set but recorded in SkippedOverrides.
func TestLoad_OverrideForDisabledPackDiscarded(t *testing.T) {
	dir := t.TempDir()
	overrideJSON := `{
    "type": "risk_item", "display_name": "Risk", "pack": "risk",
    "initial_state": "open",
    "states": [{"name":"open","category":"open"}],
    "transitions": [], "fields_schema": []
  }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "risk_item.json"), []byte(overrideJSON), 0o644))

	l := NewLoader(nil)
	builtins := []WorkflowPack{pack("core", nil, nil)}

	result, err := l.Load(LoadOptions{EnabledPacks: []string{"core"}, TemplatesDir: dir}, builtins)
	require.NoError(t, err)
	assert.NotContains(t, result.Types, "risk_item")
	assert.Equal(t, []string{"risk_item"}, result.SkippedOverrides)
}
