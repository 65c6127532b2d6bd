// Package builtin embeds the seed pack data shipped with the engine: the
// core and planning packs (complete per §4.6) and seven dependency stubs
// (requirements, risk, roadmap, incident, debt, spike, release) whose types
// are populated incrementally.
package builtin

import (
	"embed"
	"fmt"
	"sort"

	"github.com/workflowtpl/engine/libs/workflow"
)

//go:embed data/*.json
var data embed.FS

// names lists the built-in packs in a fixed, deterministic order.
var names = []string{
	"core",
	"planning",
	"requirements",
	"risk",
	"roadmap",
	"incident",
	"debt",
	"spike",
	"release",
}

// Packs parses and returns every built-in pack. It panics on malformed
// embedded data — a build-time invariant, not a runtime condition callers
// need to handle.
func Packs() []workflow.WorkflowPack {
	out := make([]workflow.WorkflowPack, 0, len(names))
	for _, name := range names {
		raw, err := data.ReadFile(fmt.Sprintf("data/%s.json", name))
		if err != nil {
			panic(fmt.Sprintf("builtin: missing embedded pack %q: %v", name, err))
		}
		pack, err := workflow.ParsePack(raw)
		if err != nil {
			panic(fmt.Sprintf("builtin: malformed embedded pack %q: %v", name, err))
		}
		for _, tpl := range pack.Types {
			if issues := workflow.ValidateTypeTemplate(&tpl); len(issues) > 0 {
				panic(fmt.Sprintf("builtin: pack %q type %q failed validation: %v", name, tpl.Type, issues))
			}
		}
		out = append(out, *pack)
	}
	return out
}

// Names returns the built-in pack names sorted alphabetically (not in the
// load order Packs uses).
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
