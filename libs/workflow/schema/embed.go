// Package schema provides structural CUE validation of the type-template
// and pack JSON documents exchanged across the engine's external interface
// (spec §6.1). It checks closed enumerations, the state-name grammar, and
// guide length floors — the checks that are cheap to express declaratively
// and do not require walking the document's own cross-references.
package schema

import _ "embed"

//go:embed cue/type_template.cue
var typeTemplateCUE string

//go:embed cue/pack.cue
var packCUE string

// schemaSource returns the embedded CUE source and the definition name to
// look up within it, for the given document kind.
func schemaSource(kind string) (source string, definition string, ok bool) {
	switch kind {
	case "type-template":
		return typeTemplateCUE, "#TypeTemplate", true
	case "pack":
		return packCUE, "#Pack", true
	default:
		return "", "", false
	}
}

// Kinds lists the document kinds this package can validate.
func Kinds() []string {
	return []string{"type-template", "pack"}
}

// Source returns the raw embedded CUE source for the given document kind.
func Source(kind string) (string, bool) {
	source, _, ok := schemaSource(kind)
	return source, ok
}
