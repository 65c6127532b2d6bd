// Package workflow implements the workflow template engine: the subsystem
// that defines, loads, caches, and enforces per-type state machines over a
// heterogeneous collection of work items.
//
// The central type is TemplateRegistry, an in-memory, immutable-after-load
// catalog of TypeTemplates and WorkflowPacks with precomputed lookup indices
// for O(1) category and transition queries. Surrounding types convert
// external JSON documents into validated value types (Parse*), resolve the
// three-layer pack configuration into a flat set of enabled templates
// (Loader), and evaluate transition/field-requirement rules against a
// caller-supplied item state (ValidateTransition, GetValidTransitions,
// ValidateFieldsForState).
//
// # Key Concepts
//
// A TypeTemplate describes the complete workflow for one item type: its
// states (each tagged with a universal Category of open/wip/done), its
// declared transitions (each tagged with an Enforcement of hard/soft and an
// ordered set of required fields), and its field schema (each field
// optionally required at a set of states).
//
//	tpl, err := workflow.ParseTypeTemplate(raw)
//
// A WorkflowPack bundles named TypeTemplates together with a version,
// dependency list, and an optional Guide for human and automated consumers.
//
// Loading resolves built-in, installed, and project-override layers into a
// LoadResult, from which NewRegistry builds a single TemplateRegistry:
//
//	result, err := workflow.NewLoader(nil).Load(opts, builtin.Packs())
//	reg := workflow.NewRegistry(result, nil)
//
// Once built, a TemplateRegistry is read-only and safe for concurrent use
// from any goroutine without further synchronization; category and
// transition lookups are dictionary lookups against caches built once when
// the registry is constructed.
//
//	result := reg.ValidateTransition("bug", "fixing", "verifying", fields)
//
// # Subpackages
//
// The schema subpackage provides structural CUE validation of template and
// pack documents:
//
//	import "github.com/workflowtpl/engine/libs/workflow/schema"
//
// The builtin subpackage embeds the seed pack data shipped with the engine:
//
//	import "github.com/workflowtpl/engine/libs/workflow/builtin"
package workflow
