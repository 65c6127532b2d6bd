package workflow

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// LoadOptions configures a single Load call: which packs are enabled, and
// where the installed-pack and project-override document directories live.
// Either directory may be empty, in which case that layer contributes
// nothing.
type LoadOptions struct {
	EnabledPacks []string
	PackDir      string
	TemplatesDir string
}

// LoadResult is the flat, resolved output of a three-layer load: one
// TypeTemplate per enabled type name (post-override), and the set of
// enabled WorkflowPacks as loaded (pre-override — pack documents are never
// themselves patched by a type override).
type LoadResult struct {
	Types            map[string]TypeTemplate
	Packs            map[string]WorkflowPack
	SkippedOverrides []string
	Warnings         []string
}

// Loader resolves the three configuration layers — built-in, installed,
// project override — into a LoadResult. A Loader holds no state between
// calls; Load is a pure function of its arguments and the filesystem
// contents at call time, so calling it twice with unchanged inputs produces
// bitwise-identical results (§4.3's idempotence requirement).
type Loader struct {
	logger *slog.Logger
}

// NewLoader constructs a Loader. A nil logger defaults to slog.Default();
// logging is never required for correctness (§6.3).
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves builtinPacks (layer 1) overlaid by the installed-pack
// directory (layer 2) and the project-override directory (layer 3) per
// opts.
func (l *Loader) Load(opts LoadOptions, builtinPacks []WorkflowPack) (*LoadResult, error) {
	enabled := make(map[string]bool, len(opts.EnabledPacks))
	for _, name := range opts.EnabledPacks {
		enabled[name] = true
	}

	packsByName := make(map[string]WorkflowPack, len(builtinPacks))
	for _, p := range builtinPacks {
		packsByName[p.Name] = p
	}

	var warnings []string
	if opts.PackDir != "" {
		matches, _ := filepath.Glob(filepath.Join(opts.PackDir, "*.json"))
		sort.Strings(matches)
		for _, file := range matches {
			data, err := os.ReadFile(file)
			if err != nil {
				l.logger.Warn("skipping unreadable pack file", "file", file, "error", err)
				warnings = append(warnings, "skipped unreadable pack file "+file)
				continue
			}
			pack, err := ParsePack(data)
			if err != nil {
				l.logger.Warn("skipping malformed pack file", "file", file, "error", err)
				warnings = append(warnings, "skipped malformed pack file "+file)
				continue
			}
			packsByName[pack.Name] = *pack
		}
	}

	if err := checkPackDependencies(packsByName, enabled); err != nil {
		return nil, err
	}

	names := sortedKeys(packsByName)

	flatTypes := make(map[string]TypeTemplate)
	enabledPacks := make(map[string]WorkflowPack)
	for _, name := range names {
		if !enabled[name] {
			continue
		}
		pack := packsByName[name]
		enabledPacks[name] = pack
		for typeName, tpl := range pack.Types {
			// Two installed packs declaring the same type: deterministic
			// lexicographic order by pack name, first (alphabetically
			// smallest) writer wins — see DESIGN.md Open Question 3.
			if _, exists := flatTypes[typeName]; exists {
				continue
			}
			flatTypes[typeName] = tpl
		}
	}

	result := &LoadResult{
		Types:    flatTypes,
		Packs:    enabledPacks,
		Warnings: warnings,
	}

	if opts.TemplatesDir != "" {
		matches, _ := filepath.Glob(filepath.Join(opts.TemplatesDir, "*.json"))
		sort.Strings(matches)
		for _, file := range matches {
			data, err := os.ReadFile(file)
			if err != nil {
				l.logger.Warn("skipping unreadable override file", "file", file, "error", err)
				result.Warnings = append(result.Warnings, "skipped unreadable override file "+file)
				continue
			}
			tpl, err := ParseTypeTemplate(data)
			if err != nil {
				l.logger.Warn("skipping malformed override file", "file", file, "error", err)
				result.Warnings = append(result.Warnings, "skipped malformed override file "+file)
				continue
			}
			if tpl.Pack != "" && !enabled[tpl.Pack] {
				l.logger.Debug("discarding override for disabled pack", "type", tpl.Type, "pack", tpl.Pack)
				result.SkippedOverrides = append(result.SkippedOverrides, tpl.Type)
				continue
			}
			result.Types[tpl.Type] = *tpl
		}
	}

	return result, nil
}

// checkPackDependencies validates the requires_packs graph: every enabled
// pack's dependencies must also be enabled, and the declared graph (over
// all known packs, enabled or not) must be acyclic.
func checkPackDependencies(packs map[string]WorkflowPack, enabled map[string]bool) error {
	if cycle := detectDependencyCycle(packs); cycle != nil {
		return &PackDependencyError{Cycle: cycle}
	}

	for _, name := range sortedKeys(packs) {
		if !enabled[name] {
			continue
		}
		var missing []string
		for _, dep := range packs[name].RequiresPacks {
			if !enabled[dep] {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			return &PackDependencyError{Pack: name, Missing: missing}
		}
	}
	return nil
}

// detectDependencyCycle runs a DFS with recursion-stack tracking over the
// requires_packs graph, returning the cycle (as an ordered path ending back
// at its start) if one exists, or nil otherwise. Deterministic: packs are
// visited in sorted name order.
func detectDependencyCycle(packs map[string]WorkflowPack) []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(packs))
	var path []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		path = append(path, name)

		if pack, ok := packs[name]; ok {
			for _, dep := range pack.RequiresPacks {
				switch color[dep] {
				case gray:
					start := 0
					for i, n := range path {
						if n == dep {
							start = i
							break
						}
					}
					cycle = append(append([]string{}, path[start:]...), dep)
					return true
				case white:
					if visit(dep) {
						return true
					}
				}
			}
		}

		path = path[:len(path)-1]
		color[name] = black
		return false
	}

	for _, name := range sortedKeys(packs) {
		if color[name] == white {
			if visit(name) {
				return cycle
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
