package workflow

import "log/slog"

// fallbackInitialState is returned by GetInitialState for a type the
// registry does not know about, preserving backward compatibility with the
// prior flat three-state model (§4.4).
const fallbackInitialState = "open"

// TemplateRegistry holds the resolved templates and packs from a single
// Load call. Category and transition lookups are O(1) against indices built
// once at construction; GetValidTransitions, ValidateFieldsForState and the
// state listings walk the template's own slices. A TemplateRegistry is immutable after construction and safe
// for concurrent use by any number of goroutines without further
// coordination (§5).
type TemplateRegistry struct {
	types  map[string]TypeTemplate
	packs  map[string]WorkflowPack
	logger *slog.Logger

	// categoryCache maps (type, state) -> category, built eagerly.
	categoryCache map[categoryKey]Category
	// transitionCache maps type -> (from, to) -> TransitionDefinition, built eagerly.
	transitionCache map[string]map[[2]string]TransitionDefinition
}

type categoryKey struct {
	typeName  string
	stateName string
}

// NewRegistry builds a TemplateRegistry from a LoadResult, precomputing the
// category and transition caches that are the critical performance
// invariant of every query (§4.4).
func NewRegistry(result *LoadResult, logger *slog.Logger) *TemplateRegistry {
	if logger == nil {
		logger = slog.Default()
	}

	reg := &TemplateRegistry{
		types:           result.Types,
		packs:           result.Packs,
		logger:          logger,
		categoryCache:   make(map[categoryKey]Category),
		transitionCache: make(map[string]map[[2]string]TransitionDefinition),
	}

	for typeName, tpl := range result.Types {
		for _, s := range tpl.States {
			reg.categoryCache[categoryKey{typeName, s.Name}] = s.Category
		}
		byEdge := make(map[[2]string]TransitionDefinition, len(tpl.Transitions))
		for _, t := range tpl.Transitions {
			byEdge[[2]string{t.From, t.To}] = t
		}
		reg.transitionCache[typeName] = byEdge
	}

	return reg
}

// GetType returns the type's template, if known.
func (r *TemplateRegistry) GetType(name string) (TypeTemplate, bool) {
	tpl, ok := r.types[name]
	return tpl, ok
}

// GetPack returns the named pack, if enabled and known.
func (r *TemplateRegistry) GetPack(name string) (WorkflowPack, bool) {
	p, ok := r.packs[name]
	return p, ok
}

// ListTypes returns every resolved type template. Order is unspecified.
func (r *TemplateRegistry) ListTypes() []TypeTemplate {
	out := make([]TypeTemplate, 0, len(r.types))
	for _, tpl := range r.types {
		out = append(out, tpl)
	}
	return out
}

// ListPacks returns every enabled pack. Order is unspecified.
func (r *TemplateRegistry) ListPacks() []WorkflowPack {
	out := make([]WorkflowPack, 0, len(r.packs))
	for _, p := range r.packs {
		out = append(out, p)
	}
	return out
}

// GetInitialState returns the type's designated initial state. An unknown
// type yields the fallback initial state "open" and logs a warning — it
// never errors (§4.4).
func (r *TemplateRegistry) GetInitialState(typeName string) string {
	tpl, ok := r.types[typeName]
	if !ok {
		r.logger.Warn("unknown type, falling back to legacy initial state", "type", typeName)
		return fallbackInitialState
	}
	return tpl.InitialState
}

// GetCategory returns the category of state within typeName, if both are
// known. An unknown type or unknown state returns absent.
func (r *TemplateRegistry) GetCategory(typeName, state string) (Category, bool) {
	c, ok := r.categoryCache[categoryKey{typeName, state}]
	return c, ok
}

// GetValidStates returns the declared state names of typeName, if known.
func (r *TemplateRegistry) GetValidStates(typeName string) ([]string, bool) {
	tpl, ok := r.types[typeName]
	if !ok {
		return nil, false
	}
	out := make([]string, len(tpl.States))
	for i, s := range tpl.States {
		out[i] = s.Name
	}
	return out, true
}

// FirstStateOfCategory returns the first declared state of typeName whose
// category is cat, if any.
func (r *TemplateRegistry) FirstStateOfCategory(typeName string, cat Category) (string, bool) {
	tpl, ok := r.types[typeName]
	if !ok {
		return "", false
	}
	for _, s := range tpl.States {
		if s.Category == cat {
			return s.Name, true
		}
	}
	return "", false
}

func (r *TemplateRegistry) transition(typeName, from, to string) (TransitionDefinition, bool) {
	byEdge, ok := r.transitionCache[typeName]
	if !ok {
		return TransitionDefinition{}, false
	}
	t, ok := byEdge[[2]string{from, to}]
	return t, ok
}
