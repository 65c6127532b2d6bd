package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// Validator performs structural CUE validation with compiled-schema caching.
// The zero value is not usable; construct one with New.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// New constructs a Validator with its own CUE context and an empty schema
// cache.
func New() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

var (
	defaultValidator *Validator
	once             sync.Once
)

// Default returns a process-wide Validator, built lazily on first use.
func Default() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

func (v *Validator) getSchema(kind string) (cue.Value, error) {
	v.mu.RLock()
	if s, ok := v.schemas[kind]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.schemas[kind]; ok {
		return s, nil
	}

	source, definition, ok := schemaSource(kind)
	if !ok {
		return cue.Value{}, fmt.Errorf("unknown schema kind: %s", kind)
	}

	compiled := v.ctx.CompileString(source)
	if compiled.Err() != nil {
		return cue.Value{}, fmt.Errorf("compile schema %s: %w", kind, compiled.Err())
	}

	def := compiled.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("lookup %s in schema %s: %w", definition, kind, def.Err())
	}

	v.schemas[kind] = def
	return def, nil
}

// Validate checks raw (a JSON document) against the named schema kind
// ("type-template" or "pack"). It returns nil if raw unifies with the
// schema and is concrete; otherwise a formatted, multi-issue error.
func (v *Validator) Validate(kind string, raw []byte) error {
	schemaValue, err := v.getSchema(kind)
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	dataValue := v.ctx.Encode(doc)
	if dataValue.Err() != nil {
		return fmt.Errorf("encode document: %w", dataValue.Err())
	}

	unified := schemaValue.Unify(dataValue)
	if unified.Err() != nil {
		return formatValidationError(unified.Err())
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateTypeTemplate validates raw against the #TypeTemplate schema.
func (v *Validator) ValidateTypeTemplate(raw []byte) error {
	return v.Validate("type-template", raw)
}

// ValidatePack validates raw against the #Pack schema.
func (v *Validator) ValidatePack(raw []byte) error {
	return v.Validate("pack", raw)
}

func formatValidationError(err error) error {
	var issues []string
	for _, e := range cueerrors.Errors(err) {
		msg := e.Error()
		if parts := strings.SplitN(msg, ":", 2); len(parts) == 2 {
			issues = append(issues, fmt.Sprintf("%s: %s", strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])))
		} else {
			issues = append(issues, msg)
		}
	}
	if len(issues) == 0 {
		return fmt.Errorf("structural validation failed: %v", err)
	}
	return fmt.Errorf("structural validation failed:\n  - %s", strings.Join(issues, "\n  - "))
}
