package engineconfig

import "errors"

// ErrInvalidYAML is returned when the configuration document contains
// invalid YAML syntax.
var ErrInvalidYAML = errors.New("invalid YAML syntax")
