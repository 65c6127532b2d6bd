package engineconfig

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultEnabledPacks is the default enabled-pack selection per §6.2.
var DefaultEnabledPacks = []string{"core", "planning"}

// Config is the engine's bootstrap configuration.
type Config struct {
	// EnabledPacks is the ordered list of packs the caller has enabled.
	EnabledPacks []string `yaml:"enabled_packs"`

	// PackDir is the directory of installed pack documents
	// (<config-dir>/packs/*.json).
	PackDir string `yaml:"pack_dir"`

	// TemplatesDir is the directory of project-override type template
	// documents (<config-dir>/templates/*.json).
	TemplatesDir string `yaml:"templates_dir"`
}

// DefaultConfig returns a Config with every value defaulted.
func DefaultConfig() *Config {
	enabled := make([]string, len(DefaultEnabledPacks))
	copy(enabled, DefaultEnabledPacks)
	return &Config{
		EnabledPacks: enabled,
		PackDir:      "packs",
		TemplatesDir: "templates",
	}
}

// ApplyDefaults fills in missing config values with defaults, allowing
// partial configuration documents.
func ApplyDefaults(cfg *Config) {
	if len(cfg.EnabledPacks) == 0 {
		cfg.EnabledPacks = append(cfg.EnabledPacks, DefaultEnabledPacks...)
	}
	if cfg.PackDir == "" {
		cfg.PackDir = "packs"
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "templates"
	}
}

// LoadFromBytes parses the engine's bootstrap configuration from raw YAML
// bytes, applying defaults for any unspecified values. Empty input returns
// DefaultConfig().
func LoadFromBytes(data []byte) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("load engine config: %w", ErrInvalidYAML)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}
