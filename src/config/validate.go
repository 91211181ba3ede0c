package config

import (
	"fmt"
	"strings"
)

var strategies = map[string]bool{"highest": true, "lowest": true, "most-used": true}

// Validate checks structural invariants of a loaded Config.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.JSONIndent < 0 {
		errs = append(errs, fmt.Sprintf("json_indent: must be >= 0, got %d", cfg.JSONIndent))
	}
	if strings.TrimSpace(cfg.ManifestFile) == "" {
		errs = append(errs, "manifest_file: must not be empty")
	}
	if cfg.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("concurrency: must be >= 1, got %d", cfg.Concurrency))
	}

	c := cfg.Consolidate
	if !strategies[strings.ToLower(c.Strategy)] {
		errs = append(errs, fmt.Sprintf("consolidate.strategy: unknown strategy %q (supported: highest, lowest, most-used)", c.Strategy))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("consolidate.max_attempts: must be >= 1, got %d", c.MaxAttempts))
	}
	if strings.TrimSpace(c.NPM) == "" {
		errs = append(errs, "consolidate.npm: must not be empty")
	}
	for name, v := range c.Pins {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Sprintf("consolidate.pins: %q has an empty version", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
