package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".workspace-tools.yml"

// envPrefix namespaces environment overrides, e.g. WORKSPACE_TOOLS_NPM.
const envPrefix = "WORKSPACE_TOOLS_"

// Config is the top-level workspace-tools configuration.
type Config struct {
	JSONIndent   int               `yaml:"json_indent" toml:"json_indent"`
	ManifestFile string            `yaml:"manifest_file" toml:"manifest_file"`
	Concurrency  int               `yaml:"concurrency" toml:"concurrency"`
	Consolidate  ConsolidateConfig `yaml:"consolidate" toml:"consolidate"`
	Version      VersionConfig     `yaml:"version" toml:"version"`
}

// ConsolidateConfig holds defaults for the consolidate command.
type ConsolidateConfig struct {
	HoistDev    bool              `yaml:"hoist_dev" toml:"hoist_dev"`
	Strategy    string            `yaml:"strategy" toml:"strategy"`
	MaxAttempts int               `yaml:"max_attempts" toml:"max_attempts"`
	Pins        map[string]string `yaml:"pins" toml:"pins"`
	NPM         string            `yaml:"npm" toml:"npm"`
}

// VersionConfig holds defaults for the workspace-version command.
type VersionConfig struct {
	Independent bool `yaml:"independent" toml:"independent"`
}

// Load reads configuration from a YAML or TOML file (chosen by extension).
// If path is empty, it tries the default file and returns defaults when
// that doesn't exist. A .env file in the working directory is loaded first
// and must parse if present. WORKSPACE_TOOLS_* variables override file values.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envPrefix + "NPM"); ok && v != "" {
		cfg.Consolidate.NPM = v
	}
	if v, ok := os.LookupEnv(envPrefix + "STRATEGY"); ok && v != "" {
		cfg.Consolidate.Strategy = v
	}
	if v, ok := os.LookupEnv(envPrefix + "JSON_INDENT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sJSON_INDENT: %w", envPrefix, err)
		}
		cfg.JSONIndent = n
	}
	return nil
}

// Default returns production defaults.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		JSONIndent:   4,
		ManifestFile: "package.json",
		Concurrency:  4,
		Consolidate: ConsolidateConfig{
			Strategy:    "highest",
			MaxAttempts: 3,
			Pins:        map[string]string{},
			NPM:         "npm",
		},
	}
}
