// Package config handles loading and parsing of promptline
// configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/promptline/promptline/internal/completion"
	"github.com/promptline/promptline/internal/perrors"
)

// SupportedConfigNames contains supported configuration file names (in
// order of preference)
var SupportedConfigNames = []string{
	".promptline.yml",
	".promptline.yaml",
	".promptline.toml",
	".promptline.json",
}

// InputConfig holds the command input tunables.
type InputConfig struct {
	MaxHistorySize  int    `koanf:"max_history_size"`
	Prompt          string `koanf:"prompt"`
	DebounceDelayMS int    `koanf:"debounce_delay_ms"`
	AllowDuplicates bool   `koanf:"allow_duplicates"`
}

// Debounce returns the configured debounce delay as a duration. It is
// surfaced for hosts that coalesce completion requests; the engine does
// not depend on it for correctness.
func (c InputConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceDelayMS) * time.Millisecond
}

// Config is the full promptline configuration.
type Config struct {
	Input        InputConfig       `koanf:"input"`
	Completion   completion.Config `koanf:"completion"`
	ManifestDirs []string          `koanf:"manifest_dirs"`
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			MaxHistorySize:  100,
			Prompt:          "$ ",
			DebounceDelayMS: 100,
			AllowDuplicates: false,
		},
		Completion: completion.DefaultConfig(),
	}
}

// FindConfig returns the path of the first supported config file in
// dir, or empty when none exists.
func FindConfig(dir string) string {
	for _, name := range SupportedConfigNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads a config file, layered over the defaults. The format is
// chosen by extension.
func Load(path string) (*Config, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, perrors.NewConfigurationError(path, "failed to load config", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, perrors.NewConfigurationError(path, "failed to parse config", err)
	}
	return cfg, nil
}

// LoadBytes parses config content in the format implied by path. Used
// by validation, which already holds the raw bytes.
func LoadBytes(path string, content []byte) (*Config, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), parser); err != nil {
		return nil, perrors.NewConfigurationError(path, "failed to load config", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, perrors.NewConfigurationError(path, "failed to parse config", err)
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}
}
