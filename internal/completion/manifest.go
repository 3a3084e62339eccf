package completion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the supported manifest format version.
const ManifestVersion = "v1"

// Manifest is a YAML document describing static completions for a set
// of tools: subcommands and flags with descriptions.
type Manifest struct {
	Version string                  `yaml:"version"`
	Tools   map[string]ManifestTool `yaml:"tools"`
}

// ManifestTool holds the static completion entries for one tool.
type ManifestTool struct {
	Description string          `yaml:"description,omitempty"`
	Subcommands []ManifestEntry `yaml:"subcommands,omitempty"`
	Flags       []ManifestEntry `yaml:"flags,omitempty"`
}

// ManifestEntry is a single completable word.
type ManifestEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// ManifestProvider serves static subcommand and flag completions for
// tools described in YAML manifests. Subcommands rank high, flags
// medium.
type ManifestProvider struct {
	tools map[string]ManifestTool
}

// NewManifestProvider creates an empty manifest provider.
func NewManifestProvider() *ManifestProvider {
	return &ManifestProvider{tools: make(map[string]ManifestTool)}
}

// ID implements Provider.
func (m *ManifestProvider) ID() string { return "manifest" }

// Name implements Provider.
func (m *ManifestProvider) Name() string { return "Tool manifest" }

// LoadFile merges one manifest file into the provider.
func (m *ManifestProvider) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if manifest.Version != "" && manifest.Version != ManifestVersion {
		return fmt.Errorf("unsupported manifest version %q in %s", manifest.Version, path)
	}

	for tool, entry := range manifest.Tools {
		m.tools[tool] = entry
	}
	return nil
}

// LoadDir merges every .yml/.yaml manifest in a directory. A missing
// directory is not an error.
func (m *ManifestProvider) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		if err := m.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Tools returns the known tool names.
func (m *ManifestProvider) Tools() []string {
	names := make([]string, 0, len(m.tools))
	for name := range m.tools {
		names = append(names, name)
	}
	return names
}

// CanComplete applies to argument positions of a known tool.
func (m *ManifestProvider) CanComplete(cctx Context) bool {
	if cctx.IsNewCommand || len(cctx.CommandParts) == 0 {
		return false
	}
	_, known := m.tools[toolName(cctx)]
	return known
}

// GetCompletions returns subcommands, or flags when the current token
// starts with a dash.
func (m *ManifestProvider) GetCompletions(_ context.Context, cctx Context, cfg Config) ([]Suggestion, error) {
	tool, known := m.tools[toolName(cctx)]
	if !known {
		return nil, nil
	}

	entries := tool.Subcommands
	priority := PriorityHigh
	if strings.HasPrefix(cctx.CurrentPart, "-") {
		entries = tool.Flags
		priority = PriorityMedium
	}

	tokenRange := currentTokenRange(cctx)
	suggestions := []Suggestion{}
	for _, entry := range entries {
		if !matchPrefix(entry.Name, cctx.CurrentPart, cfg.CaseSensitive) {
			continue
		}
		description := entry.Description
		if !cfg.ShowDescriptions {
			description = ""
		}
		suggestions = append(suggestions, Suggestion{
			Text:          entry.Name,
			Priority:      priority,
			Description:   description,
			Range:         tokenRange,
			RequiresSpace: true,
		})
	}

	return suggestions, nil
}

// toolName is the first command part, stripped of any directory prefix.
func toolName(cctx Context) string {
	return filepath.Base(cctx.CommandParts[0])
}
