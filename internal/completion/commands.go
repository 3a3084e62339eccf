package completion

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// shellBuiltins are always offered for the command position.
var shellBuiltins = []string{"cd", "echo", "exit", "export", "pwd", "unset"}

// CommandProvider completes the command position from executables found
// on PATH, plus a fixed set of shell builtins. The PATH scan is cached
// and re-done only when the PATH value changes.
type CommandProvider struct {
	mu         sync.Mutex
	cachedPath string
	cachedCmds []string
}

// NewCommandProvider creates a command name provider.
func NewCommandProvider() *CommandProvider {
	return &CommandProvider{}
}

// ID implements Provider.
func (c *CommandProvider) ID() string { return "commands" }

// Name implements Provider.
func (c *CommandProvider) Name() string { return "Command name" }

// CanComplete applies only to the first token, and not when the user is
// typing a path.
func (c *CommandProvider) CanComplete(cctx Context) bool {
	return cctx.IsNewCommand && !strings.Contains(cctx.CurrentPart, string(filepath.Separator))
}

// GetCompletions returns command names matching the current part.
func (c *CommandProvider) GetCompletions(_ context.Context, cctx Context, cfg Config) ([]Suggestion, error) {
	pathValue := cctx.EnvironmentVariables["PATH"]
	if pathValue == "" {
		pathValue = os.Getenv("PATH")
	}

	commands := c.scanPath(pathValue)

	tokenRange := currentTokenRange(cctx)
	suggestions := []Suggestion{}
	for _, name := range commands {
		if !matchPrefix(name, cctx.CurrentPart, cfg.CaseSensitive) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Text:          name,
			Priority:      PriorityHigh,
			Range:         tokenRange,
			RequiresSpace: true,
		})
	}

	return suggestions, nil
}

// scanPath lists executable names on PATH, deduplicated and sorted.
func (c *CommandProvider) scanPath(pathValue string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pathValue == c.cachedPath && c.cachedCmds != nil {
		return c.cachedCmds
	}

	seen := make(map[string]bool)
	for _, name := range shellBuiltins {
		seen[name] = true
	}

	for _, dir := range filepath.SplitList(pathValue) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.Mode()&0111 == 0 {
				continue
			}
			seen[entry.Name()] = true
		}
	}

	commands := make([]string, 0, len(seen))
	for name := range seen {
		commands = append(commands, name)
	}
	sort.Strings(commands)

	c.cachedPath = pathValue
	c.cachedCmds = commands
	return commands
}
