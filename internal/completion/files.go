package completion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider completes file and directory paths relative to the
// working directory of the completion context. Directories complete
// with a trailing separator and no space so the user can keep drilling
// down.
type FileProvider struct{}

// NewFileProvider creates a file path provider.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

// ID implements Provider.
func (f *FileProvider) ID() string { return "files" }

// Name implements Provider.
func (f *FileProvider) Name() string { return "File path" }

// CanComplete applies to argument positions, and to the command
// position when the token already looks like a path.
func (f *FileProvider) CanComplete(cctx Context) bool {
	if !cctx.IsNewCommand {
		return true
	}
	return strings.Contains(cctx.CurrentPart, string(filepath.Separator)) ||
		strings.HasPrefix(cctx.CurrentPart, ".")
}

// GetCompletions lists the directory portion of the current token.
func (f *FileProvider) GetCompletions(_ context.Context, cctx Context, cfg Config) ([]Suggestion, error) {
	dirPart, basePart := splitPathToken(cctx.CurrentPart)

	searchDir := dirPart
	if searchDir == "" {
		searchDir = "."
	}
	if !filepath.IsAbs(searchDir) && cctx.WorkingDirectory != "" {
		searchDir = filepath.Join(cctx.WorkingDirectory, searchDir)
	}

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil, err
	}

	tokenRange := currentTokenRange(cctx)
	suggestions := []Suggestion{}
	for _, entry := range entries {
		name := entry.Name()

		hidden := strings.HasPrefix(name, ".")
		if hidden && !cfg.IncludeHiddenFiles && !strings.HasPrefix(basePart, ".") {
			continue
		}
		if !matchPrefix(name, basePart, cfg.CaseSensitive) {
			continue
		}

		text := dirPart + name
		description := "file"
		requiresSpace := true
		if entry.IsDir() {
			text += string(filepath.Separator)
			description = "directory"
			requiresSpace = false
		}
		if !cfg.ShowDescriptions {
			description = ""
		}

		suggestions = append(suggestions, Suggestion{
			Text:          text,
			Priority:      PriorityMedium,
			Description:   description,
			Range:         tokenRange,
			RequiresSpace: requiresSpace,
		})
	}

	return suggestions, nil
}

// splitPathToken splits a path token into its directory prefix
// (including the trailing separator) and the base being completed.
func splitPathToken(token string) (dir, base string) {
	idx := strings.LastIndex(token, string(filepath.Separator))
	if idx < 0 {
		return "", token
	}
	return token[:idx+1], token[idx+1:]
}

func matchPrefix(candidate, prefix string, caseSensitive bool) bool {
	if prefix == "" {
		return true
	}
	if caseSensitive {
		return strings.HasPrefix(candidate, prefix)
	}
	return strings.HasPrefix(strings.ToLower(candidate), strings.ToLower(prefix))
}
