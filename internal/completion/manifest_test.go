package completion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gitManifest = `version: v1
tools:
  git:
    description: Distributed version control
    subcommands:
      - name: checkout
        description: Switch branches
      - name: status
        description: Show the working tree status
      - name: stash
    flags:
      - name: --help
        description: Show help
      - name: --version
`

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func loadedGitProvider(t *testing.T) *ManifestProvider {
	t.Helper()
	p := NewManifestProvider()
	path := writeManifest(t, t.TempDir(), "git.yml", gitManifest)
	require.NoError(t, p.LoadFile(path))
	return p
}

func TestManifestProvider_LoadFile(t *testing.T) {
	p := loadedGitProvider(t)
	assert.Equal(t, []string{"git"}, p.Tools())
}

func TestManifestProvider_LoadFile_BadVersion(t *testing.T) {
	p := NewManifestProvider()
	path := writeManifest(t, t.TempDir(), "bad.yml", "version: v9\ntools: {}\n")
	assert.Error(t, p.LoadFile(path))
}

func TestManifestProvider_LoadFile_BadYAML(t *testing.T) {
	p := NewManifestProvider()
	path := writeManifest(t, t.TempDir(), "bad.yml", "tools: [not: a map")
	assert.Error(t, p.LoadFile(path))
}

func TestManifestProvider_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "git.yml", gitManifest)
	writeManifest(t, dir, "other.yaml", "version: v1\ntools:\n  kubectl:\n    subcommands:\n      - name: apply\n")
	writeManifest(t, dir, "ignored.txt", "not yaml")

	p := NewManifestProvider()
	require.NoError(t, p.LoadDir(dir))
	assert.ElementsMatch(t, []string{"git", "kubectl"}, p.Tools())
}

func TestManifestProvider_LoadDir_MissingIsNotAnError(t *testing.T) {
	p := NewManifestProvider()
	assert.NoError(t, p.LoadDir(filepath.Join(t.TempDir(), "nope")))
}

func TestManifestProvider_CanComplete(t *testing.T) {
	p := loadedGitProvider(t)

	assert.True(t, p.CanComplete(BuildContext("git ch", 6, "", nil, 0)))
	assert.True(t, p.CanComplete(BuildContext("/usr/bin/git ch", 15, "", nil, 0)))
	assert.False(t, p.CanComplete(BuildContext("git", 3, "", nil, 0)))
	assert.False(t, p.CanComplete(BuildContext("svn ch", 6, "", nil, 0)))
}

func TestManifestProvider_Subcommands(t *testing.T) {
	p := loadedGitProvider(t)

	cctx := BuildContext("git st", 6, "", nil, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"status", "stash"}, suggestionTexts(suggestions))
	for _, s := range suggestions {
		assert.Equal(t, PriorityHigh, s.Priority)
		assert.True(t, s.RequiresSpace)
	}
}

func TestManifestProvider_Flags(t *testing.T) {
	p := loadedGitProvider(t)

	cctx := BuildContext("git --h", 7, "", nil, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "--help", suggestions[0].Text)
	assert.Equal(t, PriorityMedium, suggestions[0].Priority)
	assert.Equal(t, "Show help", suggestions[0].Description)
}

func TestManifestProvider_DescriptionsFollowConfig(t *testing.T) {
	p := loadedGitProvider(t)
	cfg := DefaultConfig()
	cfg.ShowDescriptions = false

	cctx := BuildContext("git chec", 8, "", nil, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, cfg)
	require.NoError(t, err)

	require.Len(t, suggestions, 1)
	assert.Empty(t, suggestions[0].Description)
}
