package completion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBinDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0755))
	}
	// A non-executable file must not be offered
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	return dir
}

func TestCommandProvider_CanComplete(t *testing.T) {
	p := NewCommandProvider()

	assert.True(t, p.CanComplete(BuildContext("gi", 2, "", nil, 0)))
	assert.True(t, p.CanComplete(BuildContext("", 0, "", nil, 0)))
	assert.False(t, p.CanComplete(BuildContext("git st", 6, "", nil, 0)))
	assert.False(t, p.CanComplete(BuildContext("./run", 5, "", nil, 0)))
}

func TestCommandProvider_FindsExecutablesOnPath(t *testing.T) {
	bin := setupBinDir(t, "gitx", "gopls")
	p := NewCommandProvider()

	env := map[string]string{"PATH": bin}
	cctx := BuildContext("g", 1, "", env, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)

	texts := suggestionTexts(suggestions)
	assert.Contains(t, texts, "gitx")
	assert.Contains(t, texts, "gopls")
	assert.NotContains(t, texts, "notes.txt")
}

func TestCommandProvider_IncludesBuiltins(t *testing.T) {
	bin := setupBinDir(t)
	p := NewCommandProvider()

	env := map[string]string{"PATH": bin}
	cctx := BuildContext("e", 1, "", env, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)

	texts := suggestionTexts(suggestions)
	assert.Contains(t, texts, "echo")
	assert.Contains(t, texts, "exit")
	assert.Contains(t, texts, "export")
}

func TestCommandProvider_SuggestionShape(t *testing.T) {
	bin := setupBinDir(t, "gitx")
	p := NewCommandProvider()

	env := map[string]string{"PATH": bin}
	cctx := BuildContext("gitx", 4, "", env, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, PriorityHigh, s.Priority)
	assert.True(t, s.RequiresSpace)
	require.NotNil(t, s.Range)
	assert.Equal(t, 0, s.Range.Start)
	assert.Equal(t, 4, s.Range.End)
}

func TestCommandProvider_CacheInvalidatesOnPathChange(t *testing.T) {
	bin1 := setupBinDir(t, "alpha")
	bin2 := setupBinDir(t, "beta")
	p := NewCommandProvider()

	cctx := BuildContext("a", 1, "", map[string]string{"PATH": bin1}, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, suggestionTexts(suggestions), "alpha")

	cctx = BuildContext("b", 1, "", map[string]string{"PATH": bin2}, 0)
	suggestions, err = p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)
	texts := suggestionTexts(suggestions)
	assert.Contains(t, texts, "beta")
	assert.NotContains(t, texts, "alpha")
}

func TestCommandProvider_MissingPathDirsIgnored(t *testing.T) {
	p := NewCommandProvider()

	env := map[string]string{"PATH": "/definitely/not/here"}
	cctx := BuildContext("e", 1, "", env, 0)
	suggestions, err := p.GetCompletions(context.Background(), cctx, DefaultConfig())
	require.NoError(t, err)

	// Builtins still come back
	assert.Contains(t, suggestionTexts(suggestions), "echo")
}
