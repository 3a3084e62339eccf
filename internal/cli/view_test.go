package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptline/promptline/internal/completion"
)

func TestRenderSuggestions_WithDescriptions(t *testing.T) {
	result := completion.Result{
		Suggestions: []completion.Suggestion{
			{Text: "checkout", Description: "switch branches"},
			{Text: "cherry-pick"},
		},
	}

	out := RenderSuggestions(result, true)

	assert.Contains(t, out, "checkout")
	assert.Contains(t, out, "switch branches")
	assert.Contains(t, out, "cherry-pick")
}

func TestRenderSuggestions_DescriptionsDisabled(t *testing.T) {
	result := completion.Result{
		Suggestions: []completion.Suggestion{
			{Text: "checkout", Description: "switch branches"},
		},
	}

	out := RenderSuggestions(result, false)

	assert.Contains(t, out, "checkout")
	assert.NotContains(t, out, "switch branches")
}

func TestRenderSuggestions_HasMoreMarker(t *testing.T) {
	result := completion.Result{
		Suggestions: []completion.Suggestion{{Text: "a"}},
		HasMore:     true,
	}

	assert.Contains(t, RenderSuggestions(result, false), "more suggestions")
}

func TestRenderSuggestions_Empty(t *testing.T) {
	assert.Contains(t, RenderSuggestions(completion.Result{}, false), "no completions")
}

func TestRenderHistory(t *testing.T) {
	out := RenderHistory([]string{"ls", "pwd"})

	assert.Contains(t, out, "1")
	assert.Contains(t, out, "ls")
	assert.Contains(t, out, "pwd")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, RenderHistory(nil), "history is empty")
}
