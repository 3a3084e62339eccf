package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a configurable provider for engine tests.
type mockProvider struct {
	id          string
	canComplete bool
	suggestions []Suggestion
	err         error
	panicMsg    string
	calls       int
}

func (m *mockProvider) ID() string   { return m.id }
func (m *mockProvider) Name() string { return "mock " + m.id }

func (m *mockProvider) CanComplete(_ Context) bool { return m.canComplete }

func (m *mockProvider) GetCompletions(_ context.Context, _ Context, _ Config) ([]Suggestion, error) {
	m.calls++
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.suggestions, m.err
}

func newTestEngine(cfg Config) *Engine {
	return NewEngine(cfg, nil)
}

func TestRegisterProvider_DuplicateIDIsNoop(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	first := &mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{{Text: "first"}}}
	second := &mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{{Text: "second"}}}

	engine.RegisterProvider(first)
	engine.RegisterProvider(second)

	require.Equal(t, []string{"p"}, engine.Providers())

	result := engine.GetCompletions(context.Background(), Request{Input: "f", CursorPosition: 1})
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "first", result.Suggestions[0].Text)
}

func TestUnregisterProvider(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "a"})
	engine.RegisterProvider(&mockProvider{id: "b"})

	engine.UnregisterProvider("a")
	assert.Equal(t, []string{"b"}, engine.Providers())

	// Unknown ID is a no-op
	engine.UnregisterProvider("missing")
	assert.Equal(t, []string{"b"}, engine.Providers())
}

func TestGetCompletions_ConcatenatesInRegistrationOrder(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "a", canComplete: true, suggestions: []Suggestion{{Text: "alpha"}}})
	engine.RegisterProvider(&mockProvider{id: "b", canComplete: true, suggestions: []Suggestion{{Text: "beta"}}})

	result := engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})
	require.Len(t, result.Suggestions, 2)
	assert.Equal(t, "alpha", result.Suggestions[0].Text)
	assert.Equal(t, "beta", result.Suggestions[1].Text)
}

func TestGetCompletions_FailingProviderIsSkipped(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "bad", canComplete: true, err: errors.New("boom")})
	engine.RegisterProvider(&mockProvider{id: "good", canComplete: true, suggestions: []Suggestion{{Text: "ok"}}})

	result := engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "ok", result.Suggestions[0].Text)
}

func TestGetCompletions_PanickingProviderIsSkipped(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "bad", canComplete: true, panicMsg: "blew up"})
	engine.RegisterProvider(&mockProvider{id: "good", canComplete: true, suggestions: []Suggestion{{Text: "ok"}}})

	var result Result
	assert.NotPanics(t, func() {
		result = engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})
	})
	require.Len(t, result.Suggestions, 1)
	assert.Equal(t, "ok", result.Suggestions[0].Text)
}

func TestGetCompletions_SkipsProvidersThatCannotComplete(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	skipped := &mockProvider{id: "skipped", canComplete: false, suggestions: []Suggestion{{Text: "no"}}}
	engine.RegisterProvider(skipped)

	result := engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, 0, skipped.calls)
}

func TestGetCompletions_Sorting(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{
		{Text: "-la", Priority: PriorityHigh},
		{Text: "-l", Priority: PriorityHigh},
		{Text: "-a", Priority: PriorityHigh},
	}})

	result := engine.GetCompletions(context.Background(), Request{Input: "ls -", CursorPosition: 4})

	require.Len(t, result.Suggestions, 3)
	assert.Equal(t, "-a", result.Suggestions[0].Text)
	assert.Equal(t, "-l", result.Suggestions[1].Text)
	assert.Equal(t, "-la", result.Suggestions[2].Text)
}

func TestGetCompletions_SortPriorityBeatsPrefixAndText(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{
		{Text: "zz-low", Priority: PriorityLow},
		{Text: "mm-medium", Priority: PriorityMedium},
		{Text: "aa-high", Priority: PriorityHigh},
	}})

	result := engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})

	require.Len(t, result.Suggestions, 3)
	assert.Equal(t, "aa-high", result.Suggestions[0].Text)
	assert.Equal(t, "mm-medium", result.Suggestions[1].Text)
	assert.Equal(t, "zz-low", result.Suggestions[2].Text)
}

func TestGetCompletions_PrefixMatchesSortFirstWithinTier(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{
		{Text: "aaa", Priority: PriorityMedium},
		{Text: "cheat", Priority: PriorityMedium},
		{Text: "checkout", Priority: PriorityMedium},
	}})

	result := engine.GetCompletions(context.Background(), Request{Input: "git ch", CursorPosition: 6})

	require.Len(t, result.Suggestions, 3)
	assert.Equal(t, "cheat", result.Suggestions[0].Text)
	assert.Equal(t, "checkout", result.Suggestions[1].Text)
	assert.Equal(t, "aaa", result.Suggestions[2].Text)
}

func TestGetCompletions_TruncationAndHasMore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSuggestions = 2
	engine := newTestEngine(cfg)
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{
		{Text: "a"}, {Text: "b"}, {Text: "c"},
	}})

	result := engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})

	assert.Len(t, result.Suggestions, 2)
	assert.True(t, result.HasMore)
}

func TestGetCompletions_CommonPrefix(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{
		{Text: "foo.txt"}, {Text: "foobar"},
	}})

	result := engine.GetCompletions(context.Background(), Request{Input: "fo", CursorPosition: 2})
	assert.Equal(t, "foo", result.CommonPrefix)
}

func TestGetCompletions_CommonPrefixUsesTruncatedListOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSuggestions = 2
	engine := newTestEngine(cfg)
	// After sorting: foo-a, foo-b, zzz. Truncation to 2 leaves only
	// foo-* so the prefix is computed from those.
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{
		{Text: "zzz"}, {Text: "foo-b"}, {Text: "foo-a"},
	}})

	result := engine.GetCompletions(context.Background(), Request{Input: "foo", CursorPosition: 3})
	require.True(t, result.HasMore)
	assert.Equal(t, "foo-", result.CommonPrefix)
}

func TestGetCompletions_AutoCompletePrefixDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoCompletePrefix = false
	engine := newTestEngine(cfg)
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{
		{Text: "foo.txt"}, {Text: "foobar"},
	}})

	result := engine.GetCompletions(context.Background(), Request{Input: "fo", CursorPosition: 2})
	assert.Empty(t, result.CommonPrefix)
}

func TestGetCompletions_MinInputLengthShortCircuits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinInputLength = 3
	engine := newTestEngine(cfg)
	provider := &mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{{Text: "x"}}}
	engine.RegisterProvider(provider)

	var events []EventType
	engine.AddListener(func(ev Event) { events = append(events, ev.Type) })

	result := engine.GetCompletions(context.Background(), Request{Input: "ab", CursorPosition: 2})

	assert.Empty(t, result.Suggestions)
	assert.Equal(t, 0, provider.calls)
	// The result event is still emitted on the short-circuit path
	assert.Equal(t, []EventType{EventRequest, EventResult}, events)
}

func TestGetCompletions_Events(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true, suggestions: []Suggestion{{Text: "ok"}}})

	var events []Event
	engine.AddListener(func(ev Event) { events = append(events, ev) })

	engine.GetCompletions(context.Background(), Request{Input: "o", CursorPosition: 1})

	require.Len(t, events, 2)
	assert.Equal(t, EventRequest, events[0].Type)
	assert.Equal(t, EventResult, events[1].Type)
	assert.Len(t, events[1].Suggestions, 1)
}

func TestListeners_PanicIsolatedAndRemovable(t *testing.T) {
	engine := newTestEngine(DefaultConfig())
	engine.RegisterProvider(&mockProvider{id: "p", canComplete: true})

	engine.AddListener(func(Event) { panic("listener blew up") })
	var called int
	handle := engine.AddListener(func(Event) { called++ })

	assert.NotPanics(t, func() {
		engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})
	})
	assert.Equal(t, 2, called) // request + result

	engine.RemoveListener(handle)
	engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1})
	assert.Equal(t, 2, called)
}

func TestGetCompletions_StampsGeneration(t *testing.T) {
	engine := newTestEngine(DefaultConfig())

	result := engine.GetCompletions(context.Background(), Request{Input: "x", CursorPosition: 1, Generation: 7})
	assert.Equal(t, uint64(7), result.Generation)
	assert.Equal(t, uint64(7), result.Context.Generation)
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"foo"}, "foo"},
		{"shared prefix", []string{"foo.txt", "foobar"}, "foo"},
		{"no shared prefix", []string{"abc", "xyz"}, ""},
		{"identical", []string{"same", "same"}, "same"},
		{"one is prefix of other", []string{"foo", "foobar"}, "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := make([]Suggestion, len(tt.texts))
			for i, text := range tt.texts {
				suggestions[i] = Suggestion{Text: text}
			}
			assert.Equal(t, tt.want, commonPrefix(suggestions))
		})
	}
}
