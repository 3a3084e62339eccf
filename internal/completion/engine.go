package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/promptline/promptline/internal/logger"
	"github.com/promptline/promptline/internal/perrors"
	"github.com/promptline/promptline/internal/timing"
)

// Engine orchestrates the registered completion providers. Providers
// run sequentially in registration order so result concatenation is
// deterministic; a failing provider is logged and skipped, never
// aborting the batch.
type Engine struct {
	config    Config
	providers []Provider
	byID      map[string]Provider

	listeners  map[int]Listener
	listenerID int

	log *logger.Logger
}

// Request carries the buffer state for one completion call.
type Request struct {
	Input            string
	CursorPosition   int
	WorkingDirectory string
	Environment      map[string]string

	// Generation is the buffer revision the request was issued from. The
	// engine stamps it onto the Result so callers can discard results
	// that arrive after newer edits. The engine itself never cancels an
	// in-flight provider.
	Generation uint64
}

// NewEngine creates a completion engine with the given config.
func NewEngine(cfg Config, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MaxSuggestions <= 0 {
		cfg.MaxSuggestions = DefaultConfig().MaxSuggestions
	}
	return &Engine{
		config:    cfg,
		byID:      make(map[string]Provider),
		listeners: make(map[int]Listener),
		log:       log,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// RegisterProvider adds a provider to the registry. Registering a
// duplicate ID is a no-op: the first registration wins.
func (e *Engine) RegisterProvider(p Provider) {
	if p == nil {
		return
	}
	if _, exists := e.byID[p.ID()]; exists {
		e.log.Warn().Str("provider", p.ID()).Msg("provider already registered, ignoring")
		return
	}
	e.byID[p.ID()] = p
	e.providers = append(e.providers, p)
}

// UnregisterProvider removes a provider by ID. Unknown IDs are a no-op.
func (e *Engine) UnregisterProvider(id string) {
	if _, exists := e.byID[id]; !exists {
		e.log.Warn().Str("provider", id).Msg("unregister of unknown provider, ignoring")
		return
	}
	delete(e.byID, id)
	for i, p := range e.providers {
		if p.ID() == id {
			e.providers = append(e.providers[:i], e.providers[i+1:]...)
			break
		}
	}
}

// Providers returns the registered provider IDs in registration order.
func (e *Engine) Providers() []string {
	ids := make([]string, len(e.providers))
	for i, p := range e.providers {
		ids[i] = p.ID()
	}
	return ids
}

// AddListener subscribes to completion events and returns a handle for
// RemoveListener.
func (e *Engine) AddListener(l Listener) int {
	e.listenerID++
	e.listeners[e.listenerID] = l
	return e.listenerID
}

// RemoveListener unsubscribes a listener by handle.
func (e *Engine) RemoveListener(handle int) {
	delete(e.listeners, handle)
}

// emit fans an event out to all listeners. Each listener runs under its
// own recover so one failing listener never blocks the others.
func (e *Engine) emit(ev Event) {
	for handle, l := range e.listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					err := perrors.NewListenerError(string(ev.Type), "listener panicked", nil)
					e.log.Warn().Int("listener", handle).Str("panic", panicString(r)).Err(err).Msg("completion listener failed")
				}
			}()
			l(ev)
		}()
	}
}

// GetCompletions runs the full completion pipeline: build context, fan
// out to providers, sort, truncate and compute the common prefix. It
// never returns an error; any internal failure degrades to an empty
// result.
func (e *Engine) GetCompletions(ctx context.Context, req Request) Result {
	cctx := BuildContext(req.Input, req.CursorPosition, req.WorkingDirectory, req.Environment, req.Generation)

	e.emit(Event{Type: EventRequest, Context: cctx})

	result := e.collect(ctx, cctx)

	e.emit(Event{Type: EventResult, Context: cctx, Suggestions: result.Suggestions})
	return result
}

// collect performs steps 3-7 of the pipeline under a top-level recover.
func (e *Engine) collect(ctx context.Context, cctx Context) (result Result) {
	result = Result{
		Suggestions: []Suggestion{},
		Context:     cctx,
		Generation:  cctx.Generation,
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("panic", panicString(r)).Msg("completion pipeline failed, returning empty result")
			result = Result{Suggestions: []Suggestion{}, Context: cctx, Generation: cctx.Generation}
		}
	}()

	if len([]rune(cctx.CurrentPart)) < e.config.MinInputLength {
		return result
	}

	timer := timing.NewTimer()
	collected := []Suggestion{}
	for _, p := range e.providers {
		suggestions, err := e.queryProvider(ctx, p, cctx)
		timer.Mark(p.ID())
		if err != nil {
			e.log.Warn().Str("provider", p.ID()).Err(err).Msg("completion provider failed, skipping")
			continue
		}
		collected = append(collected, suggestions...)
	}

	sortSuggestions(collected, cctx.CurrentPart)

	result.HasMore = len(collected) > e.config.MaxSuggestions
	if result.HasMore {
		collected = collected[:e.config.MaxSuggestions]
	}
	result.Suggestions = collected

	if e.config.AutoCompletePrefix {
		// Computed over the truncated list only, so it can differ from
		// the longest common prefix of the full candidate set.
		result.CommonPrefix = commonPrefix(collected)
	}

	e.log.Debug().
		Str("part", cctx.CurrentPart).
		Int("suggestions", len(result.Suggestions)).
		Bool("hasMore", result.HasMore).
		Str("timing", timer.Summary()).
		Msg("completion request done")

	return result
}

// queryProvider runs one provider with panic isolation.
func (e *Engine) queryProvider(ctx context.Context, p Provider, cctx Context) (suggestions []Suggestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			suggestions = nil
			err = perrors.NewProviderError(p.ID(), "provider panicked: "+panicString(r), nil)
		}
	}()

	if !p.CanComplete(cctx) {
		return nil, nil
	}

	suggestions, callErr := p.GetCompletions(ctx, cctx, e.config)
	if callErr != nil {
		return nil, perrors.NewProviderError(p.ID(), "provider call failed", callErr)
	}
	return suggestions, nil
}

// sortSuggestions orders candidates by priority tier, then prefix
// matches against the current part, then case-sensitive lexicographic
// text order.
func sortSuggestions(suggestions []Suggestion, currentPart string) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		aMatch := strings.HasPrefix(a.Text, currentPart)
		bMatch := strings.HasPrefix(b.Text, currentPart)
		if aMatch != bMatch {
			return aMatch
		}
		return a.Text < b.Text
	})
}

// commonPrefix returns the longest common prefix of the suggestion
// texts, empty when there are no suggestions.
func commonPrefix(suggestions []Suggestion) string {
	if len(suggestions) == 0 {
		return ""
	}
	prefix := []rune(suggestions[0].Text)
	for _, s := range suggestions[1:] {
		runes := []rune(s.Text)
		if len(runes) < len(prefix) {
			prefix = prefix[:len(runes)]
		}
		for i := range prefix {
			if runes[i] != prefix[i] {
				prefix = prefix[:i]
				break
			}
		}
		if len(prefix) == 0 {
			break
		}
	}
	return string(prefix)
}

func panicString(r interface{}) string {
	if s, ok := r.(string); ok {
		return s
	}
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return "unknown panic"
}
