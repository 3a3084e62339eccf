// Package completion provides a pluggable completion system for an
// interactive command line. An Engine owns a registry of providers,
// builds a Context from the buffer state, collects and ranks their
// suggestions and applies the chosen one back into the line.
package completion

import (
	"context"
)

// Priority is the coarse ranking bucket for a suggestion. Lower values
// sort first.
type Priority int

// Priority tiers, most relevant first.
const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// String returns the tier name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Range identifies the rune span [Start, End) of the input a suggestion
// replaces. Providers that know exactly what they are completing should
// set it; without a range the engine falls back to locating the current
// word, which is ambiguous when the same word appears earlier in the
// line.
type Range struct {
	Start int
	End   int
}

// Suggestion is a single completion candidate.
type Suggestion struct {
	Text          string
	Priority      Priority
	Description   string
	Range         *Range
	RequiresSpace bool // insert a space after applying
}

// Context describes the completion request derived from buffer state.
// It is built fresh per request and never stored.
type Context struct {
	Input                string
	CursorPosition       int // rune index, clamped to [0, len(Input)]
	CommandParts         []string
	CurrentPartIndex     int
	CurrentPart          string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	IsNewCommand         bool // completing the first token

	// Generation echoes the buffer revision the context was built from,
	// so callers can discard results that resolved after newer edits.
	Generation uint64
}

// Result is the immutable outcome of one completion request.
type Result struct {
	Suggestions  []Suggestion // post-sort, post-truncate
	HasMore      bool         // true when truncation dropped candidates
	Context      Context
	CommonPrefix string // LCP of the truncated suggestion list
	Generation   uint64
}

// Provider is a pluggable completion source.
type Provider interface {
	// ID uniquely identifies the provider in the registry
	ID() string

	// Name is a human-readable label used in logs
	Name() string

	// CanComplete reports whether this provider applies to the context
	CanComplete(cctx Context) bool

	// GetCompletions returns candidates for the context. It may block on
	// I/O; the engine passes the caller's context through untouched.
	GetCompletions(ctx context.Context, cctx Context, cfg Config) ([]Suggestion, error)
}

// Config holds the completion tunables.
type Config struct {
	MaxSuggestions     int  `koanf:"max_suggestions"`
	MinInputLength     int  `koanf:"min_input_length"`
	ShowDescriptions   bool `koanf:"show_descriptions"`
	AutoCompletePrefix bool `koanf:"auto_complete_prefix"`
	CaseSensitive      bool `koanf:"case_sensitive"`
	IncludeHiddenFiles bool `koanf:"include_hidden_files"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxSuggestions:     20,
		MinInputLength:     0,
		ShowDescriptions:   true,
		AutoCompletePrefix: true,
		CaseSensitive:      false,
		IncludeHiddenFiles: false,
	}
}

// EventType identifies a completion lifecycle event.
type EventType string

// Completion lifecycle events.
const (
	EventRequest EventType = "request"
	EventResult  EventType = "result"
	EventApply   EventType = "apply"
)

// Event is delivered to registered listeners. Suggestions is set for
// result events, Applied for apply events.
type Event struct {
	Type        EventType
	Context     Context
	Suggestions []Suggestion
	Applied     *Suggestion
}

// Listener receives completion events. A panicking listener is isolated
// and logged; it never blocks other listeners.
type Listener func(Event)
