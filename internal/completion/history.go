package completion

import (
	"context"
)

// HistorySource supplies past commands, oldest first.
type HistorySource interface {
	Commands() []string
}

// HistoryProvider suggests whole past commands when the first token is
// being typed. Matches replace the entire line up to the cursor.
type HistoryProvider struct {
	source HistorySource
}

// NewHistoryProvider creates a history provider backed by the given
// source.
func NewHistoryProvider(source HistorySource) *HistoryProvider {
	return &HistoryProvider{source: source}
}

// ID implements Provider.
func (h *HistoryProvider) ID() string { return "history" }

// Name implements Provider.
func (h *HistoryProvider) Name() string { return "Command history" }

// CanComplete applies while the first token is non-empty.
func (h *HistoryProvider) CanComplete(cctx Context) bool {
	return cctx.IsNewCommand && cctx.CurrentPart != ""
}

// GetCompletions returns past commands with a matching prefix, newest
// first, deduplicated.
func (h *HistoryProvider) GetCompletions(_ context.Context, cctx Context, cfg Config) ([]Suggestion, error) {
	if h.source == nil {
		return nil, nil
	}

	commands := h.source.Commands()
	lineRange := &Range{Start: 0, End: cctx.CursorPosition}

	seen := make(map[string]bool)
	suggestions := []Suggestion{}
	for i := len(commands) - 1; i >= 0; i-- {
		command := commands[i]
		if seen[command] || command == cctx.CurrentPart {
			continue
		}
		if !matchPrefix(command, cctx.CurrentPart, cfg.CaseSensitive) {
			continue
		}
		seen[command] = true

		description := ""
		if cfg.ShowDescriptions {
			description = "history"
		}

		suggestions = append(suggestions, Suggestion{
			Text:        command,
			Priority:    PriorityLow,
			Description: description,
			Range:       lineRange,
		})
	}

	return suggestions, nil
}
