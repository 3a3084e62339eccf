package buffer

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry represents one executed command.
type HistoryEntry struct {
	ID        string
	Command   string // trimmed, never empty
	Timestamp time.Time
}

// History is a bounded, ordered sequence of executed commands.
// The oldest entry is evicted first on overflow. When duplicates are
// disallowed, pushing a command removes any prior identical entry first,
// so each distinct command appears at most once, at the most-recent
// position.
type History struct {
	entries         []HistoryEntry
	maxSize         int
	allowDuplicates bool
}

// NewHistory creates a history ring with the given capacity.
func NewHistory(maxSize int, allowDuplicates bool) *History {
	if maxSize <= 0 {
		maxSize = DefaultMaxHistorySize
	}
	return &History{
		entries:         make([]HistoryEntry, 0, maxSize),
		maxSize:         maxSize,
		allowDuplicates: allowDuplicates,
	}
}

// Push appends a command to history. Empty (after trimming) commands are
// ignored.
func (h *History) Push(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	if !h.allowDuplicates {
		for i, e := range h.entries {
			if e.Command == command {
				h.entries = append(h.entries[:i], h.entries[i+1:]...)
				break
			}
		}
	}

	h.entries = append(h.entries, HistoryEntry{
		ID:        uuid.NewString(),
		Command:   command,
		Timestamp: time.Now().UTC(),
	})

	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// At returns the entry at index i (0 = oldest).
func (h *History) At(i int) (HistoryEntry, bool) {
	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, false
	}
	return h.entries[i], true
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Commands returns just the command strings, oldest first.
func (h *History) Commands() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Command
	}
	return out
}

// Clear removes all entries.
func (h *History) Clear() {
	h.entries = h.entries[:0]
}
