// Package buffer owns the command line state for an interactive prompt:
// the text being edited, the cursor, the prompt string, and a bounded
// command history with a browsing cursor. All mutation goes through
// methods so the cursor invariant (0 <= cursor <= len(text)) holds after
// every operation.
package buffer

import (
	"strings"

	"github.com/promptline/promptline/internal/logger"
)

const (
	// DefaultMaxHistorySize is the history capacity when none is configured
	DefaultMaxHistorySize = 100
	// DefaultPrompt is the prompt string when none is configured
	DefaultPrompt = "$ "
)

// Config holds the tunables for a command buffer session.
type Config struct {
	MaxHistorySize  int
	Prompt          string
	AllowDuplicates bool
}

// CommandBuffer owns the editable command line and its history.
// Cursor positions are rune indices, not byte offsets.
type CommandBuffer struct {
	text   []rune
	cursor int
	prompt string

	// revision increases on every state change. Completion contexts are
	// stamped with it so stale in-flight results can be detected.
	revision uint64

	history      *History
	historyIndex int
	browsing     bool

	onExecute func(command string)
	log       *logger.Logger
}

// New creates a command buffer for one terminal session.
func New(cfg Config, log *logger.Logger) *CommandBuffer {
	if log == nil {
		log = logger.Nop()
	}
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &CommandBuffer{
		prompt:       prompt,
		history:      NewHistory(cfg.MaxHistorySize, cfg.AllowDuplicates),
		historyIndex: -1,
		log:          log,
	}
}

// OnExecute registers the callback invoked when a non-empty command is
// executed. Panics in the callback are caught and logged; execution is
// fire-and-forget from the buffer's perspective.
func (b *CommandBuffer) OnExecute(fn func(command string)) {
	b.onExecute = fn
}

// Text returns the current command text.
func (b *CommandBuffer) Text() string {
	return string(b.text)
}

// CursorPosition returns the cursor as a rune index into Text.
func (b *CommandBuffer) CursorPosition() int {
	return b.cursor
}

// Prompt returns the current prompt string.
func (b *CommandBuffer) Prompt() string {
	return b.prompt
}

// Revision returns the current buffer revision.
func (b *CommandBuffer) Revision() uint64 {
	return b.revision
}

// History returns the underlying history ring.
func (b *CommandBuffer) History() *History {
	return b.history
}

// IsBrowsingHistory reports whether the visible text reflects a past
// history entry rather than live-typed text.
func (b *CommandBuffer) IsBrowsingHistory() bool {
	return b.browsing
}

// HistoryIndex returns the browsing index, or -1 when not browsing.
func (b *CommandBuffer) HistoryIndex() int {
	if !b.browsing {
		return -1
	}
	return b.historyIndex
}

func (b *CommandBuffer) touch() {
	b.revision++
}

func (b *CommandBuffer) clampCursor() {
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor > len(b.text) {
		b.cursor = len(b.text)
	}
}

func (b *CommandBuffer) exitBrowsing() {
	b.browsing = false
	b.historyIndex = -1
}

// SetCommand replaces the text, moves the cursor to the end and exits
// history browsing.
func (b *CommandBuffer) SetCommand(text string) {
	b.text = []rune(text)
	b.cursor = len(b.text)
	b.exitBrowsing()
	b.touch()
}

// SetPrompt replaces the prompt string.
func (b *CommandBuffer) SetPrompt(prompt string) {
	b.prompt = prompt
	b.touch()
}

// InsertCharacterAtCursor splices ch into the text at the cursor and
// advances the cursor past it. Any edit invalidates the history pointer.
func (b *CommandBuffer) InsertCharacterAtCursor(ch rune) {
	b.clampCursor()
	b.text = append(b.text[:b.cursor], append([]rune{ch}, b.text[b.cursor:]...)...)
	b.cursor++
	b.exitBrowsing()
	b.touch()
}

// DeleteCharacterBeforeCursor removes the rune before the cursor.
func (b *CommandBuffer) DeleteCharacterBeforeCursor() {
	b.clampCursor()
	if b.cursor == 0 {
		return
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	b.exitBrowsing()
	b.touch()
}

// DeleteCharacterAtCursor removes the rune under the cursor.
func (b *CommandBuffer) DeleteCharacterAtCursor() {
	b.clampCursor()
	if b.cursor >= len(b.text) {
		return
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	b.exitBrowsing()
	b.touch()
}

// DeleteToEnd removes everything from the cursor to the end of the line.
func (b *CommandBuffer) DeleteToEnd() {
	b.clampCursor()
	if b.cursor >= len(b.text) {
		return
	}
	b.text = b.text[:b.cursor]
	b.exitBrowsing()
	b.touch()
}

// DeleteWordBeforeCursor removes the word immediately before the cursor:
// trailing spaces first, then back to the previous space boundary.
func (b *CommandBuffer) DeleteWordBeforeCursor() {
	b.clampCursor()
	if b.cursor == 0 {
		return
	}
	i := b.cursor
	for i > 0 && b.text[i-1] == ' ' {
		i--
	}
	for i > 0 && b.text[i-1] != ' ' {
		i--
	}
	b.text = append(b.text[:i], b.text[b.cursor:]...)
	b.cursor = i
	b.exitBrowsing()
	b.touch()
}

// MoveCursorLeft moves the cursor one rune left. Cursor moves never
// affect history state.
func (b *CommandBuffer) MoveCursorLeft() {
	b.cursor--
	b.clampCursor()
	b.touch()
}

// MoveCursorRight moves the cursor one rune right.
func (b *CommandBuffer) MoveCursorRight() {
	b.cursor++
	b.clampCursor()
	b.touch()
}

// MoveCursorToStart moves the cursor to column zero.
func (b *CommandBuffer) MoveCursorToStart() {
	b.cursor = 0
	b.touch()
}

// MoveCursorToEnd moves the cursor past the last rune.
func (b *CommandBuffer) MoveCursorToEnd() {
	b.cursor = len(b.text)
	b.touch()
}

// ClearCommand resets the text and cursor, exiting history browsing.
func (b *CommandBuffer) ClearCommand() {
	b.text = b.text[:0]
	b.cursor = 0
	b.exitBrowsing()
	b.touch()
}

// ClearHistory removes all history entries.
func (b *CommandBuffer) ClearHistory() {
	b.history.Clear()
	b.exitBrowsing()
	b.touch()
}

// ExecuteCommand pushes the current command to history, clears the
// buffer and invokes the execution callback. A command that is empty
// after trimming is a no-op.
func (b *CommandBuffer) ExecuteCommand() {
	command := strings.TrimSpace(string(b.text))
	if command == "" {
		return
	}

	b.history.Push(command)
	b.text = b.text[:0]
	b.cursor = 0
	b.exitBrowsing()
	b.touch()

	if b.onExecute == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("command", command).Str("panic", panicString(r)).Msg("execution callback panicked")
		}
	}()
	b.onExecute(command)
}

// NavigateHistoryUp moves to the previous (older) history entry,
// entering browsing mode on first use. Repeated Up at the oldest entry
// stays there.
func (b *CommandBuffer) NavigateHistoryUp() {
	if b.history.Len() == 0 {
		return
	}

	if !b.browsing {
		b.historyIndex = b.history.Len() - 1
		b.browsing = true
	} else if b.historyIndex > 0 {
		b.historyIndex--
	}

	b.loadHistoryEntry()
}

// NavigateHistoryDown moves to the next (newer) history entry. Moving
// past the newest entry clears the buffer and exits browsing. When not
// browsing it is a no-op.
func (b *CommandBuffer) NavigateHistoryDown() {
	if !b.browsing {
		return
	}

	if b.historyIndex >= b.history.Len()-1 {
		b.ClearCommand()
		return
	}

	b.historyIndex++
	b.loadHistoryEntry()
}

func (b *CommandBuffer) loadHistoryEntry() {
	entry, ok := b.history.At(b.historyIndex)
	if !ok {
		b.exitBrowsing()
		return
	}
	b.text = []rune(entry.Command)
	b.cursor = len(b.text)
	b.touch()
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
