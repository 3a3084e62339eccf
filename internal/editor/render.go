package editor

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/promptline/promptline/internal/logger"
	"github.com/promptline/promptline/internal/perrors"
	"github.com/promptline/promptline/internal/term"
)

// renderState is the last (prompt, text, cursor) triple drawn to the
// surface. Redraws are skipped while the triple is unchanged.
type renderState struct {
	prompt string
	text   string
	cursor int
}

// Renderer redraws the visible prompt line: carriage return, erase to
// end of line, prompt plus text, then a cursor-left sequence covering
// the display-width delta between end of line and the logical cursor
// column. Render failures are logged and non-fatal; the buffer state
// stays authoritative.
type Renderer struct {
	terminal term.Terminal
	last     renderState
	rendered bool
	log      *logger.Logger
}

// NewRenderer creates a renderer over the given terminal surface.
func NewRenderer(terminal term.Terminal, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}
	return &Renderer{terminal: terminal, log: log}
}

// Render redraws the line if anything changed since the last render.
func (r *Renderer) Render(prompt, text string, cursor int) {
	state := renderState{prompt: prompt, text: text, cursor: cursor}
	if r.rendered && state == r.last {
		return
	}

	out := "\r" + term.SeqEraseToEnd + prompt + text
	if delta := endColumn(prompt, text) - cursorColumn(prompt, text, cursor); delta > 0 {
		out += fmt.Sprintf("\x1b[%dD", delta)
	}

	if err := r.terminal.Write(out); err != nil {
		r.log.Warn().Err(perrors.NewRenderError("line redraw failed", err)).Msg("render skipped")
	}

	r.last = state
	r.rendered = true
}

// Invalidate forces the next Render to redraw even if the triple is
// unchanged, e.g. after a newline or screen clear wrote through the
// surface directly.
func (r *Renderer) Invalidate() {
	r.rendered = false
}

// cursorColumn is the display column of the logical cursor, accounting
// for wide runes.
func cursorColumn(prompt, text string, cursor int) int {
	runes := []rune(text)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	return runewidth.StringWidth(prompt) + runewidth.StringWidth(string(runes[:cursor]))
}

func endColumn(prompt, text string) int {
	return runewidth.StringWidth(prompt) + runewidth.StringWidth(text)
}
