// Package editor maps classified key events onto command buffer
// operations and keeps the visible prompt line in sync. The dispatcher
// itself is stateless: all state lives in the buffer and the renderer.
package editor

import (
	"github.com/promptline/promptline/internal/buffer"
	"github.com/promptline/promptline/internal/keys"
	"github.com/promptline/promptline/internal/logger"
	"github.com/promptline/promptline/internal/term"
)

// Dispatcher routes one key event at a time to the buffer and
// re-renders after each mutation.
type Dispatcher struct {
	buf      *buffer.CommandBuffer
	renderer *Renderer
	terminal term.Terminal
	log      *logger.Logger
}

// NewDispatcher creates a dispatcher over a buffer and terminal
// surface.
func NewDispatcher(buf *buffer.CommandBuffer, terminal term.Terminal, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		buf:      buf,
		renderer: NewRenderer(terminal, log),
		terminal: terminal,
		log:      log,
	}
}

// Renderer exposes the line renderer so hosts can invalidate it after
// writing to the surface themselves (e.g. printing a completion menu).
func (d *Dispatcher) Renderer() *Renderer {
	return d.renderer
}

// HandleKey processes a single classified key event to completion.
// Events with ShouldHandle unset, tab (reserved for the completion
// trigger, which hosts wire themselves) and unknown types are ignored.
func (d *Dispatcher) HandleKey(ev keys.Event) {
	if !ev.ShouldHandle {
		return
	}

	switch ev.Type {
	case keys.TypeEnter:
		d.echo("\r\n")
		d.buf.ExecuteCommand()
	case keys.TypeBackspace:
		d.buf.DeleteCharacterBeforeCursor()
	case keys.TypeDelete:
		d.buf.DeleteCharacterAtCursor()
	case keys.TypeArrowUp:
		d.buf.NavigateHistoryUp()
	case keys.TypeArrowDown:
		d.buf.NavigateHistoryDown()
	case keys.TypeArrowLeft:
		d.buf.MoveCursorLeft()
	case keys.TypeArrowRight:
		d.buf.MoveCursorRight()
	case keys.TypeHome:
		d.buf.MoveCursorToStart()
	case keys.TypeEnd:
		d.buf.MoveCursorToEnd()
	case keys.TypeCtrlC:
		d.echo("^C\r\n")
		d.buf.ClearCommand()
	case keys.TypeCtrlL:
		if err := d.terminal.Clear(); err != nil {
			d.log.Warn().Err(err).Msg("clear screen failed")
		}
		d.renderer.Invalidate()
	case keys.TypeCtrlK:
		d.buf.DeleteToEnd()
	case keys.TypeCtrlU:
		d.buf.ClearCommand()
	case keys.TypeCtrlW:
		d.buf.DeleteWordBeforeCursor()
	case keys.TypePrintable:
		d.buf.InsertCharacterAtCursor(ev.Char)
	default:
		return
	}

	d.renderer.Render(d.buf.Prompt(), d.buf.Text(), d.buf.CursorPosition())
}

// echo writes through the surface and invalidates the renderer, since
// the cursor has left the prompt line.
func (d *Dispatcher) echo(text string) {
	if err := d.terminal.Write(text); err != nil {
		d.log.Warn().Err(err).Msg("echo failed")
	}
	d.renderer.Invalidate()
}
