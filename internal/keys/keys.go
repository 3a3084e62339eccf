// Package keys classifies raw terminal byte sequences into typed key
// events. The editing dispatcher consumes only the classified events;
// hosts with their own input pipeline can substitute any Classifier
// producing the same taxonomy.
package keys

import (
	"unicode"
	"unicode/utf8"
)

// Type identifies a classified key event.
type Type string

// Key event taxonomy. Readline-style control aliases (ctrl-p/n/b/f for
// the arrows, ctrl-a/e for home/end) classify directly to their
// canonical type.
const (
	TypeEnter      Type = "enter"
	TypeBackspace  Type = "backspace"
	TypeDelete     Type = "delete"
	TypeArrowUp    Type = "arrow-up"
	TypeArrowDown  Type = "arrow-down"
	TypeArrowLeft  Type = "arrow-left"
	TypeArrowRight Type = "arrow-right"
	TypeHome       Type = "home"
	TypeEnd        Type = "end"
	TypeTab        Type = "tab"
	TypeCtrlC      Type = "ctrl-c"
	TypeCtrlL      Type = "ctrl-l"
	TypeCtrlK      Type = "ctrl-k"
	TypeCtrlU      Type = "ctrl-u"
	TypeCtrlW      Type = "ctrl-w"
	TypePrintable  Type = "printable"
	TypeUnknown    Type = "unknown"
)

// Event is one classified key press.
type Event struct {
	Type         Type
	Char         rune // set for printable events
	ShouldHandle bool
}

// Classifier turns a raw byte sequence into a key event.
type Classifier func(seq []byte) Event

func event(t Type) Event {
	return Event{Type: t, ShouldHandle: true}
}

func ignored() Event {
	return Event{Type: TypeUnknown, ShouldHandle: false}
}

// Classify is the default classifier for VT100-style byte sequences.
func Classify(seq []byte) Event {
	if len(seq) == 0 {
		return ignored()
	}

	switch seq[0] {
	case '\r', '\n':
		return event(TypeEnter)
	case 0x7f, 0x08:
		return event(TypeBackspace)
	case '\t':
		return event(TypeTab)
	case 0x01: // ctrl-a
		return event(TypeHome)
	case 0x05: // ctrl-e
		return event(TypeEnd)
	case 0x02: // ctrl-b
		return event(TypeArrowLeft)
	case 0x06: // ctrl-f
		return event(TypeArrowRight)
	case 0x10: // ctrl-p
		return event(TypeArrowUp)
	case 0x0e: // ctrl-n
		return event(TypeArrowDown)
	case 0x03:
		return event(TypeCtrlC)
	case 0x0c:
		return event(TypeCtrlL)
	case 0x0b:
		return event(TypeCtrlK)
	case 0x15:
		return event(TypeCtrlU)
	case 0x17:
		return event(TypeCtrlW)
	case 0x1b:
		return classifyEscape(seq)
	}

	if seq[0] < 0x20 {
		return ignored()
	}

	r, size := utf8.DecodeRune(seq)
	if r == utf8.RuneError || size != len(seq) || !unicode.IsPrint(r) {
		return ignored()
	}
	return Event{Type: TypePrintable, Char: r, ShouldHandle: true}
}

// classifyEscape handles CSI sequences for arrows, home/end and delete.
func classifyEscape(seq []byte) Event {
	if len(seq) < 3 || seq[1] != '[' {
		return ignored()
	}

	switch string(seq[2:]) {
	case "A":
		return event(TypeArrowUp)
	case "B":
		return event(TypeArrowDown)
	case "C":
		return event(TypeArrowRight)
	case "D":
		return event(TypeArrowLeft)
	case "H", "1~", "7~":
		return event(TypeHome)
	case "F", "4~", "8~":
		return event(TypeEnd)
	case "3~":
		return event(TypeDelete)
	}
	return ignored()
}
