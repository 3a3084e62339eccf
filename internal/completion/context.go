package completion

import (
	"strings"
	"unicode"
)

// BuildContext derives a completion Context from raw buffer state. The
// cursor is clamped to [0, len(input)] in runes and only the text before
// the cursor is tokenized. When the character immediately before the
// cursor is whitespace a new, empty part is being started; otherwise the
// last token is the in-progress one.
func BuildContext(input string, cursorPosition int, workingDir string, env map[string]string, generation uint64) Context {
	runes := []rune(input)
	if cursorPosition < 0 {
		cursorPosition = 0
	}
	if cursorPosition > len(runes) {
		cursorPosition = len(runes)
	}

	before := string(runes[:cursorPosition])
	parts := strings.Fields(before)

	var currentPart string
	var currentIndex int

	switch {
	case len(parts) == 0:
		currentPart = ""
		currentIndex = 0
	case endsWithSpace(before):
		currentPart = ""
		currentIndex = len(parts)
	default:
		currentPart = parts[len(parts)-1]
		currentIndex = len(parts) - 1
	}

	if env == nil {
		env = map[string]string{}
	}

	return Context{
		Input:                input,
		CursorPosition:       cursorPosition,
		CommandParts:         parts,
		CurrentPartIndex:     currentIndex,
		CurrentPart:          currentPart,
		WorkingDirectory:     workingDir,
		EnvironmentVariables: env,
		IsNewCommand:         currentIndex == 0,
		Generation:           generation,
	}
}

// currentTokenRange is the rune span of the in-progress token, used by
// providers that replace exactly what the user is typing.
func currentTokenRange(cctx Context) *Range {
	return &Range{
		Start: cctx.CursorPosition - len([]rune(cctx.CurrentPart)),
		End:   cctx.CursorPosition,
	}
}

func endsWithSpace(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return unicode.IsSpace(runes[len(runes)-1])
}
