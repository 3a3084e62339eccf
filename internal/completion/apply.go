package completion

import (
	"strings"
	"unicode/utf8"

	"github.com/promptline/promptline/internal/perrors"
)

// ApplySuggestion splices a suggestion into the input and returns the
// new text and cursor position (both rune-indexed). When the suggestion
// carries an explicit Range that span is replaced; otherwise the current
// word before the cursor is located via its last occurrence in the text
// before the cursor, which is ambiguous when the word repeats earlier in
// the line. On any failure the original input and cursor are returned
// unchanged.
func (e *Engine) ApplySuggestion(input string, s Suggestion, cursorPosition int) (string, int) {
	newInput, newCursor, err := applySuggestion(input, s, cursorPosition)
	if err != nil {
		e.log.Warn().Str("suggestion", s.Text).Err(err).Msg("apply suggestion failed, keeping input unchanged")
		return input, cursorPosition
	}

	cctx := BuildContext(newInput, newCursor, "", nil, 0)
	e.emit(Event{Type: EventApply, Context: cctx, Applied: &s})

	return newInput, newCursor
}

func applySuggestion(input string, s Suggestion, cursorPosition int) (newInput string, newCursor int, err error) {
	defer func() {
		if r := recover(); r != nil {
			newInput, newCursor = input, cursorPosition
			err = perrors.NewApplyError(s.Text, "apply panicked: "+panicString(r), nil)
		}
	}()

	runes := []rune(input)
	cursor := cursorPosition
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	var start, end int
	if s.Range != nil {
		start, end = s.Range.Start, s.Range.End
		if start < 0 || end < start || end > len(runes) {
			return input, cursorPosition, perrors.NewApplyError(s.Text, "suggestion range out of bounds", nil)
		}
	} else {
		start = currentWordStart(runes, cursor)
		end = cursor
	}

	replacement := []rune(s.Text)
	out := make([]rune, 0, len(runes)-(end-start)+len(replacement)+1)
	out = append(out, runes[:start]...)
	out = append(out, replacement...)
	cursorAfter := len(out)
	out = append(out, runes[end:]...)

	if s.RequiresSpace {
		out = append(out[:cursorAfter], append([]rune{' '}, out[cursorAfter:]...)...)
		cursorAfter++
	}

	return string(out), cursorAfter, nil
}

// currentWordStart finds the rune index where the in-progress word
// begins, by whitespace-splitting the text before the cursor and taking
// the last occurrence of its final token.
func currentWordStart(runes []rune, cursor int) int {
	before := string(runes[:cursor])
	parts := strings.Fields(before)
	if len(parts) == 0 || endsWithSpace(before) {
		return cursor
	}

	word := parts[len(parts)-1]
	byteStart := strings.LastIndex(before, word)
	if byteStart < 0 {
		return cursor
	}
	return utf8.RuneCountInString(before[:byteStart])
}
