package phonemask

import "unicode/utf8"

// KeyBackspace is the only key the editor intercepts.
const KeyBackspace = "Backspace"

// KeyEvent describes a key press on the input control. SelectionStart and
// SelectionEnd are rune offsets into the formatted value; equal offsets mean
// a plain cursor with no selection.
type KeyEvent struct {
	Key            string
	SelectionStart int
	SelectionEnd   int
}

// CursorState classifies what sits before the cursor when a key is pressed.
type CursorState int

const (
	// AtStart: cursor at offset 0 or the field is empty.
	AtStart CursorState = iota
	// DigitBeforeCursor: the previous character is a digit.
	DigitBeforeCursor
	// StructuralBeforeCursor: the previous character is mask punctuation.
	StructuralBeforeCursor
	// OtherBeforeCursor: the previous character is neither, e.g. the leading '+'.
	OtherBeforeCursor
	// SelectionActive: a text range is selected.
	SelectionActive
)

func (s CursorState) String() string {
	switch s {
	case AtStart:
		return "at-start"
	case DigitBeforeCursor:
		return "digit-before-cursor"
	case StructuralBeforeCursor:
		return "structural-char-before-cursor"
	case OtherBeforeCursor:
		return "other-before-cursor"
	case SelectionActive:
		return "selection-active"
	default:
		return "unknown"
	}
}

// Classify returns the cursor state of ev against the formatted value.
func Classify(ev KeyEvent, formatted string) CursorState {
	if ev.SelectionStart != ev.SelectionEnd {
		return SelectionActive
	}

	runes := []rune(formatted)
	pos := ev.SelectionStart
	if pos > len(runes) {
		pos = len(runes)
	}
	if pos <= 0 {
		return AtStart
	}

	prev := runes[pos-1]
	switch {
	case prev >= '0' && prev <= '9':
		return DigitBeforeCursor
	case IsStructural(prev):
		return StructuralBeforeCursor
	default:
		return OtherBeforeCursor
	}
}

// HandleDeletionKey applies the backspace rule to current. When the character
// before the cursor is mask punctuation it drops the last digit, re-renders the
// mask and puts the cursor at the end. handled is false when the platform's
// default deletion should run instead; value and cursor are then unchanged.
func HandleDeletionKey(ev KeyEvent, current string) (value string, cursor int, handled bool) {
	if ev.Key != KeyBackspace || Classify(ev, current) != StructuralBeforeCursor {
		return current, ev.SelectionEnd, false
	}

	digits := Digits(current)
	if len(digits) <= 1 {
		return "", 0, true
	}

	value = Format(digits[:len(digits)-1])
	return value, utf8.RuneCountInString(value), true
}

// Editor holds the state of one phone input control.
type Editor struct {
	value  string
	cursor int
}

// Value returns the formatted text currently displayed.
func (e *Editor) Value() string { return e.value }

// Cursor returns the cursor offset into Value.
func (e *Editor) Cursor() int { return e.cursor }

// Digits returns the digit sequence behind Value.
func (e *Editor) Digits() string { return Digits(e.value) }

// Valid reports whether the editor holds a complete number.
func (e *Editor) Valid() bool { return IsValid(e.value) }

// Input handles an input-change event carrying the control's new raw text.
func (e *Editor) Input(raw string) {
	e.value = Normalize(raw, e.value)
	e.cursor = utf8.RuneCountInString(e.value)
}

// KeyDown handles a key-down event and reports whether it was intercepted.
// An intercepted event must not reach the platform's default handler.
func (e *Editor) KeyDown(ev KeyEvent) bool {
	value, cursor, handled := HandleDeletionKey(ev, e.value)
	if handled {
		e.value, e.cursor = value, cursor
	}
	return handled
}

// Reset clears the control, e.g. after a successful submission.
func (e *Editor) Reset() {
	e.value, e.cursor = "", 0
}
