package ui

import (
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// DateEntry is an Entry that only accepts the characters of a YYYY-MM-DD
// date. It embeds widget.Entry to inherit all standard behavior.
type DateEntry struct {
	widget.Entry
}

// NewDateEntry creates a new instance of DateEntry.
func NewDateEntry() *DateEntry {
	entry := &DateEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune intercepts text input events and filters to digits and dashes.
// Pasted text bypasses this path; the Validator catches that case.
func (e *DateEntry) TypedRune(r rune) {
	if (r >= '0' && r <= '9') || r == '-' {
		e.Entry.TypedRune(r)
	}
}

// Keyboard requests a numeric keypad on mobile devices.
func (e *DateEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
