// Package feedback abstracts the tactile cues the app emits on interaction.
// On a phone this would be haptics; in the terminal it is the bell and short
// visual pulses. Calls are fire-and-forget: providers never return errors and
// must never block the caller.
package feedback

import (
	"fmt"
	"io"

	"lexi/internal/logging"
)

// Style grades an impact cue.
type Style int

const (
	StyleLight Style = iota
	StyleMedium
	StyleHeavy
)

// Provider is injected into controllers. The default in tests is Noop.
type Provider interface {
	// Impact fires a graded cue, used on card swipes and step transitions.
	Impact(style Style)
	// Selection fires a subtle cue, used when a picker value changes.
	Selection()
	// Success fires a celebratory cue, used on flow completion.
	Success()
}

// Noop discards all cues.
type Noop struct{}

func (Noop) Impact(Style) {}
func (Noop) Selection()   {}
func (Noop) Success()     {}

// Terminal emits cues to a terminal writer. Light and selection cues are
// silent (a bell on every keystroke would be hostile); medium and heavy
// impacts and success ring the bell.
type Terminal struct {
	W io.Writer
}

// NewTerminal returns a Terminal provider writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{W: w}
}

func (t *Terminal) Impact(style Style) {
	if style == StyleLight {
		return
	}
	t.bell()
}

func (t *Terminal) Selection() {}

func (t *Terminal) Success() {
	t.bell()
}

func (t *Terminal) bell() {
	if t.W == nil {
		return
	}
	if _, err := fmt.Fprint(t.W, "\a"); err != nil {
		logging.Get(logging.CategoryUI).Debug("bell write failed: %v", err)
	}
}
