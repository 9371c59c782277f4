// Package speech pronounces words through whatever speech synthesizer the
// host system provides. Failures are logged and swallowed: pronunciation is
// a nicety, never a dependency of the learning flow.
package speech

import (
	"context"
	"os/exec"
	"sync"

	"lexi/internal/logging"
)

// Speaker is injected into the UI. The default in tests is Noop.
type Speaker interface {
	// Say pronounces text. It must not block the caller beyond process
	// startup; synthesis runs in the background.
	Say(ctx context.Context, text string)
}

// Noop silently drops all speech requests.
type Noop struct{}

func (Noop) Say(context.Context, string) {}

// candidates are probed in order; the first binary found wins.
// macOS ships say, most Linux distros package one of the espeaks.
var candidates = [][]string{
	{"say"},
	{"espeak-ng"},
	{"espeak"},
	{"spd-say"},
}

// Command shells out to the system synthesizer.
type Command struct {
	once sync.Once
	argv []string // resolved command, nil when no synthesizer exists
}

// NewCommand returns a Command speaker. Binary resolution is deferred to the
// first Say so construction never touches the filesystem.
func NewCommand() *Command {
	return &Command{}
}

func (c *Command) resolve() {
	for _, cand := range candidates {
		if path, err := exec.LookPath(cand[0]); err == nil {
			c.argv = append([]string{path}, cand[1:]...)
			logging.Speech("Using speech synthesizer: %s", path)
			return
		}
	}
	logging.Speech("No speech synthesizer found; pronunciation disabled")
}

// Say pronounces text in a background goroutine.
func (c *Command) Say(ctx context.Context, text string) {
	c.once.Do(c.resolve)
	if c.argv == nil || text == "" {
		return
	}

	args := append(append([]string{}, c.argv[1:]...), text)
	cmd := exec.CommandContext(ctx, c.argv[0], args...)

	go func() {
		if err := cmd.Run(); err != nil && ctx.Err() == nil {
			logging.SpeechDebug("synthesizer failed for %q: %v", text, err)
		}
	}()
}
