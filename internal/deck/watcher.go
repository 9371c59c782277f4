package deck

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"lexi/internal/logging"
)

// Watcher watches the decks directory and signals when packs change, so the
// running UI can reload without a restart. Events are debounced; editors
// produce bursts of writes per save.
type Watcher struct {
	dir      string
	fsw      *fsnotify.Watcher
	reload   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

const debounceWindow = 250 * time.Millisecond

// WatchDir starts watching dir. A missing directory is not an error; the
// watcher simply never fires.
func WatchDir(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:    dir,
		fsw:    fsw,
		reload: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	if err := fsw.Add(dir); err != nil {
		logging.DeckDebug("Not watching %s: %v", dir, err)
	} else {
		logging.Deck("Watching decks directory: %s", dir)
	}

	go w.loop()
	return w, nil
}

// Reload returns a channel that receives after pack files change.
func (w *Watcher) Reload() <-chan struct{} { return w.reload }

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.stopOnce.Do(func() { close(w.done) })
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".yaml") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.DeckDebug("Pack change: %s %s", ev.Op, ev.Name)
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.reload <- struct{}{}:
			default: // A pending reload already covers this change.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.DeckWarn("Watcher error: %v", err)
		}
	}
}
