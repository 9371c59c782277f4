// Package progress tracks the daily learning session: which card is active,
// which of today's words are learned, and the day streak.
package progress

import (
	"time"

	"lexi/internal/deck"
	"lexi/internal/logging"
	"lexi/internal/store"
)

// Recorder is the slice of the store a session writes through.
type Recorder interface {
	MarkLearned(wordID string) error
	MarkUnlearned(wordID string) error
	RecordActivity(day time.Time) (store.StreakState, error)
}

// Session is the card/progress view-model. One session exists per run of the
// learn screen; all calls arrive from the UI goroutine.
type Session struct {
	words    []deck.Word
	active   int
	done     map[string]struct{}
	recorder Recorder
	clock    func() time.Time
	streak   store.StreakState
	onChange func()
}

// NewSession builds a session over today's words. learned seeds the
// completed set from previously persisted state; streak is today's starting
// streak.
func NewSession(words []deck.Word, learned map[string]struct{}, streak store.StreakState, rec Recorder) *Session {
	done := make(map[string]struct{})
	for _, w := range words {
		if _, ok := learned[w.ID]; ok {
			done[w.ID] = struct{}{}
		}
	}
	return &Session{
		words:    words,
		done:     done,
		recorder: rec,
		clock:    time.Now,
		streak:   streak,
	}
}

// SetClock substitutes the clock in tests.
func (s *Session) SetClock(clock func() time.Time) { s.clock = clock }

// OnChange registers a callback fired after the active card changes.
func (s *Session) OnChange(fn func()) { s.onChange = fn }

// Words returns the session's cards in order.
func (s *Session) Words() []deck.Word { return s.words }

// Active returns the current card index.
func (s *Session) Active() int { return s.active }

// Current returns the active card, or a zero Word for an empty session.
func (s *Session) Current() deck.Word {
	if len(s.words) == 0 {
		return deck.Word{}
	}
	return s.words[s.active]
}

// Advance moves to the next card, clamping at the end.
func (s *Session) Advance() {
	if s.active < len(s.words)-1 {
		s.active++
		s.changed()
	}
}

// Retreat moves to the previous card, clamping at the start.
func (s *Session) Retreat() {
	if s.active > 0 {
		s.active--
		s.changed()
	}
}

// Seek jumps to the given index if it is in range.
func (s *Session) Seek(i int) {
	if i >= 0 && i < len(s.words) && i != s.active {
		s.active = i
		s.changed()
	}
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// MarkLearned records the given word as learned. Idempotent: repeat calls
// leave the completed set unchanged. The first activity of the day also
// bumps the streak.
func (s *Session) MarkLearned(wordID string) {
	if _, ok := s.done[wordID]; ok {
		return
	}
	s.done[wordID] = struct{}{}

	if s.recorder != nil {
		if err := s.recorder.MarkLearned(wordID); err != nil {
			logging.Get(logging.CategoryProgress).Error("persist learned %s: %v", wordID, err)
		}
		streak, err := s.recorder.RecordActivity(s.today())
		if err != nil {
			logging.Get(logging.CategoryProgress).Error("record activity: %v", err)
		} else {
			s.streak = streak
		}
	}
	logging.Progress("Learned %s (%d/%d today)", wordID, s.CompletedCount(), s.Target())
}

// MarkUnlearned removes the word from the completed set. Unmarking an absent
// id is a no-op. The streak is not rewound; the activity already happened.
func (s *Session) MarkUnlearned(wordID string) {
	if _, ok := s.done[wordID]; !ok {
		return
	}
	delete(s.done, wordID)

	if s.recorder != nil {
		if err := s.recorder.MarkUnlearned(wordID); err != nil {
			logging.Get(logging.CategoryProgress).Error("persist unlearned %s: %v", wordID, err)
		}
	}
}

// IsLearned reports whether the word is in the completed set.
func (s *Session) IsLearned(wordID string) bool {
	_, ok := s.done[wordID]
	return ok
}

// CompletedCount returns the size of the completed set.
func (s *Session) CompletedCount() int { return len(s.done) }

// Target returns the session's completion target.
func (s *Session) Target() int {
	if len(s.words) < deck.DailyTarget {
		return len(s.words)
	}
	return deck.DailyTarget
}

// CompletionFraction returns completed/target, 0..1.
func (s *Session) CompletionFraction() float64 {
	target := s.Target()
	if target == 0 {
		return 0
	}
	frac := float64(len(s.done)) / float64(target)
	if frac > 1 {
		frac = 1
	}
	return frac
}

// IsComplete reports whether today's target is met.
func (s *Session) IsComplete() bool { return len(s.done) >= s.Target() && s.Target() > 0 }

// Streak returns the current streak state.
func (s *Session) Streak() store.StreakState { return s.streak }

func (s *Session) today() time.Time {
	now := s.clock().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
