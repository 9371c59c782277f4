package store

import (
	"database/sql"
	"time"

	"lexi/internal/logging"
)

// dayLayout is the canonical date-only form used for streak bookkeeping.
const dayLayout = "2006-01-02"

// StreakState is the persisted streak counter.
type StreakState struct {
	Count        int
	LastActivity time.Time // zero when no activity has ever been recorded
}

// Streak returns the current streak state.
func (s *Store) Streak() (StreakState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	var last string
	err := s.db.QueryRow(`SELECT count, last_activity FROM streak WHERE id = 1`).Scan(&count, &last)
	if err == sql.ErrNoRows {
		return StreakState{}, nil
	}
	if err != nil {
		return StreakState{}, &LoadError{Op: "fetch streak", Cause: err}
	}

	state := StreakState{Count: count}
	if last != "" {
		day, err := time.Parse(dayLayout, last)
		if err != nil {
			return StreakState{}, &LoadError{Op: "parse streak date", Cause: err}
		}
		state.LastActivity = day
	}
	return state, nil
}

// RecordActivity bumps the streak for activity on the given day and returns
// the new state. Same-day activity is a no-op, the day after the last
// activity extends the streak, and any longer gap resets it to 1.
func (s *Store) RecordActivity(day time.Time) (StreakState, error) {
	current, err := s.Streak()
	if err != nil {
		return StreakState{}, err
	}

	next := advanceStreak(current, day)
	if next == current {
		return current, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(`
		INSERT INTO streak (id, count, last_activity) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET count = excluded.count, last_activity = excluded.last_activity`,
		next.Count, next.LastActivity.Format(dayLayout),
	)
	if err != nil {
		return StreakState{}, &SaveError{Op: "save streak", Cause: err}
	}

	logging.Progress("Streak updated: count=%d day=%s", next.Count, next.LastActivity.Format(dayLayout))
	return next, nil
}

// ResetStreak clears the counter, used by full data resets.
func (s *Store) ResetStreak() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM streak WHERE id = 1`); err != nil {
		return &SaveError{Op: "reset streak", Cause: err}
	}
	return nil
}

// advanceStreak is the pure calendar rule: the single writer means no clock
// races to worry about.
func advanceStreak(current StreakState, day time.Time) StreakState {
	today := day.Truncate(24 * time.Hour)

	if current.LastActivity.IsZero() {
		return StreakState{Count: 1, LastActivity: today}
	}

	last := current.LastActivity.Truncate(24 * time.Hour)
	switch gap := int(today.Sub(last).Hours() / 24); {
	case gap <= 0:
		// Same day (or clock moved backwards): leave the streak alone.
		return current
	case gap == 1:
		return StreakState{Count: current.Count + 1, LastActivity: today}
	default:
		return StreakState{Count: 1, LastActivity: today}
	}
}
