package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lexi/internal/catalog"
	"lexi/internal/profile"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := Open(":memory:", opts)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProfile() *profile.Profile {
	p := profile.New()
	p.SetReferral(catalog.ReferralFriend)
	p.SetAge(catalog.Age25to34)
	p.SetGender(catalog.GenderNonBinary)
	p.SetName("Robin")
	p.SetGoals([]catalog.Goal{catalog.GoalWriting, catalog.GoalReading})
	p.SetTopics([]catalog.Topic{catalog.TopicScience, catalog.TopicHumor, catalog.TopicArts})
	return p
}

func TestFetchProfileEmpty(t *testing.T) {
	s := newTestStore(t, Options{})

	_, err := s.FetchProfile()
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchProfile on empty store = %v, want ErrNotFound", err)
	}
}

func TestSaveFetchRoundTrip(t *testing.T) {
	s := newTestStore(t, Options{})

	p := sampleProfile()
	rec := &ProfileRecord{
		Profile:      p,
		StepSeconds:  map[string]float64{"referral": 3.5, "age": 1.25},
		TotalSeconds: 4.75,
		Completion:   p.CompletionFraction(),
	}
	if err := s.SaveProfile(rec); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.FetchProfile()
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}

	if got.Profile.Referral == nil || *got.Profile.Referral != catalog.ReferralFriend {
		t.Errorf("Referral = %v, want %q", got.Profile.Referral, catalog.ReferralFriend)
	}
	if got.Profile.DisplayName != "Robin" {
		t.Errorf("DisplayName = %q, want Robin", got.Profile.DisplayName)
	}
	// Goals and topics are sets; compare order-independently via sorted lists.
	if diff := cmp.Diff(p.GoalList(), got.Profile.GoalList()); diff != "" {
		t.Errorf("Goals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(p.TopicList(), got.Profile.TopicList()); diff != "" {
		t.Errorf("Topics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rec.StepSeconds, got.StepSeconds); diff != "" {
		t.Errorf("StepSeconds mismatch (-want +got):\n%s", diff)
	}
	if got.Version != SchemaVersion {
		t.Errorf("Version = %q, want %q", got.Version, SchemaVersion)
	}
	if got.Profile.CompletedAt != nil {
		t.Error("CompletedAt should be nil before flow completion")
	}
}

func TestSaveUpdatesInPlace(t *testing.T) {
	s := newTestStore(t, Options{})

	rec := &ProfileRecord{Profile: sampleProfile()}
	if err := s.SaveProfile(rec); err != nil {
		t.Fatalf("first save: %v", err)
	}

	rec.Profile.SetName("Alex")
	if err := s.SaveProfile(rec); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.FetchProfile()
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if got.Profile.DisplayName != "Alex" {
		t.Errorf("DisplayName = %q, want Alex", got.Profile.DisplayName)
	}

	// Still a single row.
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM onboarding_profile`).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Errorf("row count = %d, want 1", n)
	}
}

func TestSaveValidationAborts(t *testing.T) {
	s := newTestStore(t, Options{ValidateOnSave: true, Limits: profile.DefaultLimits()})

	good := &ProfileRecord{Profile: sampleProfile()}
	if err := s.SaveProfile(good); err != nil {
		t.Fatalf("valid save: %v", err)
	}

	bad := &ProfileRecord{Profile: sampleProfile()}
	bad.Profile.SetName(strings.Repeat("x", 51))

	err := s.SaveProfile(bad)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("invalid save error = %v, want *ValidationError", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "display_name" {
		t.Errorf("violations = %+v, want one display_name error", verr.Fields)
	}

	// The stored row must be untouched by the aborted save.
	got, err := s.FetchProfile()
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if got.Profile.DisplayName != "Robin" {
		t.Errorf("DisplayName after aborted save = %q, want Robin", got.Profile.DisplayName)
	}
}

func TestClearProfile(t *testing.T) {
	s := newTestStore(t, Options{})

	if err := s.ClearProfile(); err != nil {
		t.Fatalf("clearing empty store: %v", err)
	}

	if err := s.SaveProfile(&ProfileRecord{Profile: sampleProfile()}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := s.ClearProfile(); err != nil {
		t.Fatalf("ClearProfile: %v", err)
	}
	if _, err := s.FetchProfile(); !errors.Is(err, ErrNotFound) {
		t.Errorf("FetchProfile after clear = %v, want ErrNotFound", err)
	}
}

func TestCompletedAtRoundTrip(t *testing.T) {
	s := newTestStore(t, Options{})

	p := sampleProfile()
	p.MarkCompleted(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	if err := s.SaveProfile(&ProfileRecord{Profile: p}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := s.FetchProfile()
	if err != nil {
		t.Fatalf("FetchProfile: %v", err)
	}
	if got.Profile.CompletedAt == nil {
		t.Fatal("CompletedAt = nil, want non-nil")
	}
	if !got.Profile.IsComplete() {
		t.Error("IsComplete = false, want true")
	}
}

func TestLearnedWordsIdempotent(t *testing.T) {
	s := newTestStore(t, Options{})

	if err := s.MarkLearned("w1"); err != nil {
		t.Fatalf("MarkLearned: %v", err)
	}
	if err := s.MarkLearned("w1"); err != nil {
		t.Fatalf("MarkLearned twice: %v", err)
	}

	n, err := s.LearnedCount()
	if err != nil {
		t.Fatalf("LearnedCount: %v", err)
	}
	if n != 1 {
		t.Errorf("LearnedCount = %d, want 1", n)
	}

	// Unmarking an absent id is a no-op.
	if err := s.MarkUnlearned("missing"); err != nil {
		t.Fatalf("MarkUnlearned missing id: %v", err)
	}
	if err := s.MarkUnlearned("w1"); err != nil {
		t.Fatalf("MarkUnlearned: %v", err)
	}

	learned, err := s.LearnedWords()
	if err != nil {
		t.Fatalf("LearnedWords: %v", err)
	}
	if len(learned) != 0 {
		t.Errorf("learned set = %v, want empty", learned)
	}
}

func TestStreakRules(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		days []int
		want int
	}{
		{name: "first activity", days: []int{10}, want: 1},
		{name: "consecutive days", days: []int{10, 11}, want: 2},
		{name: "same day twice", days: []int{10, 10}, want: 1},
		{name: "gap resets", days: []int{10, 12}, want: 1},
		{name: "long run then gap", days: []int{10, 11, 12, 15}, want: 1},
		{name: "recover after reset", days: []int{10, 13, 14}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, Options{})

			var state StreakState
			var err error
			for _, d := range tt.days {
				state, err = s.RecordActivity(day(d))
				if err != nil {
					t.Fatalf("RecordActivity(day %d): %v", d, err)
				}
			}
			if state.Count != tt.want {
				t.Errorf("streak = %d, want %d", state.Count, tt.want)
			}
		})
	}
}

func TestStreakPersists(t *testing.T) {
	s := newTestStore(t, Options{})

	if _, err := s.RecordActivity(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	state, err := s.Streak()
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if state.Count != 1 {
		t.Errorf("Count = %d, want 1", state.Count)
	}
	if state.LastActivity.Format("2006-01-02") != "2026-08-20" {
		t.Errorf("LastActivity = %v, want 2026-08-20", state.LastActivity)
	}

	if err := s.ResetStreak(); err != nil {
		t.Fatalf("ResetStreak: %v", err)
	}
	state, err = s.Streak()
	if err != nil {
		t.Fatalf("Streak after reset: %v", err)
	}
	if state.Count != 0 || !state.LastActivity.IsZero() {
		t.Errorf("state after reset = %+v, want zero", state)
	}
}

func TestRecordEvent(t *testing.T) {
	s := newTestStore(t, Options{})

	if err := s.RecordEvent("e1", "step_completed", "referral", `{"secs":2.5}`); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	// Duplicate ids are ignored, not errors.
	if err := s.RecordEvent("e1", "step_completed", "referral", `{}`); err != nil {
		t.Fatalf("duplicate RecordEvent: %v", err)
	}

	n, err := s.EventCount()
	if err != nil {
		t.Fatalf("EventCount: %v", err)
	}
	if n != 1 {
		t.Errorf("EventCount = %d, want 1", n)
	}
}

func TestCorruptedRecord(t *testing.T) {
	s := newTestStore(t, Options{})

	if err := s.SaveProfile(&ProfileRecord{Profile: sampleProfile()}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if _, err := s.DB().Exec(`UPDATE onboarding_profile SET goals = 'not json' WHERE id = 1`); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, err := s.FetchProfile()
	if !errors.Is(err, ErrCorrupted) {
		t.Errorf("FetchProfile on corrupted row = %v, want ErrCorrupted", err)
	}
}
