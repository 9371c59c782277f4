// Package store is the persistence gateway for lexi. A single SQLite
// database holds the singleton onboarding profile record, the daily streak
// counter, the learned-word set, and the local analytics event log.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"lexi/internal/logging"
	"lexi/internal/profile"
)

// SchemaVersion is stamped into every saved profile record.
const SchemaVersion = "1"

// Options configure a Store. Zero values mean validation off and default
// limits.
type Options struct {
	// ValidateOnSave runs profile validation before every SaveProfile and
	// aborts the write on failure.
	ValidateOnSave bool
	Limits         profile.Limits
}

// Store owns the durable state. It is the only writer to the database file.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	opts   Options
}

// Open initializes the SQLite database at the given path.
func Open(path string, opts Options) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrConfig)
	}

	logging.Store("Opening store at path: %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, dbPath: path, opts: opts}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("Store initialization complete")
	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	profileTable := `
	CREATE TABLE IF NOT EXISTS onboarding_profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL,
		referral TEXT,
		age_range TEXT,
		gender TEXT,
		display_name TEXT NOT NULL DEFAULT '',
		goals TEXT NOT NULL DEFAULT '[]',
		topics TEXT NOT NULL DEFAULT '[]',
		completed_at DATETIME,
		step_seconds TEXT NOT NULL DEFAULT '{}',
		total_seconds REAL NOT NULL DEFAULT 0,
		completion REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	streakTable := `
	CREATE TABLE IF NOT EXISTS streak (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		count INTEGER NOT NULL DEFAULT 0,
		last_activity TEXT NOT NULL DEFAULT ''
	);`

	learnedTable := `
	CREATE TABLE IF NOT EXISTS learned_words (
		word_id TEXT PRIMARY KEY,
		learned_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	eventsTable := `
	CREATE TABLE IF NOT EXISTS analytics_events (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		step TEXT,
		payload TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	for _, ddl := range []string{profileTable, streakTable, learnedTable, eventsTable} {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// DB exposes the handle for tests and migrations.
func (s *Store) DB() *sql.DB { return s.db }

// ProfileRecord is the durable representation of a profile plus bookkeeping.
type ProfileRecord struct {
	Profile      *profile.Profile
	Version      string
	StepSeconds  map[string]float64
	TotalSeconds float64
	Completion   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SaveProfile upserts the singleton profile record. When validation is
// enabled and fails, the write is aborted and the stored row is unchanged.
func (s *Store) SaveProfile(rec *ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.ValidateOnSave {
		outcome := rec.Profile.Validate(s.opts.Limits)
		if !outcome.Valid {
			logging.StoreError("Profile validation failed: %d violations", len(outcome.Errors))
			return &ValidationError{Fields: outcome.Errors}
		}
	}

	row, err := encodeRecord(rec)
	if err != nil {
		return &SaveError{Op: "encode profile", Cause: err}
	}

	now := time.Now().UTC()
	logging.StoreDebug("Saving profile record: completion=%.3f", rec.Completion)

	_, err = s.db.Exec(`
		INSERT INTO onboarding_profile
			(id, version, referral, age_range, gender, display_name, goals, topics,
			 completed_at, step_seconds, total_seconds, completion, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			referral = excluded.referral,
			age_range = excluded.age_range,
			gender = excluded.gender,
			display_name = excluded.display_name,
			goals = excluded.goals,
			topics = excluded.topics,
			completed_at = excluded.completed_at,
			step_seconds = excluded.step_seconds,
			total_seconds = excluded.total_seconds,
			completion = excluded.completion,
			updated_at = excluded.updated_at`,
		SchemaVersion, row.referral, row.ageRange, row.gender, row.displayName,
		row.goals, row.topics, row.completedAt, row.stepSeconds,
		rec.TotalSeconds, rec.Completion, now, now,
	)
	if err != nil {
		logging.StoreError("Failed to save profile: %v", err)
		return &SaveError{Op: "save profile", Cause: err}
	}

	logging.StoreDebug("Profile record saved")
	return nil
}

// FetchProfile loads the singleton record, or ErrNotFound when no save has
// ever happened.
func (s *Store) FetchProfile() (*ProfileRecord, error) {
	timer := logging.StartTimer(logging.CategoryStore, "FetchProfile")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var row profileRow
	var createdAt, updatedAt time.Time
	var totalSeconds, completion float64
	var version string

	err := s.db.QueryRow(`
		SELECT version, referral, age_range, gender, display_name, goals, topics,
		       completed_at, step_seconds, total_seconds, completion, created_at, updated_at
		FROM onboarding_profile WHERE id = 1`).Scan(
		&version, &row.referral, &row.ageRange, &row.gender, &row.displayName,
		&row.goals, &row.topics, &row.completedAt, &row.stepSeconds,
		&totalSeconds, &completion, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		logging.StoreError("Failed to fetch profile: %v", err)
		return nil, &LoadError{Op: "fetch profile", Cause: err}
	}

	rec, err := decodeRecord(&row)
	if err != nil {
		logging.StoreError("Failed to decode profile record: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	rec.Version = version
	rec.TotalSeconds = totalSeconds
	rec.Completion = completion
	rec.CreatedAt = createdAt
	rec.UpdatedAt = updatedAt

	logging.StoreDebug("Fetched profile record: completion=%.3f", completion)
	return rec, nil
}

// ClearProfile deletes the singleton record. Clearing an empty store is not
// an error.
func (s *Store) ClearProfile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM onboarding_profile WHERE id = 1`); err != nil {
		logging.StoreError("Failed to clear profile: %v", err)
		return &SaveError{Op: "clear profile", Cause: err}
	}
	logging.Store("Profile record cleared")
	return nil
}

// RecordEvent appends a row to the local analytics event log. Best effort;
// callers treat the error as advisory.
func (s *Store) RecordEvent(id, kind, step, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO analytics_events (id, kind, step, payload) VALUES (?, ?, ?, ?)`,
		id, kind, step, payload,
	)
	if err != nil {
		logging.StoreError("Failed to record event %s: %v", kind, err)
		return &SaveError{Op: "record event", Cause: err}
	}
	return nil
}

// EventCount returns the number of logged analytics events.
func (s *Store) EventCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM analytics_events`).Scan(&n); err != nil {
		return 0, &LoadError{Op: "count events", Cause: err}
	}
	return n, nil
}

// profileRow is the flat SQL shape of a record. Encoding and decoding through
// it keeps the storage engine swappable without touching the controller.
type profileRow struct {
	referral    sql.NullString
	ageRange    sql.NullString
	gender      sql.NullString
	displayName string
	goals       string
	topics      string
	completedAt sql.NullTime
	stepSeconds string
}

func encodeRecord(rec *ProfileRecord) (*profileRow, error) {
	p := rec.Profile
	row := &profileRow{displayName: p.DisplayName}

	if p.Referral != nil {
		row.referral = sql.NullString{String: string(*p.Referral), Valid: true}
	}
	if p.Age != nil {
		row.ageRange = sql.NullString{String: string(*p.Age), Valid: true}
	}
	if p.Gender != nil {
		row.gender = sql.NullString{String: string(*p.Gender), Valid: true}
	}
	if p.CompletedAt != nil {
		row.completedAt = sql.NullTime{Time: p.CompletedAt.UTC(), Valid: true}
	}

	goals, err := json.Marshal(p.GoalList())
	if err != nil {
		return nil, err
	}
	row.goals = string(goals)

	topics, err := json.Marshal(p.TopicList())
	if err != nil {
		return nil, err
	}
	row.topics = string(topics)

	steps := rec.StepSeconds
	if steps == nil {
		steps = map[string]float64{}
	}
	stepJSON, err := json.Marshal(steps)
	if err != nil {
		return nil, err
	}
	row.stepSeconds = string(stepJSON)

	return row, nil
}

func decodeRecord(row *profileRow) (*ProfileRecord, error) {
	p := profile.New()

	if row.referral.Valid {
		r, ok := catalogReferral(row.referral.String)
		if !ok {
			return nil, fmt.Errorf("unknown referral source %q", row.referral.String)
		}
		p.Referral = r
	}
	if row.ageRange.Valid {
		a, ok := catalogAge(row.ageRange.String)
		if !ok {
			return nil, fmt.Errorf("unknown age range %q", row.ageRange.String)
		}
		p.Age = a
	}
	if row.gender.Valid {
		g, ok := catalogGender(row.gender.String)
		if !ok {
			return nil, fmt.Errorf("unknown gender %q", row.gender.String)
		}
		p.Gender = g
	}
	p.DisplayName = row.displayName

	var goals []string
	if err := json.Unmarshal([]byte(row.goals), &goals); err != nil {
		return nil, fmt.Errorf("goals column: %w", err)
	}
	for _, g := range goals {
		gv, ok := catalogGoal(g)
		if !ok {
			return nil, fmt.Errorf("unknown goal %q", g)
		}
		p.Goals[*gv] = struct{}{}
	}

	var topics []string
	if err := json.Unmarshal([]byte(row.topics), &topics); err != nil {
		return nil, fmt.Errorf("topics column: %w", err)
	}
	for _, t := range topics {
		tv, ok := catalogTopic(t)
		if !ok {
			return nil, fmt.Errorf("unknown topic %q", t)
		}
		p.Topics[*tv] = struct{}{}
	}

	if row.completedAt.Valid {
		at := row.completedAt.Time
		p.CompletedAt = &at
	}

	steps := map[string]float64{}
	if row.stepSeconds != "" {
		if err := json.Unmarshal([]byte(row.stepSeconds), &steps); err != nil {
			return nil, fmt.Errorf("step_seconds column: %w", err)
		}
	}

	return &ProfileRecord{Profile: p, StepSeconds: steps}, nil
}
