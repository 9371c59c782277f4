package store

import "lexi/internal/logging"

// MarkLearned records a word as learned. Repeated calls for the same id are
// idempotent.
func (s *Store) MarkLearned(wordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR IGNORE INTO learned_words (word_id) VALUES (?)`, wordID)
	if err != nil {
		logging.StoreError("Failed to mark word learned %s: %v", wordID, err)
		return &SaveError{Op: "mark learned", Cause: err}
	}
	logging.ProgressDebug("Word marked learned: %s", wordID)
	return nil
}

// MarkUnlearned removes a word from the learned set. Removing an absent id is
// a no-op.
func (s *Store) MarkUnlearned(wordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM learned_words WHERE word_id = ?`, wordID)
	if err != nil {
		logging.StoreError("Failed to unmark word %s: %v", wordID, err)
		return &SaveError{Op: "mark unlearned", Cause: err}
	}
	return nil
}

// LearnedWords returns the learned set keyed by word id.
func (s *Store) LearnedWords() (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT word_id FROM learned_words`)
	if err != nil {
		return nil, &LoadError{Op: "list learned words", Cause: err}
	}
	defer rows.Close()

	learned := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		learned[id] = struct{}{}
	}
	return learned, rows.Err()
}

// LearnedCount returns the size of the learned set.
func (s *Store) LearnedCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM learned_words`).Scan(&n); err != nil {
		return 0, &LoadError{Op: "count learned words", Cause: err}
	}
	return n, nil
}
