// Package store migrations. Tables are created with CREATE TABLE IF NOT
// EXISTS at open; this file handles the case where a table from an older
// install exists but lacks newer columns.
package store

import (
	"database/sql"
	"fmt"

	"lexi/internal/logging"
)

// Migration defines a column-add migration.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists all schema migrations to apply.
var pendingMigrations = []Migration{
	// Completion bookkeeping columns (added after the first release stored
	// only raw answers).
	{"onboarding_profile", "step_seconds", "TEXT NOT NULL DEFAULT '{}'"},
	{"onboarding_profile", "total_seconds", "REAL NOT NULL DEFAULT 0"},
	{"onboarding_profile", "completion", "REAL NOT NULL DEFAULT 0"},
	// Learned-word timestamps.
	{"learned_words", "learned_at", "DATETIME DEFAULT CURRENT_TIMESTAMP"},
}

// RunMigrations applies schema migrations for existing databases.
func RunMigrations(db *sql.DB) error {
	timer := logging.StartTimer(logging.CategoryStore, "RunMigrations")
	defer timer.Stop()

	applied := 0
	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			continue
		}
		if columnExists(db, m.Table, m.Column) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %s.%s failed: %w", m.Table, m.Column, err)
		}
		applied++
		logging.Store("Applied migration: %s.%s", m.Table, m.Column)
	}

	if applied > 0 {
		logging.Store("Schema migrations complete (%d applied)", applied)
	}
	return nil
}

func tableExists(db *sql.DB, table string) bool {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table,
	).Scan(&name)
	return err == nil
}

func columnExists(db *sql.DB, table, column string) bool {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			continue
		}
		if name == column {
			return true
		}
	}
	return false
}
