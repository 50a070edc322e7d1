// Package store provides document storage backends for NoteKeep.
//
// This file implements a Postgres-backed profile store, mirroring the
// SQLite variant for deployments with a shared database.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/notekeep/notekeep/internal/models"
)

const postgresMigrations = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY,
    profile TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresProfileStore persists the profile mapping in Postgres, one JSON
// document per user row.
type PostgresProfileStore struct {
	db *sql.DB
}

// NewPostgresProfileStore connects to Postgres with the given DSN and runs
// migrations.
func NewPostgresProfileStore(dsn string) (*PostgresProfileStore, error) {
	if dsn == "" {
		slog.Error("PostgresProfileStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run profile migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgresProfileStore ready")
	return &PostgresProfileStore{db: db}, nil
}

// ReadAll loads every profile row into a mapping.
func (s *PostgresProfileStore) ReadAll() (map[string]*models.UserProfile, error) {
	rows, err := s.db.Query(`SELECT user_id, profile FROM profiles`)
	if err != nil {
		slog.Error("PostgresProfileStore ReadAll query failed", "error", err)
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make(map[string]*models.UserProfile)
	for rows.Next() {
		var userID, doc string
		if err := rows.Scan(&userID, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		var p models.UserProfile
		if err := p.FromJSON(doc); err != nil {
			slog.Warn("PostgresProfileStore ReadAll skipping corrupt profile", "error", err, "userID", userID)
			continue
		}
		profiles[userID] = &p
	}
	return profiles, rows.Err()
}

// WriteAll replaces every profile row in one transaction.
func (s *PostgresProfileStore) WriteAll(profiles map[string]*models.UserProfile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin profile write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM profiles`); err != nil {
		return fmt.Errorf("failed to clear profiles: %w", err)
	}
	for userID, p := range profiles {
		doc, err := p.ToJSON()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO profiles (user_id, profile) VALUES ($1, $2)`, userID, doc); err != nil {
			return fmt.Errorf("failed to insert profile for %s: %w", userID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile write: %w", err)
	}
	slog.Debug("PostgresProfileStore WriteAll succeeded", "users", len(profiles))
	return nil
}

// Close closes the underlying database handle.
func (s *PostgresProfileStore) Close() error {
	return s.db.Close()
}
