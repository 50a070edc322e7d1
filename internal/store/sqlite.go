// Package store provides document storage backends for NoteKeep.
//
// This file implements an SQLite-backed profile store for deployments that
// prefer a database file over raw JSON documents.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"
	"github.com/notekeep/notekeep/internal/models"
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteProfileStore persists the profile mapping in an SQLite database,
// one JSON document per user row.
type SQLiteProfileStore struct {
	db *sql.DB
}

// NewSQLiteProfileStore opens (creating if needed) the SQLite database at
// the given path and runs migrations.
func NewSQLiteProfileStore(dsn string) (*SQLiteProfileStore, error) {
	if dsn == "" {
		slog.Error("SQLiteProfileStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run profile migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLiteProfileStore ready", "dsn", dsn)
	return &SQLiteProfileStore{db: db}, nil
}

// ReadAll loads every profile row into a mapping.
func (s *SQLiteProfileStore) ReadAll() (map[string]*models.UserProfile, error) {
	rows, err := s.db.Query(`SELECT user_id, profile FROM profiles`)
	if err != nil {
		slog.Error("SQLiteProfileStore ReadAll query failed", "error", err)
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
			slog.Warn("SQLiteProfileStore ReadAll skipping corrupt profile", "error", err, "userID", userID)
			continue
		}
		profiles[userID] = &p
	}
	return profiles, rows.Err()
}

// WriteAll replaces every profile row in one transaction.
func (s *SQLiteProfileStore) WriteAll(profiles map[string]*models.UserProfile) error {
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
		if _, err := tx.Exec(`INSERT INTO profiles (user_id, profile) VALUES (?, ?)`, userID, doc); err != nil {
			return fmt.Errorf("failed to insert profile for %s: %w", userID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile write: %w", err)
	}
	slog.Debug("SQLiteProfileStore WriteAll succeeded", "users", len(profiles))
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteProfileStore) Close() error {
	return s.db.Close()
}
