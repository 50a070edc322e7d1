package vecstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteNotes implements VectorNotes over an SQLite notes table. Recall is
// keyword-based: documents are ranked by how many query terms they contain,
// newest first on ties. Real embeddings can replace the ranking without
// changing the interface.
type SQLiteNotes struct {
	db *sql.DB
}

// NewSQLiteNotes opens (creating if needed) the notes database at the given
// path and runs migrations.
func NewSQLiteNotes(dsn string) (*SQLiteNotes, error) {
	if dsn == "" {
		return nil, fmt.Errorf("notes database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("Failed to create notes database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create notes database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open notes database", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Notes database ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run notes migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLiteNotes ready", "dsn", dsn)
	return &SQLiteNotes{db: db}, nil
}

// Add stores a note for the user.
func (s *SQLiteNotes) Add(ctx context.Context, userID, text string) bool {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, owner_id, document) VALUES (?, ?, ?)`,
		uuid.NewString(), userID, text,
	)
	if err != nil {
		slog.Error("SQLiteNotes Add failed", "error", err, "userID", userID)
		return false
	}
	slog.Debug("SQLiteNotes Add succeeded", "userID", userID, "length", len(text))
	return true
}

// Query returns up to limit documents for the user, ranked by how many
// query keywords each contains, newest first on ties.
func (s *SQLiteNotes) Query(ctx context.Context, userID, text string, limit int) []string {
	if limit <= 0 {
		limit = 5
	}
	keywords := strings.Fields(strings.ToLower(text))
	if len(keywords) == 0 {
		return nil
	}

	var scoreTerms, likeTerms []string
	for range keywords {
		likeTerms = append(likeTerms, "lower(document) LIKE ?")
		scoreTerms = append(scoreTerms, "(CASE WHEN lower(document) LIKE ? THEN 1 ELSE 0 END)")
	}
	query := fmt.Sprintf(
		`SELECT document FROM notes WHERE (%s) AND owner_id = ? ORDER BY (%s) DESC, created_at DESC LIMIT ?`,
		strings.Join(likeTerms, " OR "),
		strings.Join(scoreTerms, " + "),
	)

	// Placeholders bind in textual order: WHERE likes, owner, score likes,
	// then the limit.
	var args []interface{}
	for _, kw := range keywords {
		args = append(args, "%"+kw+"%")
	}
	args = append(args, userID)
	for _, kw := range keywords {
		args = append(args, "%"+kw+"%")
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("SQLiteNotes Query failed", "error", err, "userID", userID)
		return nil
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			slog.Error("SQLiteNotes Query scan failed", "error", err, "userID", userID)
			continue
		}
		docs = append(docs, doc)
	}
	slog.Debug("SQLiteNotes Query returned", "userID", userID, "results", len(docs))
	return docs
}

// Count reports how many notes the user has stored.
func (s *SQLiteNotes) Count(ctx context.Context, userID string) int {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE owner_id = ?`, userID).Scan(&count)
	if err != nil {
		slog.Error("SQLiteNotes Count failed", "error", err, "userID", userID)
		return 0
	}
	return count
}

// Close closes the underlying database handle.
func (s *SQLiteNotes) Close() error {
	return s.db.Close()
}
