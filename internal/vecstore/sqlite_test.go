package vecstore

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestNotes(t *testing.T) *SQLiteNotes {
	t.Helper()
	s, err := NewSQLiteNotes(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("failed to open notes store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndCount(t *testing.T) {
	s := newTestNotes(t)
	ctx := context.Background()

	if !s.Add(ctx, "u1", "first note") {
		t.Fatal("Add reported failure")
	}
	s.Add(ctx, "u1", "second note")

	if got := s.Count(ctx, "u1"); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
}

func TestQueryMatchesKeywords(t *testing.T) {
	s := newTestNotes(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "I walked the dog this morning")
	s.Add(ctx, "u1", "bought coffee beans")

	docs := s.Query(ctx, "u1", "dog", 5)
	if len(docs) != 1 {
		t.Fatalf("expected 1 match, got %d", len(docs))
	}
	if docs[0] != "I walked the dog this morning" {
		t.Errorf("unexpected match: %q", docs[0])
	}
}

func TestQueryRanksByKeywordOverlap(t *testing.T) {
	s := newTestNotes(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "coffee is fine")
	s.Add(ctx, "u1", "morning coffee ritual with fresh beans")

	docs := s.Query(ctx, "u1", "morning coffee beans", 5)
	if len(docs) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(docs))
	}
	// The note containing more query terms ranks first.
	if docs[0] != "morning coffee ritual with fresh beans" {
		t.Errorf("best match first, got %q", docs[0])
	}
}

func TestQueryCaseInsensitive(t *testing.T) {
	s := newTestNotes(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "Remember The Milk")

	if docs := s.Query(ctx, "u1", "milk", 5); len(docs) != 1 {
		t.Errorf("expected case-insensitive match, got %d results", len(docs))
	}
}

func TestQueryHonoursLimit(t *testing.T) {
	s := newTestNotes(t)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		s.Add(ctx, "u1", "note about tea")
	}

	if docs := s.Query(ctx, "u1", "tea", 3); len(docs) != 3 {
		t.Errorf("expected limit of 3, got %d", len(docs))
	}
}

func TestQueryEmptyInput(t *testing.T) {
	s := newTestNotes(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "something")

	if docs := s.Query(ctx, "u1", "   ", 5); docs != nil {
		t.Errorf("expected nil for empty query, got %v", docs)
	}
}

func TestOwnerScoping(t *testing.T) {
	s := newTestNotes(t)
	ctx := context.Background()
	s.Add(ctx, "u1", "私のノート about tea")
	s.Add(ctx, "u2", "their note about tea")

	docs := s.Query(ctx, "u1", "tea", 5)
	if len(docs) != 1 {
		t.Fatalf("expected only the owner's note, got %d", len(docs))
	}
	if docs[0] != "私のノート about tea" {
		t.Errorf("wrong owner's note returned: %q", docs[0])
	}

	if got := s.Count(ctx, "u2"); got != 1 {
		t.Errorf("u2 count = %d, want 1", got)
	}
}
