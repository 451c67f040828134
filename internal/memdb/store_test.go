package memdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE user_prefs (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at TEXT
	);

	CREATE TABLE short_term_memory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT,
		content TEXT,
		created_at TEXT,
		expires_at TEXT
	);

	CREATE TABLE long_term_memory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT,
		source TEXT,
		created_at TEXT
	);
`

// createTestDB creates an in-memory SQLite database with the memory schema.
func createTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// A single connection keeps the in-memory database alive across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestPreferences(t *testing.T) {
	rawDB := createTestDB(t)
	defer rawDB.Close()

	rawDB.Exec(`INSERT INTO user_prefs (key, value, updated_at) VALUES
		('mode', 'critical', '2026-01-01T00:00:00'),
		('voice', 'maya', '2026-01-01T00:00:00'),
		('memory_enabled', NULL, '2026-01-01T00:00:00')`)

	store := &Store{db: rawDB}
	prefs, err := store.Preferences(context.Background())
	if err != nil {
		t.Fatalf("Preferences: %v", err)
	}
	if prefs["mode"] != "critical" || prefs["voice"] != "maya" {
		t.Errorf("prefs = %v", prefs)
	}
	if v, ok := prefs["memory_enabled"]; !ok || v != "" {
		t.Errorf("null value should read as empty, got %q, %v", v, ok)
	}
}

func TestFactsNewestFirst(t *testing.T) {
	rawDB := createTestDB(t)
	defer rawDB.Close()

	rawDB.Exec(`INSERT INTO long_term_memory (content, source, created_at) VALUES
		('likes tea', 'voice', '2026-01-01T10:00:00'),
		('lives in Pune', 'text', '2026-01-03T10:00:00'),
		('has a cat', NULL, '2026-01-02T10:00:00')`)

	store := &Store{db: rawDB}
	facts, err := store.Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts: %v", err)
	}
	want := []string{"lives in Pune", "has a cat", "likes tea"}
	if len(facts) != len(want) {
		t.Fatalf("got %d facts, want %d", len(facts), len(want))
	}
	for i, w := range want {
		if facts[i].Content != w {
			t.Errorf("facts[%d] = %q, want %q", i, facts[i].Content, w)
		}
	}
	if facts[0].ID != 2 || facts[0].Source != "text" {
		t.Errorf("facts[0] = %+v", facts[0])
	}
	if facts[1].Source != "" {
		t.Errorf("null source should read as empty, got %q", facts[1].Source)
	}
}

func TestFactsLimit(t *testing.T) {
	rawDB := createTestDB(t)
	defer rawDB.Close()

	for i := 0; i < factLimit+10; i++ {
		rawDB.Exec(`INSERT INTO long_term_memory (content, source, created_at) VALUES (?, 'text', ?)`,
			fmt.Sprintf("fact %d", i), fmt.Sprintf("2026-01-01T00:%02d:00", i))
	}

	store := &Store{db: rawDB}
	facts, err := store.Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts: %v", err)
	}
	if len(facts) != factLimit {
		t.Errorf("got %d facts, want %d", len(facts), factLimit)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	rawDB := createTestDB(t)
	defer rawDB.Close()

	store := &Store{db: rawDB}
	snap, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Facts) != 0 || len(snap.Prefs) != 0 {
		t.Errorf("snapshot = %+v, want empty", snap)
	}
}

func TestSnapshotMissingTables(t *testing.T) {
	rawDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rawDB.Close()

	store := &Store{db: rawDB}
	if _, err := store.Snapshot(context.Background()); err == nil {
		t.Error("expected error without the memory schema")
	}
}

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.db")
	rw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := rw.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	rw.Exec(`INSERT INTO long_term_memory (content, source, created_at) VALUES ('likes tea', 'voice', '2026-01-01')`)
	rw.Close()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	snap, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Facts) != 1 || snap.Facts[0].Content != "likes tea" {
		t.Errorf("facts = %+v", snap.Facts)
	}
	if _, err := store.db.Exec(`DELETE FROM long_term_memory`); err == nil {
		t.Error("store should be read-only")
	}
}

// TestLiveMemoryDB reads a real memory.db when ETHEREAL_MEMORY_DB points at one.
func TestLiveMemoryDB(t *testing.T) {
	path := os.Getenv("ETHEREAL_MEMORY_DB")
	if path == "" {
		t.Skip("ETHEREAL_MEMORY_DB not set")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("database not found at", path)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	snap, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	fmt.Printf("memory.db: %d prefs, %d facts\n", len(snap.Prefs), len(snap.Facts))
}
