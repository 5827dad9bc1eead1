package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE user (
	id TEXT PRIMARY KEY,
	name TEXT,
	email TEXT
);
CREATE TABLE chat (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES user(id),
	title TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	chat TEXT
)`

// CreateChatDB creates a SQLite chat store in the test's temp directory
// with the user and chat tables, returning its path and an open handle.
// The handle is closed automatically when the test finishes.
func CreateChatDB(t *testing.T) (string, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "chat.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return dbPath, db
}

// SeedUser inserts a user row.
func SeedUser(t *testing.T, db *sql.DB, user FixtureUser) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO user (id, name, email) VALUES (?, ?, ?)`,
		user.ID, user.Name, user.Email)
	if err != nil {
		t.Fatalf("Failed to insert user %s: %v", user.ID, err)
	}
}

// SeedChat inserts a chat row.
func SeedChat(t *testing.T, db *sql.DB, chat FixtureChat) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO chat (id, user_id, title, created_at, updated_at, chat) VALUES (?, ?, ?, ?, ?, ?)`,
		chat.ID, chat.UserID, chat.Title, chat.CreatedAt, chat.UpdatedAt, chat.ChatData)
	if err != nil {
		t.Fatalf("Failed to insert chat %s: %v", chat.ID, err)
	}
}
