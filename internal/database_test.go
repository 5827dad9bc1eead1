package internal

import (
	"testing"

	"github.com/chrisyu-uiuc/uibackup/testutil"
)

func TestOpenDatabaseMissingFile(t *testing.T) {
	_, err := OpenDatabase("/nonexistent/chat.db")
	if err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestQueryRecentChats(t *testing.T) {
	dbPath, seed := testutil.CreateChatDB(t)

	testutil.SeedUser(t, seed, testutil.FixtureUser{ID: "u1", Name: "Zoe", Email: "zoe@example.com"})
	testutil.SeedUser(t, seed, testutil.FixtureUser{ID: "u2", Name: "Amir", Email: "amir@example.com"})

	window := Window{Start: 1000, End: 2000, Date: "2024-03-14"}

	chats := []testutil.FixtureChat{
		// In window via created_at.
		{ID: "c1", UserID: "u1", Title: "Zoe early", CreatedAt: 1100, UpdatedAt: 1100, ChatData: "{}"},
		// In window via updated_at only.
		{ID: "c2", UserID: "u1", Title: "Zoe late", CreatedAt: 500, UpdatedAt: 1900, ChatData: "{}"},
		// Outside the window entirely.
		{ID: "c3", UserID: "u1", Title: "Zoe stale", CreatedAt: 100, UpdatedAt: 200, ChatData: "{}"},
		// Second user, boundary values are inclusive.
		{ID: "c4", UserID: "u2", Title: "Amir edge", CreatedAt: 1000, UpdatedAt: 2000, ChatData: "{}"},
	}
	for _, chat := range chats {
		testutil.SeedChat(t, seed, chat)
	}

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error: %v", err)
	}
	defer db.Close()

	records, err := QueryRecentChats(db, window)
	if err != nil {
		t.Fatalf("QueryRecentChats() error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Ordered by user name, then updated_at descending within a user.
	wantIDs := []string{"c4", "c2", "c1"}
	for i, want := range wantIDs {
		if records[i].ChatID != want {
			t.Errorf("records[%d].ChatID = %s, want %s", i, records[i].ChatID, want)
		}
	}

	first := records[0]
	if first.UserName != "Amir" || first.UserEmail != "amir@example.com" {
		t.Errorf("joined user columns wrong: %+v", first)
	}
}

func TestQueryRecentChatsNullColumns(t *testing.T) {
	dbPath, seed := testutil.CreateChatDB(t)

	if _, err := seed.Exec(`INSERT INTO user (id, name, email) VALUES ('u1', NULL, NULL)`); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := seed.Exec(`INSERT INTO chat (id, user_id, title, created_at, updated_at, chat) VALUES ('c1', 'u1', NULL, 1500, 1500, NULL)`); err != nil {
		t.Fatalf("seed chat: %v", err)
	}

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error: %v", err)
	}
	defer db.Close()

	records, err := QueryRecentChats(db, Window{Start: 1000, End: 2000})
	if err != nil {
		t.Fatalf("QueryRecentChats() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.UserName != "" || rec.UserEmail != "" || rec.Title != "" || rec.ChatData != "" {
		t.Errorf("NULL columns should scan to empty strings: %+v", rec)
	}
}
