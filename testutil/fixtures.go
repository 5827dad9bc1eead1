package testutil

import (
	"encoding/json"
	"fmt"
	"testing"
)

// FixtureMessage is one embedded message for a chat_data blob. Nil
// Timestamp means the field is omitted entirely, which is how absent
// timestamps appear in stored rows.
type FixtureMessage struct {
	Role      string
	Content   string
	Timestamp *int64
	Model     string
}

// Ts returns a pointer to the given unix-second timestamp.
func Ts(sec int64) *int64 {
	return &sec
}

// ChatBlob builds a chat_data JSON blob from fixture messages.
func ChatBlob(t *testing.T, title string, models []string, messages ...FixtureMessage) string {
	t.Helper()

	msgs := make([]map[string]interface{}, 0, len(messages))
	for _, m := range messages {
		entry := map[string]interface{}{
			"role":    m.Role,
			"content": m.Content,
		}
		if m.Timestamp != nil {
			entry["timestamp"] = *m.Timestamp
		}
		if m.Model != "" {
			entry["model"] = m.Model
		}
		msgs = append(msgs, entry)
	}

	blob := map[string]interface{}{
		"title":    title,
		"messages": msgs,
	}
	if models != nil {
		blob["models"] = models
	}

	data, err := json.Marshal(blob)
	if err != nil {
		t.Fatalf("Failed to marshal chat blob: %v", err)
	}
	return string(data)
}

// DoubleEncodedChatBlob builds a chat_data blob stored as a JSON string
// wrapping the object, a shape that appears in some rows.
func DoubleEncodedChatBlob(t *testing.T, title string, models []string, messages ...FixtureMessage) string {
	t.Helper()
	inner := ChatBlob(t, title, models, messages...)
	data, err := json.Marshal(inner)
	if err != nil {
		t.Fatalf("Failed to marshal wrapped chat blob: %v", err)
	}
	return string(data)
}

// FixtureChat is one chat row to seed into a test database.
type FixtureChat struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt int64
	UpdatedAt int64
	ChatData  string
}

// FixtureUser is one user row to seed into a test database.
type FixtureUser struct {
	ID    string
	Name  string
	Email string
}

// SampleUser returns a user row with predictable fields derived from n.
func SampleUser(n int) FixtureUser {
	return FixtureUser{
		ID:    fmt.Sprintf("user-%d", n),
		Name:  fmt.Sprintf("Student %d", n),
		Email: fmt.Sprintf("student%d@example.com", n),
	}
}
