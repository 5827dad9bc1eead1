package internal

import (
	"errors"
	"testing"
)

func TestParseChatPayload(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		wantErr      bool
		wantTitle    string
		wantMessages int
		wantModels   int
	}{
		{
			name:         "plain object",
			data:         `{"title":"Lesson 1","messages":[{"role":"user","content":"hi","timestamp":1710400000}],"models":["deepseek-chat"]}`,
			wantTitle:    "Lesson 1",
			wantMessages: 1,
			wantModels:   1,
		},
		{
			name:         "double encoded string blob",
			data:         `"{\"title\":\"Wrapped\",\"messages\":[]}"`,
			wantTitle:    "Wrapped",
			wantMessages: 0,
		},
		{
			name:    "not json",
			data:    "garbage{",
			wantErr: true,
		},
		{
			name:    "json scalar",
			data:    "42",
			wantErr: true,
		},
		{
			name:         "malformed messages degrades to empty",
			data:         `{"title":"Odd","messages":"not-a-list"}`,
			wantTitle:    "Odd",
			wantMessages: 0,
		},
		{
			name:         "missing fields",
			data:         `{}`,
			wantTitle:    "",
			wantMessages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParseChatPayload(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if payload.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", payload.Title, tt.wantTitle)
			}
			if len(payload.Messages) != tt.wantMessages {
				t.Errorf("len(Messages) = %d, want %d", len(payload.Messages), tt.wantMessages)
			}
			if len(payload.Models) != tt.wantModels {
				t.Errorf("len(Models) = %d, want %d", len(payload.Models), tt.wantModels)
			}
		})
	}
}

func TestParseChatPayloadMessageFields(t *testing.T) {
	data := `{"messages":[
		{"role":"user","content":"hello","timestamp":1710400000,"model":"gpt-4"},
		{"role":"assistant","content":"hi","timestamp":"1710400001"},
		{"content":"typed wrong","timestamp":true},
		"not an object"
	]}`

	payload, err := ParseChatPayload(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload.Messages) != 4 {
		t.Fatalf("len(Messages) = %d, want 4", len(payload.Messages))
	}

	first := payload.Messages[0]
	if first.Role != "user" || first.Content != "hello" || first.Model != "gpt-4" {
		t.Errorf("first message decoded wrong: %+v", first)
	}
	if first.Timestamp == nil || *first.Timestamp != 1710400000 {
		t.Errorf("first.Timestamp = %v, want 1710400000", first.Timestamp)
	}

	// Numeric string timestamps are accepted.
	second := payload.Messages[1]
	if second.Timestamp == nil || *second.Timestamp != 1710400001 {
		t.Errorf("second.Timestamp = %v, want 1710400001", second.Timestamp)
	}

	// A mistyped timestamp counts as absent.
	third := payload.Messages[2]
	if third.Timestamp != nil {
		t.Errorf("third.Timestamp = %v, want nil", third.Timestamp)
	}
	if third.Content != "typed wrong" {
		t.Errorf("third.Content = %q", third.Content)
	}

	// A non-object message decodes to the zero message.
	fourth := payload.Messages[3]
	if fourth.Role != "" || fourth.Content != "" || fourth.Timestamp != nil {
		t.Errorf("fourth should be zero valued: %+v", fourth)
	}
}

func TestDisplayRole(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"user", "student"},
		{"assistant", "chatbot"},
		{"system", "system"},
		{"", ""},
	}

	for _, tt := range tests {
		msg := CanonicalMessage{Role: tt.role}
		if got := msg.DisplayRole(); got != tt.want {
			t.Errorf("DisplayRole(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestEstimatedPracticeTime(t *testing.T) {
	tests := []struct {
		tokens int
		want   string
	}{
		{0, "0 minutes"},
		{24, "0 minutes"},
		{25, "1 minutes"},
		{50, "1 minutes"},
		{74, "1 minutes"},
		{75, "2 minutes"},
		{500, "10 minutes"},
	}

	for _, tt := range tests {
		chat := &ChatStats{EstimatedTokens: tt.tokens}
		if got := chat.EstimatedPracticeTime(); got != tt.want {
			t.Errorf("EstimatedPracticeTime(%d tokens) = %q, want %q", tt.tokens, got, tt.want)
		}
	}
}

func TestUserMessageText(t *testing.T) {
	chat := &ChatStats{
		Messages: []CanonicalMessage{
			{Role: "user", Content: "first"},
			{Role: "assistant", Content: "reply"},
			{Role: "user", Content: "second"},
		},
	}

	want := "first\n\nsecond"
	if got := chat.UserMessageText(); got != want {
		t.Errorf("UserMessageText() = %q, want %q", got, want)
	}
}

func TestAssessmentSentinels(t *testing.T) {
	noMsgs := NoUserMessagesAssessment()
	if noMsgs.PerformanceComment != "No user messages available for assessment" {
		t.Errorf("unexpected placeholder text: %q", noMsgs.PerformanceComment)
	}
	if noMsgs.Error != "" {
		t.Errorf("placeholder should carry no error, got %q", noMsgs.Error)
	}
	if noMsgs.Correction != noMsgs.PerformanceComment || noMsgs.Encouragement != noMsgs.PerformanceComment {
		t.Error("placeholder fields should be uniform")
	}

	failed := FailedAssessment(errors.New("provider down"))
	if failed.PerformanceComment != "Assessment failed" {
		t.Errorf("unexpected failure text: %q", failed.PerformanceComment)
	}
	if failed.Error != "provider down" {
		t.Errorf("Error = %q, want %q", failed.Error, "provider down")
	}
}

func TestFormatUnixSeconds(t *testing.T) {
	if got := FormatUnixSeconds(1710412200); got != "2024-03-14T10:30:00.000Z" {
		t.Errorf("FormatUnixSeconds = %q", got)
	}
}
