package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawChatRecord is one row from the chat store: user columns joined with
// the chat columns, plus the opaque chat_data blob holding the embedded
// message list. The query layer owns the row shape; the core never
// mutates it.
type RawChatRecord struct {
	UserID    string
	UserName  string
	UserEmail string
	ChatID    string
	Title     string
	CreatedAt int64 // unix seconds
	UpdatedAt int64 // unix seconds
	ChatData  string
}

// ChatPayload is the parsed form of chat_data. Messages and Models come
// from an untrusted producer, so both decode tolerantly.
type ChatPayload struct {
	Title    string
	Messages []RawMessage
	Models   []string
}

// RawMessage is one embedded message of unknown shape. Every field may
// be missing or mistyped in the stored blob; decoding keeps whatever is
// usable and leaves the rest zero.
type RawMessage struct {
	Role      string
	Content   string
	Timestamp *int64 // unix seconds, nil when absent or unusable
	Model     string
	Models    []string
}

// CanonicalMessage is the fixed-shape message the pipeline emits. Role
// keeps the store vocabulary ("user"/"assistant"); DisplayRole maps it
// for human-facing output.
type CanonicalMessage struct {
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Timestamp *int64  `json:"timestamp"`
	Time      *string `json:"time"`
	Model     *string `json:"model"`
}

// DisplayRole returns the human-facing role label.
func (m CanonicalMessage) DisplayRole() string {
	switch m.Role {
	case "user":
		return "student"
	case "assistant":
		return "chatbot"
	default:
		return m.Role
	}
}

// ChatStats holds one chat's aggregated, window-filtered view. It is
// immutable after aggregation except for Assessment, which is attached
// exactly once later.
type ChatStats struct {
	ChatID            string             `json:"chat_id"`
	Title             string             `json:"title"`
	Messages          []CanonicalMessage `json:"messages"`
	MessageCount      int                `json:"message_count"`
	UserMessages      int                `json:"user_messages"`
	AssistantMessages int                `json:"assistant_messages"`
	EstimatedTokens   int                `json:"estimated_tokens"`
	ModelsUsed        []string           `json:"models_used"`
	CreatedAt         int64              `json:"created_at"`
	UpdatedAt         int64              `json:"updated_at"`
	Assessment        *Assessment        `json:"assessment,omitempty"`
}

// HasUserMessages reports whether any window-filtered message was
// authored by the user.
func (c *ChatStats) HasUserMessages() bool {
	return c.UserMessages > 0
}

// UserMessageText concatenates the user-authored message contents, the
// payload handed to the assessment provider.
func (c *ChatStats) UserMessageText() string {
	var out string
	for _, msg := range c.Messages {
		if msg.Role != "user" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += msg.Content
	}
	return out
}

// EstimatedPracticeTime renders the tokens/50 minutes heuristic used in
// report output.
func (c *ChatStats) EstimatedPracticeTime() string {
	minutes := (c.EstimatedTokens + 25) / 50 // round to nearest
	return fmt.Sprintf("%d minutes", minutes)
}

// UserStats is the per-user fold of all in-window chats.
type UserStats struct {
	UserID            string       `json:"user_id"`
	UserName          string       `json:"user_name"`
	UserEmail         string       `json:"user_email"`
	TotalChats        int          `json:"total_chats"`
	TotalMessages     int          `json:"total_messages"`
	UserMessages      int          `json:"user_messages"`
	AssistantMessages int          `json:"assistant_messages"`
	TotalTokens       int          `json:"total_tokens"`
	ModelsUsed        []string     `json:"models_used"`
	LastActivity      int64        `json:"last_activity"`
	Chats             []*ChatStats `json:"chats"`
}

// Assessment is the externally generated qualitative feedback attached
// to a chat. All four primary fields are populated in every case; the
// fallback paths fill them with a sentinel and set Error.
type Assessment struct {
	PerformanceComment string `json:"performance_comment"`
	Correction         string `json:"correction"`
	ImprovementAreas   string `json:"improvement_areas"`
	Encouragement      string `json:"encouragement"`
	Error              string `json:"error,omitempty"`
}

const (
	noUserMessagesText   = "No user messages available for assessment"
	assessmentFailedText = "Assessment failed"
)

// NoUserMessagesAssessment returns the fixed placeholder for chats
// without user-authored messages.
func NoUserMessagesAssessment() *Assessment {
	return uniformAssessment(noUserMessagesText, "")
}

// FailedAssessment returns the fail-closed placeholder carrying the
// failure description.
func FailedAssessment(err error) *Assessment {
	return uniformAssessment(assessmentFailedText, err.Error())
}

func uniformAssessment(text, errText string) *Assessment {
	return &Assessment{
		PerformanceComment: text,
		Correction:         text,
		ImprovementAreas:   text,
		Encouragement:      text,
		Error:              errText,
	}
}

// ParseChatPayload parses a chat_data blob. The blob is usually a JSON
// object, but some rows store it double-encoded as a JSON string.
func ParseChatPayload(data string) (*ChatPayload, error) {
	blob := []byte(data)
	var inner string
	if json.Unmarshal(blob, &inner) == nil {
		blob = []byte(inner)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse chat payload: %w", err)
	}

	payload := &ChatPayload{
		Title:  stringField(fields["title"]),
		Models: stringListField(fields["models"]),
	}

	if raw, ok := fields["messages"]; ok {
		var items []json.RawMessage
		// A malformed messages value degrades to an empty list rather
		// than failing the whole chat.
		if err := json.Unmarshal(raw, &items); err == nil {
			payload.Messages = make([]RawMessage, 0, len(items))
			for _, item := range items {
				payload.Messages = append(payload.Messages, parseRawMessage(item))
			}
		}
	}

	return payload, nil
}

// parseRawMessage decodes a single message with per-field presence and
// type checks. A non-object message yields an empty RawMessage, which
// the window filter drops for lack of a timestamp.
func parseRawMessage(data json.RawMessage) RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return RawMessage{}
	}

	return RawMessage{
		Role:      stringField(fields["role"]),
		Content:   stringField(fields["content"]),
		Timestamp: timestampField(fields["timestamp"]),
		Model:     stringField(fields["model"]),
		Models:    stringListField(fields["models"]),
	}
}

func stringField(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func stringListField(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// timestampField accepts numeric timestamps and numeric strings, both
// seen in stored blobs. Anything else counts as absent.
func timestampField(raw json.RawMessage) *int64 {
	if raw == nil {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		n = json.Number(s)
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	ts := int64(f)
	return &ts
}

// FormatUnixSeconds formats a unix-second timestamp the way the report
// records expect: UTC ISO-8601 with millisecond precision.
func FormatUnixSeconds(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
