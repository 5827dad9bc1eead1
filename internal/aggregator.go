package internal

import "sort"

// Aggregator folds one chat's raw record into ChatStats.
type Aggregator struct {
	normalizer *Normalizer
}

// NewAggregator creates a new Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{normalizer: NewNormalizer()}
}

// AggregateChat parses the chat payload, filters its messages down to
// the window, and produces the chat's statistics. A malformed payload
// fails this chat only; the caller logs the error and continues with
// sibling chats.
//
// MessageCount is always the post-filter count. Counting the chat's
// lifetime history instead would inflate every downstream report.
func (a *Aggregator) AggregateChat(record RawChatRecord, window Window) (*ChatStats, error) {
	payload, err := ParseChatPayload(record.ChatData)
	if err != nil {
		return nil, &ChatParseError{ChatID: record.ChatID, Err: err}
	}

	filtered := a.normalizer.FilterWindow(payload.Messages, window)

	stats := &ChatStats{
		ChatID:    record.ChatID,
		Title:     chatTitle(record, payload),
		Messages:  make([]CanonicalMessage, 0, len(filtered)),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}

	models := newStringSet()
	for _, raw := range filtered {
		msg := a.normalizer.Normalize(raw)
		stats.Messages = append(stats.Messages, msg)

		// Counting buckets use the store vocabulary; the
		// student/chatbot relabeling happens only at render time.
		switch msg.Role {
		case "user":
			stats.UserMessages++
		case "assistant":
			stats.AssistantMessages++
		}

		stats.EstimatedTokens += EstimateTokens(msg.Content)

		if raw.Model != "" {
			models.add(raw.Model)
		}
		for _, m := range raw.Models {
			models.add(m)
		}
	}

	// Chat-level model tags count toward the set even when no message
	// carries one.
	for _, m := range payload.Models {
		models.add(m)
	}

	sortMessages(stats.Messages)
	stats.MessageCount = len(stats.Messages)
	stats.ModelsUsed = models.sorted()

	return stats, nil
}

func chatTitle(record RawChatRecord, payload *ChatPayload) string {
	if record.Title != "" {
		return record.Title
	}
	if payload.Title != "" {
		return payload.Title
	}
	return "Untitled"
}

// sortMessages orders messages ascending by timestamp, nil treated as
// zero. The sort is stable so equal timestamps keep arrival order and
// sorting is idempotent.
func sortMessages(messages []CanonicalMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return timestampOrZero(messages[i]) < timestampOrZero(messages[j])
	})
}

func timestampOrZero(msg CanonicalMessage) int64 {
	if msg.Timestamp == nil {
		return 0
	}
	return *msg.Timestamp
}

// stringSet is a dedup helper whose output is always sorted, keeping
// report output byte-identical across runs.
type stringSet map[string]struct{}

func newStringSet() stringSet {
	return make(stringSet)
}

func (s stringSet) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s stringSet) addAll(values []string) {
	for _, v := range values {
		s.add(v)
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
