package internal

// Rollup folds aggregated chats into per-user statistics. Users are
// created on first encounter and kept in encounter order so output is
// reproducible for a given input ordering.
type Rollup struct {
	users map[string]*UserStats
	order []string
}

// NewRollup creates an empty Rollup.
func NewRollup() *Rollup {
	return &Rollup{users: make(map[string]*UserStats)}
}

// Add merges one aggregated chat into its user's statistics. Only
// chats that aggregated successfully reach the rollup, so a user whose
// every chat failed to parse never appears in the output.
func (r *Rollup) Add(record RawChatRecord, chat *ChatStats) {
	user, ok := r.users[record.UserID]
	if !ok {
		user = &UserStats{
			UserID:    record.UserID,
			UserName:  defaultString(record.UserName, "Unknown"),
			UserEmail: defaultString(record.UserEmail, "No email"),
		}
		r.users[record.UserID] = user
		r.order = append(r.order, record.UserID)
	}

	user.TotalChats++
	user.TotalMessages += chat.MessageCount
	user.UserMessages += chat.UserMessages
	user.AssistantMessages += chat.AssistantMessages
	user.TotalTokens += chat.EstimatedTokens

	models := newStringSet()
	models.addAll(user.ModelsUsed)
	models.addAll(chat.ModelsUsed)
	user.ModelsUsed = models.sorted()

	if record.UpdatedAt > user.LastActivity {
		user.LastActivity = record.UpdatedAt
	}

	// Arrival order, never re-sorted: the query layer already delivers
	// chats by recency and reports preserve that.
	user.Chats = append(user.Chats, chat)
}

// Users returns the per-user statistics in encounter order.
func (r *Rollup) Users() []*UserStats {
	out := make([]*UserStats, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out
}

// Len returns the number of distinct users seen.
func (r *Rollup) Len() int {
	return len(r.order)
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
