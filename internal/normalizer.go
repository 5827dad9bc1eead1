package internal

// Normalizer converts raw embedded messages to CanonicalMessage form.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// FilterWindow keeps the messages whose timestamp falls inside the
// window, preserving relative order. Messages without a timestamp are
// dropped unconditionally; no error is surfaced for drops.
func (n *Normalizer) FilterWindow(messages []RawMessage, window Window) []RawMessage {
	kept := make([]RawMessage, 0, len(messages))
	for _, msg := range messages {
		if window.Contains(msg.Timestamp) {
			kept = append(kept, msg)
		}
	}
	return kept
}

// Normalize converts one raw message to canonical form. Role and
// content keep their decoded defaults (empty string when absent); the
// ISO time is derived from the timestamp and is nil exactly when the
// timestamp is nil.
func (n *Normalizer) Normalize(msg RawMessage) CanonicalMessage {
	out := CanonicalMessage{
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}

	if msg.Timestamp != nil {
		iso := FormatUnixSeconds(*msg.Timestamp)
		out.Time = &iso
	}

	if model := n.resolveModel(msg); model != "" {
		out.Model = &model
	}

	return out
}

// resolveModel picks the per-message model field, falling back to the
// first entry of the models list.
func (n *Normalizer) resolveModel(msg RawMessage) string {
	if msg.Model != "" {
		return msg.Model
	}
	if len(msg.Models) > 0 {
		return msg.Models[0]
	}
	return ""
}

// EstimateTokens approximates token volume as ceil(len/4). Not a real
// tokenizer; the formula is kept for output compatibility with earlier
// report generations.
func EstimateTokens(content string) int {
	if content == "" {
		return 0
	}
	return (len(content) + 3) / 4
}
