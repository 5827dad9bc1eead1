package internal

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	assessment  *Assessment
	err         error
	calls       int
	lastText    string
	sawDeadline bool
}

func (s *stubProvider) Assess(ctx context.Context, userText string) (*Assessment, error) {
	s.calls++
	s.lastText = userText
	_, s.sawDeadline = ctx.Deadline()
	if s.err != nil {
		return nil, s.err
	}
	return s.assessment, nil
}

type countingPacer struct {
	pauses int
}

func (p *countingPacer) Pause(context.Context) {
	p.pauses++
}

func userChat() *ChatStats {
	return &ChatStats{
		ChatID:       "c1",
		UserMessages: 2,
		Messages: []CanonicalMessage{
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "hi"},
			{Role: "user", Content: "bye"},
		},
	}
}

func TestAttachSuccess(t *testing.T) {
	provider := &stubProvider{assessment: &Assessment{PerformanceComment: "Nice work"}}
	pacer := &countingPacer{}
	assessor := NewAssessor(provider, pacer, 0)

	chat := userChat()
	assessor.Attach(context.Background(), chat)

	if chat.Assessment == nil || chat.Assessment.PerformanceComment != "Nice work" {
		t.Errorf("Assessment = %+v", chat.Assessment)
	}
	if provider.lastText != "hello\n\nbye" {
		t.Errorf("provider received %q", provider.lastText)
	}
	if pacer.pauses != 1 {
		t.Errorf("pauses = %d, want 1", pacer.pauses)
	}
}

func TestAttachNoUserMessagesSkipsProvider(t *testing.T) {
	provider := &stubProvider{}
	pacer := &countingPacer{}
	assessor := NewAssessor(provider, pacer, 0)

	chat := &ChatStats{ChatID: "c2", Messages: []CanonicalMessage{{Role: "assistant", Content: "hi"}}}
	assessor.Attach(context.Background(), chat)

	if provider.calls != 0 {
		t.Errorf("provider called %d times, want 0", provider.calls)
	}
	if pacer.pauses != 0 {
		t.Errorf("pauses = %d, want 0 when no call was made", pacer.pauses)
	}
	if chat.Assessment == nil || chat.Assessment.PerformanceComment != "No user messages available for assessment" {
		t.Errorf("Assessment = %+v", chat.Assessment)
	}
}

func TestAttachProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	pacer := &countingPacer{}
	assessor := NewAssessor(provider, pacer, 0)

	chat := userChat()
	assessor.Attach(context.Background(), chat)

	if chat.Assessment == nil {
		t.Fatal("Assessment should never be nil after Attach")
	}
	if chat.Assessment.PerformanceComment != "Assessment failed" {
		t.Errorf("PerformanceComment = %q", chat.Assessment.PerformanceComment)
	}
	if chat.Assessment.Error != "rate limited" {
		t.Errorf("Error = %q", chat.Assessment.Error)
	}
	// The pause applies after failed calls too.
	if pacer.pauses != 1 {
		t.Errorf("pauses = %d, want 1", pacer.pauses)
	}
}

func TestAttachAppliesCallTimeout(t *testing.T) {
	provider := &stubProvider{assessment: &Assessment{}}
	assessor := NewAssessor(provider, NopPacer{}, time.Minute)

	assessor.Attach(context.Background(), userChat())

	if !provider.sawDeadline {
		t.Error("provider context should carry a deadline")
	}
}

func TestFixedIntervalPacerHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pacer := FixedIntervalPacer{Interval: time.Hour}
	done := make(chan struct{})
	go func() {
		pacer.Pause(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Pause did not return on cancelled context")
	}
}
