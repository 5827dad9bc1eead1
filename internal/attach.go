package internal

import (
	"context"
	"time"
)

// Pacer gates successive assessment calls so an external provider's
// rate limits are respected. Injected so tests never sleep wall-clock
// time.
type Pacer interface {
	// Pause blocks between calls; it returns early when the context is
	// cancelled.
	Pause(ctx context.Context)
}

// FixedIntervalPacer pauses a constant duration between calls.
type FixedIntervalPacer struct {
	Interval time.Duration
}

// Pause implements Pacer.
func (p FixedIntervalPacer) Pause(ctx context.Context) {
	if p.Interval <= 0 {
		return
	}
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// NopPacer never pauses. Used in tests.
type NopPacer struct{}

// Pause implements Pacer.
func (NopPacer) Pause(context.Context) {}

// Assessor attaches assessments to aggregated chats, one at a time.
// Processing is strictly sequential: the provider is rate-limited and
// output files must land in rollup order.
type Assessor struct {
	provider AssessmentProvider
	pacer    Pacer
	timeout  time.Duration
}

// NewAssessor creates an Assessor. timeout bounds each provider call;
// zero means no per-call bound beyond the run context.
func NewAssessor(provider AssessmentProvider, pacer Pacer, timeout time.Duration) *Assessor {
	return &Assessor{provider: provider, pacer: pacer, timeout: timeout}
}

// Attach fills chat.Assessment. Chats without user-authored messages
// get the fixed placeholder and never trigger an external call. Any
// provider or parse failure degrades to the fail-closed placeholder
// carrying the error; the chat itself is always retained. The pacing
// pause follows every provider invocation, including failed ones.
func (a *Assessor) Attach(ctx context.Context, chat *ChatStats) {
	if !chat.HasUserMessages() {
		chat.Assessment = NoUserMessagesAssessment()
		return
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	assessment, err := a.provider.Assess(callCtx, chat.UserMessageText())
	if err != nil {
		aerr := &AssessmentError{ChatID: chat.ChatID, Err: err}
		LogWarn("%v", aerr)
		chat.Assessment = FailedAssessment(err)
	} else {
		chat.Assessment = assessment
	}

	a.pacer.Pause(ctx)
}
