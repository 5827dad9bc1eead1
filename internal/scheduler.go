package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ClockTime is a local wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q (expected HH:MM): %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// NextAfter returns the next instant at this wall-clock time strictly
// after now, in now's location.
func (c ClockTime) NextAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Scheduler fires the generate-then-send chain once per day at a fixed
// local time. Mailing is skipped when generation fails; a master log
// records every transition so unattended runs can be audited.
type Scheduler struct {
	at     ClockTime
	logDir string

	// generate and send are the two chained steps, injected so tests
	// can observe sequencing without touching a database or SMTP.
	generate func(ctx context.Context) error
	send     func(ctx context.Context) error

	// now and sleep are swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewScheduler creates a Scheduler chaining the two steps.
func NewScheduler(at ClockTime, logDir string, generate, send func(ctx context.Context) error) *Scheduler {
	return &Scheduler{
		at:       at,
		logDir:   logDir,
		generate: generate,
		send:     send,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run blocks, firing the chain daily until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	s.masterLog("scheduler started, firing daily at %02d:%02d", s.at.Hour, s.at.Minute)

	for {
		next := s.at.NextAfter(s.now())
		s.masterLog("next run at %s", next.Format(time.RFC3339))

		if err := s.sleep(ctx, next.Sub(s.now())); err != nil {
			s.masterLog("scheduler stopped: %v", err)
			return err
		}

		s.RunOnce(ctx)
	}
}

// RunOnce fires the chain a single time: generate, then send only if
// generation succeeded. Log output is teed into a per-run file for the
// duration of the run.
func (s *Scheduler) RunOnce(ctx context.Context) {
	runID := s.now().UnixMilli()

	runLogPath := filepath.Join(s.logDir, fmt.Sprintf("run-%d.log", runID))
	if f, err := os.Create(runLogPath); err != nil {
		LogWarn("failed to create run log %s: %v", runLogPath, err)
	} else {
		SetLogOutput(io.MultiWriter(os.Stderr, f))
		defer func() {
			SetLogOutput(os.Stderr)
			_ = f.Close()
		}()
	}

	s.masterLog("START generate id=%d", runID)

	if err := s.generate(ctx); err != nil {
		s.masterLog("END generate id=%d error=%v, skipping send", runID, err)
		return
	}
	s.masterLog("END generate id=%d ok, starting send", runID)

	if err := s.send(ctx); err != nil {
		s.masterLog("END send id=%d error=%v", runID, err)
		return
	}
	s.masterLog("END send id=%d ok", runID)
}

func (s *Scheduler) masterLog(format string, args ...interface{}) {
	line := fmt.Sprintf("%s %s\n", s.now().UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))

	path := filepath.Join(s.logDir, "scheduler-master.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		LogWarn("failed to append master log: %v", err)
	} else {
		_, _ = f.WriteString(line)
		_ = f.Close()
	}

	LogInfo("scheduler: %s", fmt.Sprintf(format, args...))
}
