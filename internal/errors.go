package internal

import "fmt"

// QueryError represents errors reaching or reading the chat store.
type QueryError struct {
	Op  string // "open", "ping", "query", "scan"
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// ChatParseError represents a malformed chat payload. It is contained
// to the one chat: the run continues and siblings are unaffected.
type ChatParseError struct {
	ChatID string
	Err    error
}

func (e *ChatParseError) Error() string {
	return fmt.Sprintf("chat parse error [%s]: %v", e.ChatID, e.Err)
}

func (e *ChatParseError) Unwrap() error {
	return e.Err
}

// AssessmentError represents a failed external assessment call or an
// unparseable response. The chat is retained with a placeholder.
type AssessmentError struct {
	ChatID string
	Err    error
}

func (e *AssessmentError) Error() string {
	return fmt.Sprintf("assessment error [%s]: %v", e.ChatID, e.Err)
}

func (e *AssessmentError) Unwrap() error {
	return e.Err
}

// ReportError represents errors writing or reading report records.
type ReportError struct {
	Path string
	Err  error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report error %s: %v", e.Path, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// MailError represents a failed email delivery for one recipient.
type MailError struct {
	Recipient string
	Err       error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("mail error [%s]: %v", e.Recipient, e.Err)
}

func (e *MailError) Unwrap() error {
	return e.Err
}
