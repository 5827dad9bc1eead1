package internal

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func captureMailer(cfg MailConfig, fail func(to string) error) (*Mailer, *[]sentMail) {
	var sent []sentMail
	m := NewMailer(cfg)
	m.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		if fail != nil {
			if err := fail(to[0]); err != nil {
				return err
			}
		}
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: msg})
		return nil
	}
	return m, &sent
}

func testMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		Username:     "robot@example.com",
		Password:     "secret",
		FromName:     "English Practice System",
		TeacherEmail: "teacher@example.com",
	}
}

func TestMailerSend(t *testing.T) {
	mailer, sent := captureMailer(testMailConfig(), nil)

	err := mailer.Send("alice@example.com", "Your Report", "<html><body><p>Hello<br>World</p></body></html>")
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(*sent))
	}

	mail := (*sent)[0]
	if mail.addr != "smtp.example.com:587" {
		t.Errorf("addr = %q", mail.addr)
	}
	if mail.from != "robot@example.com" {
		t.Errorf("from = %q", mail.from)
	}
	if len(mail.to) != 1 || mail.to[0] != "alice@example.com" {
		t.Errorf("to = %v", mail.to)
	}

	body := string(mail.msg)
	if !strings.Contains(body, "Subject: Your Report\r\n") {
		t.Error("subject header missing")
	}
	if !strings.Contains(body, "multipart/alternative") {
		t.Error("multipart content type missing")
	}
	if !strings.Contains(body, "Content-Type: text/html") || !strings.Contains(body, "Content-Type: text/plain") {
		t.Error("both alternatives should be present")
	}
	// The plain part is the HTML stripped of markup.
	if !strings.Contains(body, "Hello\nWorld") {
		t.Error("plain-text alternative missing")
	}
}

func TestMailerSendFailure(t *testing.T) {
	mailer, _ := captureMailer(testMailConfig(), func(string) error {
		return errors.New("connection refused")
	})

	err := mailer.Send("alice@example.com", "Subject", "<p>x</p>")
	if err == nil {
		t.Fatal("expected error")
	}

	var mailErr *MailError
	if !errors.As(err, &mailErr) {
		t.Fatalf("error type = %T", err)
	}
	if mailErr.Recipient != "alice@example.com" {
		t.Errorf("Recipient = %q", mailErr.Recipient)
	}
}

func writeReportTree(t *testing.T, dir, date string) {
	t.Helper()
	store := NewStore(dir, date)
	user := sampleUserStats()

	summary := BuildUserSummary(user, "json")
	if err := store.WriteUserSummary(summary); err != nil {
		t.Fatalf("WriteUserSummary: %v", err)
	}

	report := BuildChatReport(user, user.Chats[0])
	userDir, err := store.UserDir(user.UserID)
	if err != nil {
		t.Fatalf("UserDir: %v", err)
	}
	path := userDir + "/" + summary.ChatOverview[0].FileName
	if err := writeJSONFile(path, report); err != nil {
		t.Fatalf("write chat report: %v", err)
	}
}

func TestSendForUser(t *testing.T) {
	dir := t.TempDir()
	date := "2024-03-14"
	writeReportTree(t, dir, date)

	mailer, sent := captureMailer(testMailConfig(), nil)
	store := NewStore(dir, date)

	result := sendForUser(mailer, store, "teacher@example.com", "u1", date)

	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if !result.StudentSent || !result.TeacherSent {
		t.Errorf("sent flags = %v/%v, want both true", result.StudentSent, result.TeacherSent)
	}
	if result.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", result.Sessions)
	}
	if len(*sent) != 2 {
		t.Fatalf("sent %d mails, want 2", len(*sent))
	}
	if (*sent)[0].to[0] != "alice@example.com" {
		t.Errorf("first mail to %q, want the student", (*sent)[0].to[0])
	}
	if (*sent)[1].to[0] != "teacher@example.com" {
		t.Errorf("second mail to %q, want the teacher", (*sent)[1].to[0])
	}
}

func TestSendForUserStudentFailureStillMailsTeacher(t *testing.T) {
	dir := t.TempDir()
	date := "2024-03-14"
	writeReportTree(t, dir, date)

	mailer, sent := captureMailer(testMailConfig(), func(to string) error {
		if to == "alice@example.com" {
			return errors.New("mailbox full")
		}
		return nil
	})
	store := NewStore(dir, date)

	result := sendForUser(mailer, store, "teacher@example.com", "u1", date)

	if result.StudentSent {
		t.Error("StudentSent should be false")
	}
	if !result.TeacherSent {
		t.Error("TeacherSent should be true despite the student failure")
	}
	if len(*sent) != 1 {
		t.Errorf("sent %d mails, want 1", len(*sent))
	}
}

func TestSendForUserMissingSummary(t *testing.T) {
	store := NewStore(t.TempDir(), "2024-03-14")
	mailer, sent := captureMailer(testMailConfig(), nil)

	result := sendForUser(mailer, store, "teacher@example.com", "ghost", "2024-03-14")

	if result.Err == nil {
		t.Error("expected error for missing summary")
	}
	if len(*sent) != 0 {
		t.Errorf("sent %d mails, want 0", len(*sent))
	}
}
