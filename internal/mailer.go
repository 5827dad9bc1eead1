package internal

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// Mailer sends report emails over authenticated SMTP (Gmail app
// passwords in the default configuration).
type Mailer struct {
	cfg MailConfig
	// send is swapped in tests to capture the wire payload.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a Mailer from config.
func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Send delivers one HTML email with a derived plain-text alternative.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)

	msg := m.buildMessage(to, subject, htmlBody)
	if err := m.send(addr, auth, m.cfg.Username, []string{to}, msg); err != nil {
		return &MailError{Recipient: to, Err: err}
	}
	LogInfo("email sent to %s", to)
	return nil
}

const mimeBoundary = "report-alt-boundary"

func (m *Mailer) buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", m.cfg.FromName), m.cfg.Username)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(HTMLToText(htmlBody))
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return []byte(b.String())
}

// DeliveryResult records the outcome for one student.
type DeliveryResult struct {
	UserID      string
	UserName    string
	UserEmail   string
	Sessions    int
	StudentSent bool
	TeacherSent bool
	Err         error
}

// SendDailyReports loads the generated report tree for the given date
// and emails each student their report plus the teacher a progress
// report. Per-student failures are contained; the batch continues.
func SendDailyReports(cfg *Config, date string) ([]DeliveryResult, error) {
	store := NewStore(cfg.Reports.Dir, date)
	userIDs, err := store.ListReportUsers()
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		LogInfo("no student reports found for %s", date)
		return nil, nil
	}
	LogInfo("found %d student(s) for %s", len(userIDs), date)

	mailer := NewMailer(cfg.Mail)
	results := make([]DeliveryResult, 0, len(userIDs))

	for _, userID := range userIDs {
		results = append(results, sendForUser(mailer, store, cfg.Mail.TeacherEmail, userID, date))
	}

	return results, nil
}

func sendForUser(mailer *Mailer, store *Store, teacherEmail, userID, date string) DeliveryResult {
	result := DeliveryResult{UserID: userID}

	summary, err := ReadUserSummary(store.SummaryPath(userID))
	if err != nil {
		result.Err = err
		LogError("failed to load summary for %s: %v", userID, err)
		return result
	}
	result.UserName = summary.UserInfo.UserName
	result.UserEmail = summary.UserInfo.UserEmail

	// Detail records are loaded in overview order; a missing file is
	// skipped rather than failing the student.
	var chats []*ChatReport
	for _, overview := range summary.ChatOverview {
		report, err := ReadChatReport(store.ChatPath(userID, overview.FileName))
		if err != nil {
			LogWarn("skipping chat record %s: %v", overview.FileName, err)
			continue
		}
		chats = append(chats, report)
	}
	result.Sessions = len(chats)

	data := NewReportData(summary, chats, date)

	studentHTML, err := RenderStudentReport(data)
	if err != nil {
		result.Err = err
		return result
	}
	subject := fmt.Sprintf("Your English Practice Report - %s", date)
	if err := mailer.Send(summary.UserInfo.UserEmail, subject, studentHTML); err != nil {
		LogError("%v", err)
	} else {
		result.StudentSent = true
	}

	teacherHTML, err := RenderTeacherReport(data)
	if err != nil {
		result.Err = err
		return result
	}
	teacherSubject := fmt.Sprintf("Progress Report: %s [%s] - %s",
		summary.UserInfo.UserName, summary.UserInfo.UserEmail, date)
	if err := mailer.Send(teacherEmail, teacherSubject, teacherHTML); err != nil {
		LogError("%v", err)
	} else {
		result.TeacherSent = true
	}

	return result
}
