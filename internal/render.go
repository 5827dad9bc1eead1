package internal

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"
)

// Rendering is a pure function of the persisted report records: the
// same summary and detail records always produce the same HTML.

// ReportData is the input to both report templates.
type ReportData struct {
	Summary        *UserSummary
	Chats          []*ChatReport
	ReportDate     string // YYYY-MM-DD
	ReportDateLong string // e.g. "Monday, January 2, 2006"
	Engagement     string // High / Moderate / Low
	BalancePercent int    // student share of total messages
	GeneratedAt    string
}

// NewReportData assembles template input from loaded records.
func NewReportData(summary *UserSummary, chats []*ChatReport, reportDate string) *ReportData {
	data := &ReportData{
		Summary:     summary,
		Chats:       chats,
		ReportDate:  reportDate,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	if t, err := time.Parse("2006-01-02", reportDate); err == nil {
		data.ReportDateLong = t.Format("Monday, January 2, 2006")
	} else {
		data.ReportDateLong = reportDate
	}

	switch {
	case summary.Summary.TotalChats > 4:
		data.Engagement = "High"
	case summary.Summary.TotalChats > 2:
		data.Engagement = "Moderate"
	default:
		data.Engagement = "Low"
	}

	if summary.Summary.TotalMessages > 0 {
		data.BalancePercent = int(float64(summary.Summary.StudentMessages)/float64(summary.Summary.TotalMessages)*100 + 0.5)
	}

	return data
}

var reportFuncs = template.FuncMap{
	"breaks": func(s string) template.HTML {
		escaped := template.HTMLEscapeString(s)
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	},
	"join": strings.Join,
}

var (
	studentTemplate = template.Must(template.New("student").Funcs(reportFuncs).Parse(studentReportHTML))
	teacherTemplate = template.Must(template.New("teacher").Funcs(reportFuncs).Parse(teacherReportHTML))
)

// RenderStudentReport renders the report emailed to the student.
func RenderStudentReport(data *ReportData) (string, error) {
	var b strings.Builder
	if err := studentTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render student report: %w", err)
	}
	return b.String(), nil
}

// RenderTeacherReport renders the progress report emailed to the
// teacher.
func RenderTeacherReport(data *ReportData) (string, error) {
	var b strings.Builder
	if err := teacherTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render teacher report: %w", err)
	}
	return b.String(), nil
}

var (
	styleBlock   = regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`)
	scriptBlock  = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`)
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText produces the plain-text alternative for email delivery.
func HTMLToText(html string) string {
	text := styleBlock.ReplaceAllString(html, "")
	text = scriptBlock.ReplaceAllString(text, "")
	text = lineBreakTag.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(text)
}

const studentReportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your English Practice Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; background: #f8f9fa; padding: 20px; }
.container { max-width: 700px; margin: 0 auto; background: white; border-radius: 15px; overflow: hidden; box-shadow: 0 10px 30px rgba(0,0,0,0.1); }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 40px 30px; text-align: center; }
.content { padding: 40px 30px; }
.stats-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 15px; margin: 30px 0; }
.stat-card { background: white; padding: 20px; border-radius: 12px; text-align: center; border: 1px solid #e8ecef; }
.stat-number { color: #667eea; font-weight: bold; font-size: 2em; display: block; }
.section-title { color: #333; border-bottom: 3px solid #667eea; padding-bottom: 12px; margin: 35px 0 20px 0; }
.chat-session { background: white; margin: 25px 0; padding: 25px; border-radius: 12px; border-left: 5px solid #667eea; }
.chat-meta { color: #666; font-size: 0.95em; }
.message-list { max-height: 300px; overflow-y: auto; border: 1px solid #e8ecef; border-radius: 8px; background: white; }
.message { padding: 15px; border-bottom: 1px solid #f1f1f1; display: flex; }
.message.student { background: #f8f9fa; }
.message-role { font-weight: 600; min-width: 80px; color: #555; }
.message-content { flex: 1; color: #333; }
.assessment-section { background: #e7f3ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #007bff; }
.encouragement-box { background: #d1ecf1; padding: 25px; border-radius: 12px; margin: 25px 0; border-left: 5px solid #17a2b8; }
.footer { text-align: center; color: #666; font-size: 0.9em; padding: 25px; border-top: 1px solid #e8ecef; background: #f8f9fa; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Your English Practice Report</h1>
<p>Daily Progress Summary &bull; {{.ReportDateLong}}</p>
</div>
<div class="content">
<h2>Hello {{.Summary.UserInfo.UserName}}!</h2>
<p>Great work on your English practice yesterday! Here's your detailed progress report:</p>
<div class="stats-grid">
<div class="stat-card"><h3>Total Chats</h3><span class="stat-number">{{.Summary.Summary.TotalChats}}</span></div>
<div class="stat-card"><h3>Messages Sent</h3><span class="stat-number">{{.Summary.Summary.StudentMessages}}</span></div>
<div class="stat-card"><h3>AI Responses</h3><span class="stat-number">{{.Summary.Summary.ChatbotMessages}}</span></div>
<div class="stat-card"><h3>Practice Volume</h3><span class="stat-number">{{.Summary.Summary.TotalTokens}}</span> <small>tokens</small></div>
</div>
<h3 class="section-title">Recent Practice Sessions</h3>
{{range .Chats}}
<div class="chat-session">
<h4>{{.ChatInfo.Title}}</h4>
<div class="chat-meta">
<div><strong>Duration:</strong> {{.ChatInfo.EstimatedPracticeTime}}</div>
<div><strong>Messages:</strong> {{.ChatInfo.MessageCount}}</div>
<div><strong>Date:</strong> {{.ChatInfo.CreatedAt}}</div>
</div>
{{if .ConversationHistory}}
<div class="message-list">
{{range .ConversationHistory}}
<div class="message {{.Role}}">
<div class="message-role">{{if eq .Role "student"}}You:{{else}}Tutor:{{end}}</div>
<div class="message-content">{{breaks .Content}}</div>
</div>
{{end}}
</div>
{{end}}
<div class="assessment-section"><h5>Performance Assessment</h5><p>{{.EducationalAssessment.PerformanceComment}}</p></div>
<div class="assessment-section"><h5>Corrections &amp; Feedback</h5><p>{{.EducationalAssessment.Correction}}</p></div>
<div class="assessment-section"><h5>Areas for Improvement</h5><p>{{.EducationalAssessment.ImprovementAreas}}</p></div>
</div>
{{end}}
{{if .Chats}}
<div class="encouragement-box">
<h4>Words of Encouragement</h4>
<p>{{(index .Chats 0).EducationalAssessment.Encouragement}}</p>
</div>
{{end}}
<p><strong>Last Activity:</strong> {{.Summary.Summary.LastActivity}}</p>
</div>
<div class="footer">
<p>This is an automated report from your English practice platform.<br>
Keep up the great work! Every practice session brings you closer to fluency.</p>
</div>
</div>
</body>
</html>`

const teacherReportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Progress Report</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; background: #f8f9fa; padding: 20px; }
.container { max-width: 800px; margin: 0 auto; background: white; border-radius: 15px; overflow: hidden; box-shadow: 0 10px 30px rgba(0,0,0,0.1); }
.header { background: linear-gradient(135deg, #28a745 0%, #20c997 100%); color: white; padding: 40px 30px; text-align: center; }
.content { padding: 40px 30px; }
.profile-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 15px; margin-top: 15px; }
.profile-item { padding: 12px; background: #f8f9fa; border-radius: 8px; border-left: 4px solid #28a745; }
.stats-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 15px; margin: 30px 0; }
.stat-card { background: white; padding: 25px; border-radius: 12px; text-align: center; border: 1px solid #e8ecef; }
.stat-number { color: #28a745; font-weight: bold; font-size: 2.2em; display: block; }
.section-title { color: #333; border-bottom: 3px solid #28a745; padding-bottom: 12px; margin: 40px 0 25px 0; }
.chat-analysis { background: white; margin: 25px 0; padding: 25px; border-radius: 12px; border-left: 5px solid #28a745; }
.chat-meta { color: #666; font-size: 0.95em; }
.message-list { max-height: 400px; overflow-y: auto; border: 1px solid #e8ecef; border-radius: 8px; background: white; }
.message { padding: 15px; border-bottom: 1px solid #f1f1f1; display: flex; }
.message.student { background: #f8f9fa; }
.message-role { font-weight: 600; min-width: 80px; color: #555; }
.message-content { flex: 1; color: #333; }
.assessment-section { background: #e7f3ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #007bff; }
.indicators-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 20px; margin-top: 15px; }
.indicator { padding: 15px; background: white; border-radius: 8px; text-align: center; }
.indicator-value { font-size: 1.4em; font-weight: bold; color: #1976d2; display: block; }
.footer { text-align: center; color: #666; font-size: 0.9em; padding: 25px; border-top: 1px solid #e8ecef; background: #f8f9fa; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Progress Report</h1>
<p>Student Activity Analysis &bull; {{.ReportDateLong}}</p>
</div>
<div class="content">
<h2>Student: {{.Summary.UserInfo.UserName}}</h2>
<div class="profile-grid">
<div class="profile-item"><strong>Email</strong><br>{{.Summary.UserInfo.UserEmail}}</div>
<div class="profile-item"><strong>User ID</strong><br>{{.Summary.UserInfo.UserID}}</div>
<div class="profile-item"><strong>Last Active</strong><br>{{.Summary.Summary.LastActivity}}</div>
<div class="profile-item"><strong>AI Model</strong><br>{{join .Summary.Summary.ModelsUsed ", "}}</div>
</div>
<h3 class="section-title">Activity Overview</h3>
<div class="stats-grid">
<div class="stat-card"><h3>Total Practice Sessions</h3><span class="stat-number">{{.Summary.Summary.TotalChats}}</span></div>
<div class="stat-card"><h3>Total Messages</h3><span class="stat-number">{{.Summary.Summary.TotalMessages}}</span></div>
<div class="stat-card"><h3>Student Messages</h3><span class="stat-number">{{.Summary.Summary.StudentMessages}}</span></div>
</div>
<h3 class="section-title">Detailed Session Analysis</h3>
{{range .Chats}}
<div class="chat-analysis">
<h4>{{.ChatInfo.Title}}</h4>
<div class="chat-meta">
<div><strong>Duration:</strong> {{.ChatInfo.EstimatedPracticeTime}}</div>
<div><strong>Messages:</strong> {{.ChatInfo.MessageCount}}</div>
<div><strong>Date:</strong> {{.ChatInfo.CreatedAt}}</div>
</div>
{{if .ConversationHistory}}
<div class="message-list">
{{range .ConversationHistory}}
<div class="message {{.Role}}">
<div class="message-role">{{if eq .Role "student"}}Student:{{else}}Chatbot:{{end}}</div>
<div class="message-content">{{breaks .Content}}</div>
</div>
{{end}}
</div>
{{end}}
<div class="assessment-section"><h5>Performance Assessment</h5><p>{{.EducationalAssessment.PerformanceComment}}</p></div>
<div class="assessment-section"><h5>Corrections &amp; Feedback</h5><p>{{.EducationalAssessment.Correction}}</p></div>
<div class="assessment-section"><h5>Areas for Improvement</h5><p>{{.EducationalAssessment.ImprovementAreas}}</p></div>
</div>
{{end}}
<h4>Overall Progress Indicators</h4>
<div class="indicators-grid">
<div class="indicator"><span class="indicator-value">{{.Engagement}}</span> Engagement Level</div>
<div class="indicator"><span class="indicator-value">{{.Summary.Summary.StudentMessages}}</span> Active Participation</div>
<div class="indicator"><span class="indicator-value">{{.Summary.Summary.TotalChats}}</span> Practice Consistency</div>
<div class="indicator"><span class="indicator-value">{{.BalancePercent}}%</span> Conversation Balance</div>
</div>
</div>
<div class="footer">
<p>Automated teaching assistant report &bull; Generated on {{.GeneratedAt}}</p>
</div>
</div>
</body>
</html>`
