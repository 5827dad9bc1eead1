package internal

import (
	"strings"
	"testing"
)

func sampleSummary(totalChats, studentMsgs, chatbotMsgs int) *UserSummary {
	return &UserSummary{
		UserInfo: UserInfo{UserID: "u1", UserName: "Alice", UserEmail: "alice@example.com"},
		Summary: SummaryTotals{
			TotalChats:      totalChats,
			TotalMessages:   studentMsgs + chatbotMsgs,
			StudentMessages: studentMsgs,
			ChatbotMessages: chatbotMsgs,
			TotalTokens:     120,
			ModelsUsed:      []string{"deepseek-chat"},
			LastActivity:    "2024-03-14T10:30:00.000Z",
		},
	}
}

func TestNewReportData(t *testing.T) {
	data := NewReportData(sampleSummary(3, 6, 4), nil, "2024-03-14")

	if data.ReportDateLong != "Thursday, March 14, 2024" {
		t.Errorf("ReportDateLong = %q", data.ReportDateLong)
	}
	if data.BalancePercent != 60 {
		t.Errorf("BalancePercent = %d, want 60", data.BalancePercent)
	}
}

func TestNewReportDataEngagement(t *testing.T) {
	tests := []struct {
		chats int
		want  string
	}{
		{0, "Low"},
		{2, "Low"},
		{3, "Moderate"},
		{4, "Moderate"},
		{5, "High"},
	}

	for _, tt := range tests {
		data := NewReportData(sampleSummary(tt.chats, 1, 1), nil, "2024-03-14")
		if data.Engagement != tt.want {
			t.Errorf("Engagement(%d chats) = %q, want %q", tt.chats, data.Engagement, tt.want)
		}
	}
}

func TestNewReportDataEmptyTotals(t *testing.T) {
	data := NewReportData(sampleSummary(1, 0, 0), nil, "2024-03-14")
	if data.BalancePercent != 0 {
		t.Errorf("BalancePercent = %d, want 0 without messages", data.BalancePercent)
	}
}

func TestNewReportDataBadDate(t *testing.T) {
	data := NewReportData(sampleSummary(1, 1, 1), nil, "not-a-date")
	if data.ReportDateLong != "not-a-date" {
		t.Errorf("ReportDateLong = %q, want the raw label", data.ReportDateLong)
	}
}

func renderChats() []*ChatReport {
	return []*ChatReport{
		{
			ChatInfo: ChatInfo{
				ChatID:                "c1",
				Title:                 "Daily practice",
				MessageCount:          2,
				EstimatedPracticeTime: "3 minutes",
				ModelsUsed:            []string{"deepseek-chat"},
			},
			ConversationHistory: []ReportMessage{
				{Role: "student", Content: "Hello <teacher>"},
				{Role: "chatbot", Content: "Hi!\nHow are you?"},
			},
			EducationalAssessment: &Assessment{
				PerformanceComment: "Clear communication",
				Correction:         "None needed",
				ImprovementAreas:   "Tenses",
				Encouragement:      "Keep it up",
			},
		},
	}
}

func TestRenderStudentReport(t *testing.T) {
	data := NewReportData(sampleSummary(1, 1, 1), renderChats(), "2024-03-14")

	html, err := RenderStudentReport(data)
	if err != nil {
		t.Fatalf("RenderStudentReport() error: %v", err)
	}

	for _, want := range []string{"Alice", "March 14, 2024", "Daily practice", "Clear communication", "Keep it up"} {
		if !strings.Contains(html, want) {
			t.Errorf("student report missing %q", want)
		}
	}
	// User content is escaped.
	if strings.Contains(html, "Hello <teacher>") {
		t.Error("unescaped user content in student report")
	}
	if !strings.Contains(html, "Hello &lt;teacher&gt;") {
		t.Error("escaped user content not found")
	}
	// Newlines in content become line breaks.
	if !strings.Contains(html, "Hi!<br>How are you?") {
		t.Error("newline not converted to <br>")
	}
}

func TestRenderTeacherReport(t *testing.T) {
	data := NewReportData(sampleSummary(5, 3, 2), renderChats(), "2024-03-14")

	html, err := RenderTeacherReport(data)
	if err != nil {
		t.Fatalf("RenderTeacherReport() error: %v", err)
	}

	for _, want := range []string{"Alice", "alice@example.com", "High", "Tenses"} {
		if !strings.Contains(html, want) {
			t.Errorf("teacher report missing %q", want)
		}
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<html><head><style>body { color: red; }</style></head>
<body><h1>Title</h1><p>First line<br>Second line</p>
<script>alert(1)</script>
<p>Tail&nbsp;text</p></body></html>`

	text := HTMLToText(html)

	if strings.Contains(text, "color: red") {
		t.Error("style block not stripped")
	}
	if strings.Contains(text, "alert") {
		t.Error("script block not stripped")
	}
	if strings.Contains(text, "<") {
		t.Errorf("tags remain: %q", text)
	}
	if !strings.Contains(text, "First line\nSecond line") {
		t.Errorf("<br> not converted: %q", text)
	}
	if !strings.Contains(text, "Tail text") {
		t.Errorf("&nbsp; not converted: %q", text)
	}
}
